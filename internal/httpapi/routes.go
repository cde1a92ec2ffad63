package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/boxdancer/go-price-feed/internal/observability"
	"github.com/boxdancer/go-price-feed/internal/price"
	"github.com/boxdancer/go-price-feed/internal/store"
)

type Routes struct {
	store    *store.Store
	registry *price.Registry
	logger   *zap.SugaredLogger
	metrics  observability.Metrics
}

func NewRoutes(st *store.Store, registry *price.Registry, logger *zap.SugaredLogger, metrics observability.Metrics) *Routes {
	if metrics == nil {
		metrics = observability.NewNoopMetrics()
	}
	return &Routes{
		store:    st,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
	}
}

func (rt *Routes) Register(mux *http.ServeMux) {
	mux.HandleFunc("/prices", rt.instrument("/prices", rt.prices))
	mux.HandleFunc("/set-price", rt.instrument("/set-price", rt.setPrice))
	mux.HandleFunc("/health", rt.health)
}

// setCORSHeaders sets the CORS headers for the response.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (rt *Routes) prices(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	// Снимок store; пустой store — валидный пустой массив.
	if err := json.NewEncoder(w).Encode(rt.store.List()); err != nil {
		rt.logger.Errorw("failed to encode prices", "error", err)
	}
}

func (rt *Routes) setPrice(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entry, err := parseSetPrice(r.Body, rt.registry)
	if err != nil {
		var vErr *price.ValidationError
		switch {
		case errors.As(err, &vErr):
			http.Error(w, vErr.Error(), http.StatusBadRequest)
		case errors.Is(err, price.ErrUnknownSymbol):
			http.Error(w, "Unknown symbol", http.StatusNotFound)
		default:
			http.Error(w, "Invalid request body", http.StatusBadRequest)
		}
		return
	}

	// Store мутируется только после полной валидации.
	rt.store.Set(entry)
	rt.metrics.PriceUpdated(entry.Symbol, entry.Type)
	rt.logger.Infow("price set manually", "symbol", entry.Symbol, "type", entry.Type, "amount", entry.Amount)

	w.WriteHeader(http.StatusOK)
}

func (rt *Routes) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// statusRecorder запоминает статус ответа для метрик.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (rt *Routes) instrument(path string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		rt.metrics.HTTPRequest(path, rec.status)
	}
}
