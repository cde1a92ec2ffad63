package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — минимальный интерфейс, который используют бизнес-пакеты.
type Metrics interface {
	// ObserveBackendCall отмечает длительность backend-вызова и успех/провал.
	ObserveBackendCall(d time.Duration, success bool)
	// CacheHit / CacheMiss — счётчики попаданий/промахов кэша.
	CacheHit()
	CacheMiss()
	// PriceUpdated — запись цены в store (из фида или через set-price).
	PriceUpdated(symbol, currency string)
	// HTTPRequest — обработанный HTTP-запрос по пути и статусу.
	HTTPRequest(path string, status int)
}

// Noop (для тестов)
type noopMetrics struct{}

func NewNoopMetrics() Metrics { return &noopMetrics{} }

func (n *noopMetrics) ObserveBackendCall(_ time.Duration, _ bool) {}

func (n *noopMetrics) CacheHit() {}

func (n *noopMetrics) CacheMiss() {}

func (n *noopMetrics) PriceUpdated(_, _ string) {}

func (n *noopMetrics) HTTPRequest(_ string, _ int) {}

// Prometheus реализация
type prometheusMetrics struct {
	backendLatency *prometheus.HistogramVec
	backendErrors  prometheus.Counter
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	priceUpdates   *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
}

// NewPrometheusMetrics регистрирует и возвращает реализацию Metrics.
// Вызывать ровно один раз в main (повторная регистрация — паника).
// Для тестов observability.NewNoopMetrics().
func NewPrometheusMetrics() Metrics {
	m := &prometheusMetrics{
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "client_backend_duration_seconds",
			Help:    "Duration of backend GetPrice calls in seconds, labeled by success",
			Buckets: prometheus.DefBuckets,
		}, []string{"success"}),
		backendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "client_backend_errors_total",
			Help: "Number of backend errors",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cached_client_cache_hits_total",
			Help: "Number of cache hits served by CachedClient",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cached_client_cache_misses_total",
			Help: "Number of cache misses in CachedClient",
		}),
		priceUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "price_store_updates_total",
			Help: "Number of price entries written to the store",
		}, []string{"symbol", "currency"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of handled HTTP requests by path and status",
		}, []string{"path", "status"}),
	}

	prometheus.MustRegister(
		m.backendLatency,
		m.backendErrors,
		m.cacheHits,
		m.cacheMisses,
		m.priceUpdates,
		m.httpRequests,
	)

	return m
}

func (m *prometheusMetrics) ObserveBackendCall(d time.Duration, success bool) {
	label := "true"
	if !success {
		label = "false"
		m.backendErrors.Inc()
	}
	m.backendLatency.WithLabelValues(label).Observe(d.Seconds())
}

func (m *prometheusMetrics) CacheHit() {
	m.cacheHits.Inc()
}

func (m *prometheusMetrics) CacheMiss() {
	m.cacheMisses.Inc()
}

func (m *prometheusMetrics) PriceUpdated(symbol, currency string) {
	m.priceUpdates.WithLabelValues(symbol, currency).Inc()
}

func (m *prometheusMetrics) HTTPRequest(path string, status int) {
	m.httpRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}
