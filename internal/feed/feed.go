package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boxdancer/go-price-feed/internal/observability"
	"github.com/boxdancer/go-price-feed/internal/price"
	"github.com/boxdancer/go-price-feed/internal/store"
)

// Poller периодически опрашивает backend и кладёт свежие цены в store.
type Poller struct {
	client   price.Client
	store    *store.Store
	registry *price.Registry
	interval time.Duration
	logger   *zap.SugaredLogger
	metrics  observability.Metrics
}

func NewPoller(
	client price.Client,
	st *store.Store,
	registry *price.Registry,
	interval time.Duration,
	logger *zap.SugaredLogger,
	metrics observability.Metrics,
) *Poller {
	if metrics == nil {
		metrics = observability.NewNoopMetrics()
	}
	return &Poller{
		client:   client,
		store:    st,
		registry: registry,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run блокируется до отмены контекста. Первый опрос — сразу при старте,
// дальше по тикеру (интервал под rate limit CoinGecko).
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce получает цены для всех пар (symbol, currency) конкурентно.
// Ошибка одной пары не отменяет остальные: в store попадает частичный результат.
func (p *Poller) pollOnce(ctx context.Context) {
	var (
		mu      sync.Mutex
		fetched int
		failed  []string
	)

	var g errgroup.Group

	for _, symbol := range p.registry.Symbols() {
		for _, currency := range p.registry.Currencies() {
			symbol, currency := symbol, currency // захват значений цикла
			g.Go(func() error {
				amount, err := p.client.GetPrice(ctx, symbol, strings.ToLower(currency))
				if err != nil {
					mu.Lock()
					failed = append(failed, fmt.Sprintf("%s/%s: %v", symbol, currency, err))
					mu.Unlock()
					return nil
				}

				p.store.Set(price.Price{Symbol: symbol, Amount: amount, Type: currency})
				p.metrics.PriceUpdated(symbol, currency)

				mu.Lock()
				fetched++
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()

	if len(failed) > 0 {
		p.logger.Warnw("price poll finished with failures", "fetched", fetched, "failed", failed)
		return
	}
	p.logger.Infow("price poll finished", "fetched", fetched)
}
