package client

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boxdancer/go-price-feed/internal/cache"
	"github.com/boxdancer/go-price-feed/internal/observability"
	"github.com/boxdancer/go-price-feed/internal/price"
)

// CachedClient оборачивает backend (любой price.Client) и добавляет Redis-кэш.
type CachedClient struct {
	backend price.Client
	cache   cache.Cache
	metrics observability.Metrics
}

func NewCachedClient(backend price.Client, c cache.Cache, m observability.Metrics) *CachedClient {
	if m == nil {
		m = observability.NewNoopMetrics()
	}
	return &CachedClient{
		backend: backend,
		cache:   c,
		metrics: m,
	}
}

func (c *CachedClient) GetPrice(ctx context.Context, id, vs string) (decimal.Decimal, error) {
	key := fmt.Sprintf("price:%s:%s", id, vs)

	// Попытка взять из кэша (best-effort)
	if c.cache != nil {
		if val, err := c.cache.Get(ctx, key); err == nil {
			if cached, parseErr := decimal.NewFromString(val); parseErr == nil {
				c.metrics.CacheHit()
				return cached, nil
			}
		}
		// промах, битое значение или недоступный Redis — идём в backend
		c.metrics.CacheMiss()
	}

	start := time.Now()
	priceVal, err := c.backend.GetPrice(ctx, id, vs)
	c.metrics.ObserveBackendCall(time.Since(start), err == nil)
	if err != nil {
		return decimal.Zero, err
	}

	// Сохраняем в кэш (ошибки от Set игнорируем)
	if c.cache != nil {
		_ = c.cache.Set(ctx, key, []byte(priceVal.String()))
	}

	return priceVal, nil
}
