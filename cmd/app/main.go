package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/boxdancer/go-price-feed/internal/cache"
	"github.com/boxdancer/go-price-feed/internal/client"
	"github.com/boxdancer/go-price-feed/internal/config"
	"github.com/boxdancer/go-price-feed/internal/feed"
	"github.com/boxdancer/go-price-feed/internal/httpapi"
	"github.com/boxdancer/go-price-feed/internal/observability"
	"github.com/boxdancer/go-price-feed/internal/price"
	"github.com/boxdancer/go-price-feed/internal/store"
)

func main() {
	zl, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zl.Sync() //nolint:errcheck
	logger := zl.Sugar()

	cfg, err := config.New()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewPrometheusMetrics()
	registry := price.NewRegistry(cfg.TokenList(), cfg.CurrencyList())
	st := store.New()

	gecko := client.NewCoinGeckoClient(10*time.Second, cfg.Precision)
	gecko.SetBaseURL(cfg.GeckoURL)

	var priceClient price.Client = gecko
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL, logger)
		if err != nil {
			logger.Fatalw("failed to connect redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer redisCache.Close()
		priceClient = client.NewCachedClient(priceClient, redisCache, metrics)
	}

	poller := feed.NewPoller(priceClient, st, registry, cfg.PollInterval, logger, metrics)

	mux := http.NewServeMux()
	httpapi.NewRoutes(st, registry, logger, metrics).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		poller.Run(ctx)
		return nil
	})

	g.Go(func() error {
		logger.Infow("server is running", "addr", cfg.Addr, "tokens", cfg.Tokens, "currencies", cfg.Currencies)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalw("server exited with error", "error", err)
	}
	logger.Infow("server stopped")
}
