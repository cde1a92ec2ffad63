package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMiss — ключа нет в кэше. Вызывающий код идёт в backend.
var ErrMiss = errors.New("cache: miss")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewRedisCache создаёт кэш и один раз проверяет коннект.
// Недоступный Redis — это ошибка конфигурации, а не повод молча деградировать.
func NewRedisCache(addr string, ttl time.Duration, logger *zap.SugaredLogger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	logger.Infow("connected to redis", "addr", addr)

	return &RedisCache{
		client: rdb,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		r.logger.Warnw("redis get failed", "key", key, "error", err)
		return "", err
	}
	return val, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.logger.Warnw("redis set failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
