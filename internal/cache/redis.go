package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TemirB/order-enrichment/internal/config"
	"github.com/TemirB/order-enrichment/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects and pings, retrying a few times while Redis
// comes up next to the service.
func NewRedisClient(ctx context.Context, cfg config.Redis, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		MaxRetries:   3,
	})

	var err error
	for i := range 3 {
		if err = client.Ping(ctx).Err(); err == nil {
			logger.Info("Connected to Redis", zap.String("addr", cfg.Addr))
			return client, nil
		}
		logger.Warn("Failed to connect to Redis, retrying...", zap.Error(err), zap.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	_ = client.Close()
	return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
}

// RedisResults is the ResultCache shared between service replicas. Expiry is
// left to Redis.
type RedisResults struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisResults(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisResults {
	return &RedisResults{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisResults) Set(ctx context.Context, entry domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("Failed to marshal result for cache", zap.Error(err), zap.Int64("order_id", int64(entry.OrderID)))
		return err
	}
	if err := c.client.Set(ctx, entry.Key(), data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to save result to Redis", zap.Error(err), zap.Int64("order_id", int64(entry.OrderID)))
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisResults) Get(ctx context.Context, id domain.OrderID) (domain.CacheEntry, bool, error) {
	data, err := c.client.Get(ctx, domain.CacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CacheEntry{}, false, nil
	}
	if err != nil {
		c.logger.Error("Failed to get result from Redis", zap.Error(err), zap.Int64("order_id", int64(id)))
		return domain.CacheEntry{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Error("Failed to unmarshal result from cache", zap.Error(err), zap.Int64("order_id", int64(id)))
		return domain.CacheEntry{}, false, fmt.Errorf("unmarshal failed: %w", err)
	}
	return entry, true, nil
}
