package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bookstore/backend/internal/domain/analytics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const reportKeyPrefix = "report:"

// RedisReportCache implements the report cache on Redis, sharing entries
// across instances. All Redis failures are treated as cache misses so a
// broken cache never fails a report.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisReportCache creates a Redis-backed report cache and verifies
// connectivity before returning.
func NewRedisReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) (*RedisReportCache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisReportCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("report-cache"),
	}, nil
}

// Get retrieves a cached series
func (c *RedisReportCache) Get(ctx context.Context, key string) ([]analytics.RevenuePoint, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	data, err := c.client.Get(ctx, reportKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var points []analytics.RevenuePoint
	if err := json.Unmarshal(data, &points); err != nil {
		c.logger.Warn("corrupt cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return points, true
}

// Set stores a series under the given key
func (c *RedisReportCache) Set(ctx context.Context, key string, points []analytics.RevenuePoint) {
	if c.ttl <= 0 {
		return
	}

	data, err := json.Marshal(points)
	if err != nil {
		c.logger.Warn("failed to marshal cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, reportKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}
