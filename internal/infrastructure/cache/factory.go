package cache

import (
	"time"

	appanalytics "github.com/bookstore/backend/internal/application/analytics"
	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewReportCache creates a report cache based on configuration. When Redis
// is enabled but unreachable it falls back to the in-memory cache, since a
// degraded cache is preferable to a dead dashboard.
func NewReportCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) appanalytics.ReportCache {
	if !cfg.Enabled {
		return NewInMemoryReportCache(ttl)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	redisCache, err := NewRedisReportCache(client, ttl, logger)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory report cache", zap.Error(err))
		return NewInMemoryReportCache(ttl)
	}

	logger.Info("using redis report cache", zap.String("addr", cfg.Addr()))
	return redisCache
}
