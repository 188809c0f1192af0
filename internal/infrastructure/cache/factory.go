package cache

import (
	"fmt"
	"time"

	"github.com/menuhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates response caches based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory cache when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) ttl() time.Duration {
	if f.redisConfig.CacheTTL > 0 {
		return f.redisConfig.CacheTTL
	}
	return DefaultTTL
}

// CreateRedisCache creates a Redis-backed cache
func (f *Factory) CreateRedisCache() (*RedisCache, error) {
	c, err := NewRedisCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, WithTTL(f.ttl()), WithCacheLogger(f.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cache: %w", err)
	}
	return c, nil
}

// CreateInMemoryCache creates a process-local cache
func (f *Factory) CreateInMemoryCache() *InMemoryCache {
	return NewInMemoryCache(f.ttl())
}

// Create returns a Redis cache when Redis is enabled and reachable, and an
// in-memory cache otherwise (if fallback is allowed)
func (f *Factory) Create() (ResponseCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory response cache")
		return f.CreateInMemoryCache(), nil
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("Using Redis response cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for response cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory response cache. "+
		"Invalidation will not reach other instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
