// Package bootstrap builds the API binary's runtime dependencies from config.
package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/igdm-router/internal/config"
	"github.com/wolfman30/igdm-router/internal/events"
	"github.com/wolfman30/igdm-router/internal/session"
	"github.com/wolfman30/igdm-router/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		client.Close()
		return nil
	}
	return client
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// BuildSessionStore picks the session backend named by cfg.SessionBackend.
// The returned closer releases backend resources the store owns.
func BuildSessionStore(cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) (session.Store, io.Closer, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.SessionBackend {
	case appconfig.SessionBackendRedis:
		if redisClient == nil {
			return nil, nil, fmt.Errorf("bootstrap: session backend %q needs REDIS_ADDR", cfg.SessionBackend)
		}
		logger.Info("session store: redis", "ttl", cfg.SessionTTL)
		return session.NewRedisStore(redisClient, cfg.SessionTTL), nopCloser{}, nil

	case appconfig.SessionBackendBolt:
		store, err := session.NewBoltStore(cfg.BoltPath)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: %w", err)
		}
		logger.Info("session store: bolt", "path", cfg.BoltPath)
		return store, store, nil

	case appconfig.SessionBackendMemory, "":
		logger.Info("session store: memory")
		return session.NewMemoryStore(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("bootstrap: unknown session backend %q", cfg.SessionBackend)
}

// BuildProcessedStore returns the webhook de-dup store, Redis-backed when a
// client is available so replicas share it.
func BuildProcessedStore(redisClient *redis.Client) events.ProcessedStore {
	if redisClient == nil {
		return events.NewMemoryProcessedStore(0)
	}
	return events.NewRedisProcessedStore(redisClient, 0)
}
