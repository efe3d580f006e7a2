package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectFromEnv dials Redis at the given address and verifies connectivity.
// An empty address or a failed ping returns nil with a no-op cleanup so the
// caller can fall back to an in-memory cache.
func ConnectFromEnv(ctx context.Context, addr string, logger *slog.Logger) (*redis.Client, func()) {
	if addr == "" {
		if logger != nil {
			logger.Warn("REDIS_ADDR not set, falling back to in-memory token cache")
		}
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if logger != nil {
			logger.Warn("failed to connect to redis, falling back to in-memory token cache", slog.String("error", err.Error()))
		}
		_ = client.Close()
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established", slog.String("addr", addr))
	}
	return client, func() { _ = client.Close() }
}
