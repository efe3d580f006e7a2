package memory

import (
	"context"
	"sync"
	"time"

	"github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
)

var _ ports.TokenCache = (*TokenCache)(nil)

// TokenCache holds the Daraja token in process memory. Suitable for a
// single instance; multi-instance deployments should use the Redis cache.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	clock     func() time.Time
}

func NewTokenCache() *TokenCache {
	return &TokenCache{clock: time.Now}
}

// NewTokenCacheWithClock is for tests that control expiry.
func NewTokenCacheWithClock(clock func() time.Time) *TokenCache {
	return &TokenCache{clock: clock}
}

func (c *TokenCache) Get(_ context.Context) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == "" || !c.clock().Before(c.expiresAt) {
		return "", false, nil
	}
	return c.token, true, nil
}

func (c *TokenCache) Set(_ context.Context, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = c.clock().Add(ttl)
	return nil
}
