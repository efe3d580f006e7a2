package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
)

var _ ports.TokenCache = (*TokenCache)(nil)

const tokenKey = "mpesa:access_token"

// TokenCache shares the Daraja token across API instances through Redis.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) Get(ctx context.Context) (string, bool, error) {
	if c == nil || c.client == nil {
		return "", false, errors.New("redis token cache not configured")
	}
	token, err := c.client.Get(ctx, tokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func (c *TokenCache) Set(ctx context.Context, token string, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return errors.New("redis token cache not configured")
	}
	return c.client.Set(ctx, tokenKey, token, ttl).Err()
}
