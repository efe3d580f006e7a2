package ports

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound signals a missing or expired session token.
var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore abstracts session/token persistence.
type SessionStore interface {
	Save(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	// Lookup resolves a bearer token to the owning user ID, rejecting
	// expired tokens with ErrSessionNotFound.
	Lookup(ctx context.Context, token string) (int64, error)
	DeleteForUser(ctx context.Context, userID int64) error
	PurgeExpired(ctx context.Context) error
}
