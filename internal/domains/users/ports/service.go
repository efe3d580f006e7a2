package ports

import (
	"context"

	"github.com/farmart-ke/farmart-api/internal/domains/users/domain"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     access.Role
	Phone    string
	Location string
}

// Service exposes the users bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, userID int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Authenticate resolves a session token to the calling actor.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
