package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmart-ke/farmart-api/internal/domains/users/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/users/ports"
)

// DefaultSessionTTL bounds how long an issued token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// Service orchestrates registration, authentication, and profile use cases.
type Service struct {
	repo       ports.Repository
	sessions   ports.SessionStore
	sessionTTL time.Duration
	now        func() time.Time
}

type Option func(*Service)

// WithSessionTTL overrides the session lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithClock injects the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register validates the payload, hashes the password, and persists the account.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, mapError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(input.Username, input.Email, string(hash), input.Role, input.Phone, input.Location)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, user)
}

// Login verifies credentials and issues an opaque session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return "", ports.ErrInvalidCredentials
	}
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", ports.ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ports.ErrInvalidCredentials
	}
	token := uuid.NewString()
	if err := s.sessions.Save(ctx, token, user.ID, s.now().Add(s.sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// Logout revokes every session of the user.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.sessions.DeleteForUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Authenticate resolves a bearer token to the account that owns it.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ports.ErrSessionNotFound
	}
	userID, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, userID)
}

var _ ports.Service = (*Service)(nil)
