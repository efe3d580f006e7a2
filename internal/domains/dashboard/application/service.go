package application

import (
	"context"
	"errors"
	"time"

	"github.com/farmart-ke/farmart-api/internal/domains/dashboard/ports"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

// ErrNotFarmer is returned when a non-farmer account requests the dashboard.
var ErrNotFarmer = errors.New("only farmer accounts have a dashboard")

// DefaultWindow is the trailing period the dashboard aggregates over.
const DefaultWindow = 30 * 24 * time.Hour

// Service implements ports.Service.
type Service struct {
	repo   ports.Repository
	window time.Duration
	clock  func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithWindow overrides the trailing aggregation window.
func WithWindow(window time.Duration) Option {
	return func(s *Service) { s.window = window }
}

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService wires the dashboard use case.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, window: DefaultWindow, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.Service = (*Service)(nil)

// FarmerDashboard aggregates the farmer's sales over the trailing window.
func (s *Service) FarmerDashboard(ctx context.Context, actor access.Actor) (*ports.Stats, error) {
	if !actor.IsFarmer() {
		return nil, ErrNotFarmer
	}
	since := s.clock().UTC().Add(-s.window)
	return s.repo.FarmerStats(ctx, actor.ID, since)
}
