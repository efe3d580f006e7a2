package ports

import (
	"context"

	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

// Service exposes the farmer dashboard.
type Service interface {
	// FarmerDashboard returns the actor's sales aggregates over the
	// trailing window.
	FarmerDashboard(ctx context.Context, actor access.Actor) (*Stats, error)
}
