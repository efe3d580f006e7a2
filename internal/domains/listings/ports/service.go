package ports

import (
	"context"

	"github.com/farmart-ke/farmart-api/internal/domains/listings/domain"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

// CreateInput carries the fields a farmer supplies for a new listing.
type CreateInput struct {
	Name        string
	AnimalType  domain.AnimalType
	Breed       string
	AgeMonths   int32
	PriceCents  int64
	Description string
	ImageURLs   []string
	Quantity    int64
}

// UpdateInput carries the mutable fields of an existing listing. Quantity is
// deliberately absent: stock changes go through Restock or the order
// coordinator.
type UpdateInput struct {
	Name        *string
	Breed       *string
	AgeMonths   *int32
	PriceCents  *int64
	Description *string
	ImageURLs   []string
}

// Service exposes listing use cases to adapters.
type Service interface {
	Create(ctx context.Context, actor access.Actor, input CreateInput) (*domain.Listing, error)
	Update(ctx context.Context, actor access.Actor, id int64, input UpdateInput) (*domain.Listing, error)
	Restock(ctx context.Context, actor access.Actor, id int64, amount int64) (*domain.Listing, error)
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	List(ctx context.Context, actor access.Actor) ([]*domain.Listing, error)
	Delete(ctx context.Context, actor access.Actor, id int64) error
}
