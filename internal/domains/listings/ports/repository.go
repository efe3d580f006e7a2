package ports

import (
	"context"
	"errors"

	"github.com/farmart-ke/farmart-api/internal/domains/listings/domain"
)

var (
	ErrNotFound = errors.New("listing not found")
	// ErrReferenced blocks deletion of a listing that an order line still
	// references.
	ErrReferenced = errors.New("listing is referenced by existing orders")
)

// ListFilter narrows List results.
type ListFilter struct {
	// FarmerID restricts to one farmer's listings when non-zero.
	FarmerID int64
	// IncludeSoldOut keeps depleted listings in the result.
	IncludeSoldOut bool
}

type Repository interface {
	Save(ctx context.Context, listing *domain.Listing) (*domain.Listing, error)
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Listing, error)
	Delete(ctx context.Context, id int64) error
}
