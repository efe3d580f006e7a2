package ports

import (
	"context"

	"github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
)

// Repository is the read side for orders. Writes go through the
// UnitOfWork so stock and order state always change together.
type Repository interface {
	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
	ListForBuyer(ctx context.Context, buyerID int64) ([]*domain.Order, error)
	ListForFarmer(ctx context.Context, farmerID int64) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
}
