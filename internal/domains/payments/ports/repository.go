package ports

import (
	"context"
	"errors"

	"github.com/farmart-ke/farmart-api/internal/domains/payments/domain"
)

// ErrNotFound is returned when no payment matches the lookup.
var ErrNotFound = errors.New("payment not found")

// Repository persists payment records.
type Repository interface {
	Save(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*domain.Payment, error)
	ListForOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error)
}
