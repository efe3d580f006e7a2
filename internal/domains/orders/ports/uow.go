package ports

import (
	"context"
	"errors"

	"github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
)

// ErrListingNotFound is returned by Tx.LockListing when the listing
// does not exist.
var ErrListingNotFound = errors.New("listing not found")

// ErrOrderNotFound is returned when an order cannot be located.
var ErrOrderNotFound = errors.New("order not found")

// LockedListing is the stock-relevant view of a listing captured while
// its row is held under an exclusive lock.
type LockedListing struct {
	ID         int64
	FarmerID   int64
	Name       string
	PriceCents int64
	Quantity   int64
	SoldOut    bool
}

// Tx is the set of writes available inside one unit of work. All reads
// through LockListing and LockOrder hold row locks until the unit of
// work commits or rolls back.
type Tx interface {
	LockListing(ctx context.Context, listingID int64) (*LockedListing, error)
	ApplyStock(ctx context.Context, listingID, quantity int64, soldOut bool) error
	CreateOrder(ctx context.Context, order *domain.Order) error
	LockOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	SetOrderStatus(ctx context.Context, orderID int64, status domain.Status) error
}

// UnitOfWork runs fn inside a single transaction. A nil error from fn
// commits, any error rolls back every write made through the Tx.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Tx) error) error
}
