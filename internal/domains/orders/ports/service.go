package ports

import (
	"context"

	"github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

// CartLine is one requested position in a new order.
type CartLine struct {
	ListingID int64
	Quantity  int64
}

// Service exposes order use cases.
type Service interface {
	// PlaceOrder atomically decrements stock for every cart line and
	// creates a pending order, or changes nothing at all.
	PlaceOrder(ctx context.Context, actor access.Actor, cart []CartLine) (*domain.Order, error)
	// UpdateStatus moves an order through the state machine on behalf
	// of a farmer involved in it or staff.
	UpdateStatus(ctx context.Context, actor access.Actor, orderID int64, next domain.Status) (*domain.Order, error)
	GetByID(ctx context.Context, actor access.Actor, orderID int64) (*domain.Order, error)
	// List returns the actor's orders: buyers see their purchases,
	// farmers see orders containing their listings, staff see all.
	List(ctx context.Context, actor access.Actor) ([]*domain.Order, error)
}
