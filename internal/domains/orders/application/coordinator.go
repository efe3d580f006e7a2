package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

// Coordinator implements ports.Service. Order creation and the stock
// decrement it implies run inside one unit of work so a cart either
// commits whole or leaves every listing untouched.
type Coordinator struct {
	uow   ports.UnitOfWork
	repo  ports.Repository
	clock func() time.Time
}

// Option configures the Coordinator.
type Option func(*Coordinator)

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) { c.clock = clock }
}

// NewCoordinator wires the order use cases over a unit of work and a
// read-side repository.
func NewCoordinator(uow ports.UnitOfWork, repo ports.Repository, opts ...Option) *Coordinator {
	c := &Coordinator{uow: uow, repo: repo, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.Service = (*Coordinator)(nil)

// PlaceOrder validates the cart, then locks every referenced listing in
// ascending ID order, re-checks stock under lock, snapshots name and
// price into order lines, decrements stock, and creates the pending
// order. Any failure rolls back all of it.
func (c *Coordinator) PlaceOrder(ctx context.Context, actor access.Actor, cart []ports.CartLine) (*domain.Order, error) {
	if !actor.IsBuyer() && !actor.Staff {
		return nil, ErrNotBuyer
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	seen := make(map[int64]struct{}, len(cart))
	for _, line := range cart {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: listing %d", ErrInvalidQuantity, line.ListingID)
		}
		if _, dup := seen[line.ListingID]; dup {
			return nil, fmt.Errorf("%w: listing %d", ErrDuplicateListing, line.ListingID)
		}
		seen[line.ListingID] = struct{}{}
	}

	// Locking in ascending listing ID keeps concurrent multi-line
	// orders from deadlocking against each other.
	sorted := make([]ports.CartLine, len(cart))
	copy(sorted, cart)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ListingID < sorted[j].ListingID })

	var order *domain.Order
	err := c.uow.Do(ctx, func(tx ports.Tx) error {
		lines := make([]domain.Line, 0, len(sorted))
		for _, cl := range sorted {
			listing, err := tx.LockListing(ctx, cl.ListingID)
			if err != nil {
				if errors.Is(err, ports.ErrListingNotFound) {
					return fmt.Errorf("%w: listing %d", ErrListingNotFound, cl.ListingID)
				}
				return fmt.Errorf("locking listing %d: %w", cl.ListingID, err)
			}
			if listing.FarmerID == actor.ID {
				return fmt.Errorf("%w: listing %d", ErrSelfPurchase, cl.ListingID)
			}
			if listing.SoldOut || listing.Quantity < cl.Quantity {
				return &InsufficientStockError{
					ListingName: listing.Name,
					Requested:   cl.Quantity,
					Available:   listing.Quantity,
				}
			}
			remaining := listing.Quantity - cl.Quantity
			if err := tx.ApplyStock(ctx, listing.ID, remaining, remaining == 0); err != nil {
				return fmt.Errorf("decrementing listing %d: %w", listing.ID, err)
			}
			lines = append(lines, domain.Line{
				ListingID:      listing.ID,
				FarmerID:       listing.FarmerID,
				ListingName:    listing.Name,
				UnitPriceCents: listing.PriceCents,
				Quantity:       cl.Quantity,
			})
		}
		order = domain.NewOrder(actor.ID, lines, c.clock().UTC())
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus applies a settlement transition on behalf of a farmer
// involved in the order, or staff. PAID is reserved for the payment
// callback and cannot be set here.
func (c *Coordinator) UpdateStatus(ctx context.Context, actor access.Actor, orderID int64, next domain.Status) (*domain.Order, error) {
	if next == domain.StatusPaid {
		return nil, fmt.Errorf("%w: %s is set by payment settlement", domain.ErrInvalidTransition, next)
	}
	var updated *domain.Order
	err := c.uow.Do(ctx, func(tx ports.Tx) error {
		order, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, ports.ErrOrderNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("locking order %d: %w", orderID, err)
		}
		if !access.CanSettle(actor, access.Order{BuyerID: order.BuyerID, FarmerIDs: order.FarmerIDs()}) {
			return ErrForbidden
		}
		if err := order.Transition(next); err != nil {
			return err
		}
		if err := tx.SetOrderStatus(ctx, orderID, next); err != nil {
			return fmt.Errorf("updating order %d: %w", orderID, err)
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByID returns the order if the actor may see it.
func (c *Coordinator) GetByID(ctx context.Context, actor access.Actor, orderID int64) (*domain.Order, error) {
	order, err := c.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ports.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("loading order %d: %w", orderID, err)
	}
	if !access.CanView(actor, access.Order{BuyerID: order.BuyerID, FarmerIDs: order.FarmerIDs()}) {
		return nil, ErrForbidden
	}
	return order, nil
}

// List returns the orders visible to the actor.
func (c *Coordinator) List(ctx context.Context, actor access.Actor) ([]*domain.Order, error) {
	switch {
	case actor.Staff:
		return c.repo.ListAll(ctx)
	case actor.IsFarmer():
		return c.repo.ListForFarmer(ctx, actor.ID)
	default:
		return c.repo.ListForBuyer(ctx, actor.ID)
	}
}
