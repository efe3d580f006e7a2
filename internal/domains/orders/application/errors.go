package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBuyer is returned when a non-buyer account places an order.
	ErrNotBuyer = errors.New("only buyer accounts can place orders")
	// ErrEmptyCart is returned when the cart has no lines.
	ErrEmptyCart = errors.New("cart must contain at least one line")
	// ErrInvalidQuantity is returned for a non-positive line quantity.
	ErrInvalidQuantity = errors.New("line quantity must be positive")
	// ErrDuplicateListing is returned when the cart names a listing twice.
	ErrDuplicateListing = errors.New("cart references the same listing more than once")
	// ErrListingNotFound is returned when a cart line points at a
	// listing that does not exist.
	ErrListingNotFound = errors.New("listing not found")
	// ErrOrderNotFound is returned when the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrSelfPurchase is returned when a staff buyer tries to purchase
	// their own listing.
	ErrSelfPurchase = errors.New("cannot purchase your own listing")
	// ErrForbidden is returned when the actor may not act on the order.
	ErrForbidden = errors.New("not allowed to access this order")
)

// InsufficientStockError reports a cart line asking for more units than
// the listing holds at lock time.
type InsufficientStockError struct {
	ListingName string
	Requested   int64
	Available   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ListingName, e.Requested, e.Available)
}
