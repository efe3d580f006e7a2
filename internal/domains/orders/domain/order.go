package domain

import (
	"fmt"
	"time"
)

// Line is one purchased position. Name, farmer and unit price are
// snapshotted from the listing at the moment of purchase so later edits
// to the listing never rewrite order history.
type Line struct {
	ID             int64
	ListingID      int64
	FarmerID       int64
	ListingName    string
	UnitPriceCents int64
	Quantity       int64
}

// SubtotalCents returns the line total.
func (l Line) SubtotalCents() int64 {
	return l.UnitPriceCents * l.Quantity
}

// Order is a buyer's purchase across one or more listings.
type Order struct {
	ID        int64
	BuyerID   int64
	Status    Status
	CreatedAt time.Time
	Lines     []Line
}

// NewOrder builds a pending order for the buyer with the given lines.
func NewOrder(buyerID int64, lines []Line, now time.Time) *Order {
	return &Order{
		BuyerID:   buyerID,
		Status:    StatusPending,
		CreatedAt: now,
		Lines:     lines,
	}
}

// TotalCents sums all line subtotals.
func (o *Order) TotalCents() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.SubtotalCents()
	}
	return total
}

// InvolvesFarmer reports whether any line belongs to the farmer.
func (o *Order) InvolvesFarmer(farmerID int64) bool {
	for _, l := range o.Lines {
		if l.FarmerID == farmerID {
			return true
		}
	}
	return false
}

// FarmerIDs returns the distinct farmers selling on this order.
func (o *Order) FarmerIDs() []int64 {
	seen := make(map[int64]struct{}, len(o.Lines))
	ids := make([]int64, 0, len(o.Lines))
	for _, l := range o.Lines {
		if _, ok := seen[l.FarmerID]; ok {
			continue
		}
		seen[l.FarmerID] = struct{}{}
		ids = append(ids, l.FarmerID)
	}
	return ids
}

// Transition moves the order to next, enforcing the state machine.
func (o *Order) Transition(next Status) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	if !o.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	return nil
}
