package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	listingsmem "github.com/farmart-ke/farmart-api/internal/domains/listings/adapters/memory"
	listingports "github.com/farmart-ke/farmart-api/internal/domains/listings/ports"
	"github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
)

var (
	_ ports.UnitOfWork = (*Store)(nil)
	_ ports.Repository = (*Store)(nil)
)

// Store is the in-memory order persistence adapter. It shares listing
// state with the listings memory repository so dev-mode stock decrements
// are visible to listing reads. Transactions are serialized under a
// single mutex, writes are staged in the Tx and applied only on commit.
type Store struct {
	mu       sync.Mutex
	listings *listingsmem.Repository
	orders   map[int64]*domain.Order
	nextID   int64
	nextLine int64
}

func NewStore(listings *listingsmem.Repository) *Store {
	s := &Store{listings: listings, orders: map[int64]*domain.Order{}}
	if listings != nil {
		listings.SetReferenceCheck(s.referencesListing)
	}
	return s
}

// referencesListing reports whether any stored order line points at the
// listing. Registered as the listings repository delete guard.
func (s *Store) referencesListing(listingID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		for _, line := range order.Lines {
			if line.ListingID == listingID {
				return true
			}
		}
	}
	return false
}

type stockChange struct {
	quantity int64
	soldOut  bool
}

type tx struct {
	store   *Store
	stock   map[int64]stockChange
	created []*domain.Order
	status  map[int64]domain.Status
}

// Do runs fn while holding the store mutex, then applies the staged
// writes when fn returns nil.
func (s *Store) Do(ctx context.Context, fn func(tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &tx{
		store:  s,
		stock:  map[int64]stockChange{},
		status: map[int64]domain.Status{},
	}
	if err := fn(t); err != nil {
		return err
	}
	return t.commit(ctx)
}

func (t *tx) LockListing(ctx context.Context, listingID int64) (*ports.LockedListing, error) {
	listing, err := t.store.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, listingports.ErrNotFound) {
			return nil, ports.ErrListingNotFound
		}
		return nil, err
	}
	locked := &ports.LockedListing{
		ID:         listing.ID,
		FarmerID:   listing.FarmerID,
		Name:       listing.Name,
		PriceCents: listing.PriceCents,
		Quantity:   listing.Quantity,
		SoldOut:    listing.SoldOut,
	}
	if change, ok := t.stock[listingID]; ok {
		locked.Quantity = change.quantity
		locked.SoldOut = change.soldOut
	}
	return locked, nil
}

func (t *tx) ApplyStock(_ context.Context, listingID, quantity int64, soldOut bool) error {
	t.stock[listingID] = stockChange{quantity: quantity, soldOut: soldOut}
	return nil
}

func (t *tx) CreateOrder(_ context.Context, order *domain.Order) error {
	t.store.nextID++
	order.ID = t.store.nextID
	for i := range order.Lines {
		t.store.nextLine++
		order.Lines[i].ID = t.store.nextLine
	}
	t.created = append(t.created, order)
	return nil
}

func (t *tx) LockOrder(_ context.Context, orderID int64) (*domain.Order, error) {
	order, ok := t.store.orders[orderID]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	clone := cloneOrder(order)
	if status, staged := t.status[orderID]; staged {
		clone.Status = status
	}
	return clone, nil
}

func (t *tx) SetOrderStatus(_ context.Context, orderID int64, status domain.Status) error {
	if _, ok := t.store.orders[orderID]; !ok {
		return ports.ErrOrderNotFound
	}
	t.status[orderID] = status
	return nil
}

func (t *tx) commit(ctx context.Context) error {
	for id, change := range t.stock {
		if err := t.store.listings.UpdateStock(ctx, id, change.quantity, change.soldOut); err != nil {
			return err
		}
	}
	for _, order := range t.created {
		t.store.orders[order.ID] = cloneOrder(order)
	}
	for id, status := range t.status {
		t.store.orders[id].Status = status
	}
	return nil
}

func (s *Store) GetByID(_ context.Context, orderID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, ports.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (s *Store) ListForBuyer(_ context.Context, buyerID int64) ([]*domain.Order, error) {
	return s.list(func(o *domain.Order) bool { return o.BuyerID == buyerID })
}

func (s *Store) ListForFarmer(_ context.Context, farmerID int64) ([]*domain.Order, error) {
	return s.list(func(o *domain.Order) bool { return o.InvolvesFarmer(farmerID) })
}

func (s *Store) ListAll(_ context.Context) ([]*domain.Order, error) {
	return s.list(func(*domain.Order) bool { return true })
}

func (s *Store) list(keep func(*domain.Order) bool) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Order
	for _, order := range s.orders {
		if keep(order) {
			out = append(out, cloneOrder(order))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = make([]domain.Line, len(order.Lines))
	copy(clone.Lines, order.Lines)
	return &clone
}
