package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/farmart-ke/farmart-api/internal/domains/listings/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/listings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory listing persistence adapter. The orders memory
// unit of work mutates stock through UpdateStock so dev-mode listing and
// order state stay coherent.
type Repository struct {
	mu       sync.RWMutex
	listings map[int64]*domain.Listing
	nextID   int64

	// referenced guards deletes, standing in for the order_lines
	// RESTRICT constraint of the Postgres schema.
	referenced func(listingID int64) bool
}

func NewRepository() *Repository {
	return &Repository{listings: map[int64]*domain.Listing{}}
}

func (r *Repository) Save(_ context.Context, listing *domain.Listing) (*domain.Listing, error) {
	if listing == nil {
		return nil, errors.New("listing is nil")
	}
	clone := *listing
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.listings[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.listings[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *listing
	return &clone, nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Listing
	for _, listing := range r.listings {
		if filter.FarmerID != 0 && listing.FarmerID != filter.FarmerID {
			continue
		}
		if !filter.IncludeSoldOut && listing.SoldOut {
			continue
		}
		clone := *listing
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.RLock()
	_, ok := r.listings[id]
	r.mu.RUnlock()
	if !ok {
		return ports.ErrNotFound
	}
	// The predicate takes the orders store mutex, so consult it outside
	// our own lock to keep the lock order one-directional.
	if r.referenced != nil && r.referenced(id) {
		return ports.ErrReferenced
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.listings, id)
	return nil
}

// SetReferenceCheck installs the predicate consulted before a delete.
// The orders memory store registers itself here so listings referenced
// by order lines survive, matching the database RESTRICT behavior.
func (r *Repository) SetReferenceCheck(fn func(listingID int64) bool) {
	r.referenced = fn
}

// UpdateStock overwrites quantity and the sold-out flag. Called by the orders
// memory unit of work while it holds its transaction mutex.
func (r *Repository) UpdateStock(_ context.Context, id int64, quantity int64, soldOut bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[id]
	if !ok {
		return ports.ErrNotFound
	}
	listing.Quantity = quantity
	listing.SoldOut = soldOut
	return nil
}
