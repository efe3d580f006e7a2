package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/farmart-ke/farmart-api/internal/domains/payments/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the in-memory payment persistence adapter.
type Repository struct {
	mu         sync.RWMutex
	payments   map[int64]*domain.Payment
	byCheckout map[string]int64
	nextID     int64
}

func NewRepository() *Repository {
	return &Repository{
		payments:   map[int64]*domain.Payment{},
		byCheckout: map[string]int64{},
	}
}

func (r *Repository) Save(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil {
		return nil, errors.New("payment is nil")
	}
	clone := *payment
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	}
	r.payments[clone.ID] = &clone
	if clone.CheckoutRequestID != "" {
		r.byCheckout[clone.CheckoutRequestID] = clone.ID
	}
	out := clone
	return &out, nil
}

func (r *Repository) GetByCheckoutRequestID(_ context.Context, checkoutRequestID string) (*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCheckout[checkoutRequestID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *r.payments[id]
	return &clone, nil
}

func (r *Repository) ListForOrder(_ context.Context, orderID int64) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Payment
	for _, payment := range r.payments {
		if payment.OrderID == orderID {
			clone := *payment
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
