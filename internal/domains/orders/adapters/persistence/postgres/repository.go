package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is the PostgreSQL read side for orders.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&record, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListForBuyer(ctx context.Context, buyerID int64) ([]*domain.Order, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("buyer_id = ?", buyerID)
	})
}

// ListForFarmer returns every order containing at least one of the
// farmer's listings.
func (r *Repository) ListForFarmer(ctx context.Context, farmerID int64) ([]*domain.Order, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("id IN (?)",
			r.db.Model(&orderLineRecord{}).
				Select("DISTINCT order_id").
				Where("farmer_id = ?", farmerID))
	})
}

func (r *Repository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB { return q })
}

func (r *Repository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	query := scope(r.db.WithContext(ctx).Preload("Lines").Order("created_at DESC"))
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}
