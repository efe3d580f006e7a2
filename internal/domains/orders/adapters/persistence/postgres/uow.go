package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
)

var _ ports.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork runs order writes inside a single PostgreSQL transaction.
// Listing rows touched by a cart are taken with SELECT ... FOR UPDATE so
// concurrent orders against the same listing serialize on the row lock.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do opens a transaction and hands fn a Tx bound to it. fn returning an
// error rolls the transaction back.
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx ports.Tx) error) error {
	if u == nil || u.db == nil {
		return errors.New("postgres order unit of work not configured")
	}
	return u.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&tx{db: gtx})
	})
}

type tx struct {
	db *gorm.DB
}

// lockedListingRecord is the stock-relevant projection of a listing row.
type lockedListingRecord struct {
	ID         int64  `gorm:"column:id"`
	FarmerID   int64  `gorm:"column:farmer_id"`
	Name       string `gorm:"column:name"`
	PriceCents int64  `gorm:"column:price_cents"`
	Quantity   int64  `gorm:"column:quantity"`
	SoldOut    bool   `gorm:"column:sold_out"`
}

func (lockedListingRecord) TableName() string { return "listings" }

func (t *tx) LockListing(ctx context.Context, listingID int64) (*ports.LockedListing, error) {
	var record lockedListingRecord
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", listingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrListingNotFound
		}
		return nil, err
	}
	return &ports.LockedListing{
		ID:         record.ID,
		FarmerID:   record.FarmerID,
		Name:       record.Name,
		PriceCents: record.PriceCents,
		Quantity:   record.Quantity,
		SoldOut:    record.SoldOut,
	}, nil
}

func (t *tx) ApplyStock(ctx context.Context, listingID, quantity int64, soldOut bool) error {
	result := t.db.WithContext(ctx).
		Model(&lockedListingRecord{}).
		Where("id = ?", listingID).
		Updates(map[string]any{
			"quantity":   quantity,
			"sold_out":   soldOut,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrListingNotFound
	}
	return nil
}

func (t *tx) CreateOrder(ctx context.Context, order *domain.Order) error {
	record := toOrderRecord(order)
	if err := t.db.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}
	order.ID = record.ID
	for i := range record.Lines {
		order.Lines[i].ID = record.Lines[i].ID
	}
	return nil
}

func (t *tx) LockOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	var record orderRecord
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrOrderNotFound
		}
		return nil, err
	}
	if err := t.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&record.Lines).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (t *tx) SetOrderStatus(ctx context.Context, orderID int64, status domain.Status) error {
	result := t.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrOrderNotFound
	}
	return nil
}
