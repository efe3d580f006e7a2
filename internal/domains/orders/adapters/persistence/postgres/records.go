package postgres

import (
	"time"

	"github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
)

type orderRecord struct {
	ID        int64             `gorm:"primaryKey;column:id"`
	BuyerID   int64             `gorm:"column:buyer_id;index"`
	Status    string            `gorm:"column:status;type:varchar(16);index"`
	CreatedAt time.Time         `gorm:"column:created_at;index"`
	UpdatedAt time.Time         `gorm:"column:updated_at"`
	Lines     []orderLineRecord `gorm:"foreignKey:OrderID"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineRecord struct {
	ID             int64  `gorm:"primaryKey;column:id"`
	OrderID        int64  `gorm:"column:order_id;uniqueIndex:idx_order_listing"`
	ListingID      int64  `gorm:"column:listing_id;uniqueIndex:idx_order_listing;index"`
	FarmerID       int64  `gorm:"column:farmer_id;index"`
	ListingName    string `gorm:"column:listing_name"`
	UnitPriceCents int64  `gorm:"column:unit_price_cents"`
	Quantity       int64  `gorm:"column:quantity"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

func toOrderRecord(order *domain.Order) orderRecord {
	record := orderRecord{
		ID:        order.ID,
		BuyerID:   order.BuyerID,
		Status:    string(order.Status),
		CreatedAt: order.CreatedAt,
		Lines:     make([]orderLineRecord, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		record.Lines = append(record.Lines, orderLineRecord{
			ID:             line.ID,
			ListingID:      line.ListingID,
			FarmerID:       line.FarmerID,
			ListingName:    line.ListingName,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}
	return record
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:        r.ID,
		BuyerID:   r.BuyerID,
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
		Lines:     make([]domain.Line, 0, len(r.Lines)),
	}
	for _, line := range r.Lines {
		order.Lines = append(order.Lines, domain.Line{
			ID:             line.ID,
			ListingID:      line.ListingID,
			FarmerID:       line.FarmerID,
			ListingName:    line.ListingName,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}
	return order
}
