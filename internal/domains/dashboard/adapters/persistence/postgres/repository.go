package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/farmart-ke/farmart-api/internal/domains/dashboard/ports"
)

var _ ports.Repository = (*Repository)(nil)

// recentSalesLimit caps the recent sales panel.
const recentSalesLimit = 10

// settledStatuses are the order states that count as revenue: confirmed
// sales and everything downstream of payment.
var settledStatuses = []string{"CONFIRMED", "PAID", "DELIVERED"}

// Repository computes dashboard aggregates with raw SQL over the order
// and listing tables.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FarmerStats(ctx context.Context, farmerID int64, since time.Time) (*ports.Stats, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres dashboard repository not configured")
	}
	stats := &ports.Stats{}

	var totals struct {
		RevenueCents int64
		SalesCount   int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(ol.unit_price_cents * ol.quantity), 0) AS revenue_cents,
		       COUNT(*)                                            AS sales_count
		FROM order_lines ol
		JOIN orders o ON o.id = ol.order_id
		WHERE ol.farmer_id = ?
		  AND o.status IN ?
		  AND o.created_at >= ?`,
		farmerID, settledStatuses, since).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	stats.TotalRevenueCents = totals.RevenueCents
	stats.SalesCount = totals.SalesCount

	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM listings
		WHERE farmer_id = ? AND sold_out = FALSE`,
		farmerID).Scan(&stats.ActiveListings).Error
	if err != nil {
		return nil, err
	}

	var sales []struct {
		OrderID       int64
		ListingName   string
		Quantity      int64
		SubtotalCents int64
		Status        string
		SoldAt        time.Time
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT ol.order_id                        AS order_id,
		       ol.listing_name                    AS listing_name,
		       ol.quantity                        AS quantity,
		       ol.unit_price_cents * ol.quantity  AS subtotal_cents,
		       o.status                           AS status,
		       o.created_at                       AS sold_at
		FROM order_lines ol
		JOIN orders o ON o.id = ol.order_id
		WHERE ol.farmer_id = ?
		ORDER BY o.created_at DESC
		LIMIT ?`,
		farmerID, recentSalesLimit).Scan(&sales).Error
	if err != nil {
		return nil, err
	}
	for _, s := range sales {
		stats.RecentSales = append(stats.RecentSales, ports.Sale{
			OrderID:       s.OrderID,
			ListingName:   s.ListingName,
			Quantity:      s.Quantity,
			SubtotalCents: s.SubtotalCents,
			Status:        s.Status,
			SoldAt:        s.SoldAt,
		})
	}

	var days []struct {
		Day          time.Time
		RevenueCents int64
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT DATE_TRUNC('day', o.created_at)                   AS day,
		       COALESCE(SUM(ol.unit_price_cents * ol.quantity), 0) AS revenue_cents
		FROM order_lines ol
		JOIN orders o ON o.id = ol.order_id
		WHERE ol.farmer_id = ?
		  AND o.status IN ?
		  AND o.created_at >= ?
		GROUP BY 1
		ORDER BY 1 ASC`,
		farmerID, settledStatuses, since).Scan(&days).Error
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		stats.RevenueByDay = append(stats.RevenueByDay, ports.DailyRevenue{
			Day:          d.Day,
			RevenueCents: d.RevenueCents,
		})
	}
	return stats, nil
}
