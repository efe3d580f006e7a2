package memory

import (
	"context"
	"sort"
	"time"

	"github.com/farmart-ke/farmart-api/internal/domains/dashboard/ports"
	listingports "github.com/farmart-ke/farmart-api/internal/domains/listings/ports"
	ordersdomain "github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	ordersports "github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

const recentSalesLimit = 10

// Repository computes dashboard aggregates from the in-memory order and
// listing adapters. Dev-mode only.
type Repository struct {
	orders   ordersports.Repository
	listings listingports.Repository
}

func NewRepository(orders ordersports.Repository, listings listingports.Repository) *Repository {
	return &Repository{orders: orders, listings: listings}
}

func (r *Repository) FarmerStats(ctx context.Context, farmerID int64, since time.Time) (*ports.Stats, error) {
	stats := &ports.Stats{}

	orders, err := r.orders.ListForFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	byDay := map[time.Time]int64{}
	for _, order := range orders {
		settled := order.Status == ordersdomain.StatusConfirmed ||
			order.Status == ordersdomain.StatusPaid ||
			order.Status == ordersdomain.StatusDelivered
		for _, line := range order.Lines {
			if line.FarmerID != farmerID {
				continue
			}
			if len(stats.RecentSales) < recentSalesLimit {
				stats.RecentSales = append(stats.RecentSales, ports.Sale{
					OrderID:       order.ID,
					ListingName:   line.ListingName,
					Quantity:      line.Quantity,
					SubtotalCents: line.SubtotalCents(),
					Status:        string(order.Status),
					SoldAt:        order.CreatedAt,
				})
			}
			if settled && !order.CreatedAt.Before(since) {
				stats.TotalRevenueCents += line.SubtotalCents()
				stats.SalesCount++
				day := order.CreatedAt.Truncate(24 * time.Hour)
				byDay[day] += line.SubtotalCents()
			}
		}
	}
	for day, revenue := range byDay {
		stats.RevenueByDay = append(stats.RevenueByDay, ports.DailyRevenue{Day: day, RevenueCents: revenue})
	}
	sort.Slice(stats.RevenueByDay, func(i, j int) bool {
		return stats.RevenueByDay[i].Day.Before(stats.RevenueByDay[j].Day)
	})

	listings, err := r.listings.List(ctx, listingports.ListFilter{FarmerID: farmerID})
	if err != nil {
		return nil, err
	}
	stats.ActiveListings = int64(len(listings))
	return stats, nil
}
