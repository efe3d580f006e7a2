package ports

import (
	"context"
	"time"
)

// Sale is one sold order line belonging to the farmer.
type Sale struct {
	OrderID       int64
	ListingName   string
	Quantity      int64
	SubtotalCents int64
	Status        string
	SoldAt        time.Time
}

// DailyRevenue is the farmer's settled revenue for one calendar day.
type DailyRevenue struct {
	Day          time.Time
	RevenueCents int64
}

// Stats is the farmer dashboard aggregate. Revenue counts orders the
// farmer confirmed and everything downstream of payment.
type Stats struct {
	TotalRevenueCents int64
	SalesCount        int64
	ActiveListings    int64
	RecentSales       []Sale
	RevenueByDay      []DailyRevenue
}

// Repository computes dashboard aggregates.
type Repository interface {
	FarmerStats(ctx context.Context, farmerID int64, since time.Time) (*Stats, error)
}
