package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	dashboardports "github.com/farmart-ke/farmart-api/internal/domains/dashboard/ports"
)

// DashboardAPI serves the farmer sales dashboard.
type DashboardAPI struct {
	service dashboardports.Service
}

func NewDashboardAPI(service dashboardports.Service) DashboardAPI {
	return DashboardAPI{service: service}
}

type saleResponse struct {
	OrderID       int64     `json:"orderId"`
	ListingName   string    `json:"listingName"`
	Quantity      int64     `json:"quantity"`
	SubtotalCents int64     `json:"subtotalCents"`
	Status        string    `json:"status"`
	SoldAt        time.Time `json:"soldAt"`
}

type dailyRevenueResponse struct {
	Day          string `json:"day"`
	RevenueCents int64  `json:"revenueCents"`
}

type dashboardResponse struct {
	TotalRevenueCents int64                  `json:"totalRevenueCents"`
	SalesCount        int64                  `json:"salesCount"`
	ActiveListings    int64                  `json:"activeListings"`
	RecentSales       []saleResponse         `json:"recentSales"`
	RevenueByDay      []dailyRevenueResponse `json:"revenueByDay"`
}

// Get /v1/dashboard/farmer
func (api *DashboardAPI) Farmer(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	stats, err := api.service.FarmerDashboard(c.Request.Context(), actor)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	resp := dashboardResponse{
		TotalRevenueCents: stats.TotalRevenueCents,
		SalesCount:        stats.SalesCount,
		ActiveListings:    stats.ActiveListings,
		RecentSales:       make([]saleResponse, 0, len(stats.RecentSales)),
		RevenueByDay:      make([]dailyRevenueResponse, 0, len(stats.RevenueByDay)),
	}
	for _, sale := range stats.RecentSales {
		resp.RecentSales = append(resp.RecentSales, saleResponse{
			OrderID:       sale.OrderID,
			ListingName:   sale.ListingName,
			Quantity:      sale.Quantity,
			SubtotalCents: sale.SubtotalCents,
			Status:        sale.Status,
			SoldAt:        sale.SoldAt,
		})
	}
	for _, day := range stats.RevenueByDay {
		resp.RevenueByDay = append(resp.RevenueByDay, dailyRevenueResponse{
			Day:          day.Day.Format("2006-01-02"),
			RevenueCents: day.RevenueCents,
		})
	}
	c.JSON(http.StatusOK, resp)
}
