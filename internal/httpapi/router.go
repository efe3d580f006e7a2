// Package httpapi exposes the marketplace over gin with RFC 7807 errors.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userports "github.com/farmart-ke/farmart-api/internal/domains/users/ports"
)

// Handlers groups the per-context API surfaces the router mounts.
type Handlers struct {
	Users     UserAPI
	Listings  ListingAPI
	Orders    OrderAPI
	Payments  PaymentAPI
	Dashboard DashboardAPI
}

// NewRouter mounts all routes. users drives the auth middleware; the
// registration, login, and Daraja callback routes stay public. Extra
// middleware (telemetry) applies to every route.
func NewRouter(handlers Handlers, users userports.Service, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")

	v1.POST("/users/register", handlers.Users.Register)
	v1.POST("/users/login", handlers.Users.Login)
	v1.POST("/payments/callback", handlers.Payments.Callback)

	authed := v1.Group("")
	authed.Use(AuthRequired(users))

	authed.POST("/users/logout", handlers.Users.Logout)
	authed.GET("/users/me", handlers.Users.Profile)

	authed.GET("/listings", handlers.Listings.List)
	authed.POST("/listings", handlers.Listings.Create)
	authed.GET("/listings/:listingId", handlers.Listings.Get)
	authed.PUT("/listings/:listingId", handlers.Listings.Update)
	authed.POST("/listings/:listingId/restock", handlers.Listings.Restock)
	authed.DELETE("/listings/:listingId", handlers.Listings.Delete)

	authed.POST("/orders", handlers.Orders.Place)
	authed.GET("/orders", handlers.Orders.List)
	authed.GET("/orders/:orderId", handlers.Orders.Get)
	authed.POST("/orders/:orderId/status", handlers.Orders.UpdateStatus)
	authed.GET("/orders/:orderId/payments", handlers.Payments.ListForOrder)

	authed.POST("/payments", handlers.Payments.Initiate)

	authed.GET("/dashboard/farmer", handlers.Dashboard.Farmer)

	return router
}
