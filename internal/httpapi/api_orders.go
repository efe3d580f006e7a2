package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ordersdomain "github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	ordersports "github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
)

// OrderAPI serves order placement and settlement endpoints.
type OrderAPI struct {
	service ordersports.Service
}

func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

type placeOrderRequest struct {
	Lines []cartLineRequest `json:"lines" binding:"required"`
}

type cartLineRequest struct {
	ListingID int64 `json:"listingId" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type orderLineResponse struct {
	ID             int64  `json:"id"`
	ListingID      int64  `json:"listingId"`
	FarmerID       int64  `json:"farmerId"`
	ListingName    string `json:"listingName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int64  `json:"quantity"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

type orderResponse struct {
	ID         int64               `json:"id"`
	BuyerID    int64               `json:"buyerId"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	TotalCents int64               `json:"totalCents"`
	Lines      []orderLineResponse `json:"lines"`
}

func toOrderResponse(order *ordersdomain.Order) orderResponse {
	resp := orderResponse{
		ID:         order.ID,
		BuyerID:    order.BuyerID,
		Status:     string(order.Status),
		CreatedAt:  order.CreatedAt,
		TotalCents: order.TotalCents(),
		Lines:      make([]orderLineResponse, 0, len(order.Lines)),
	}
	for _, line := range order.Lines {
		resp.Lines = append(resp.Lines, orderLineResponse{
			ID:             line.ID,
			ListingID:      line.ListingID,
			FarmerID:       line.FarmerID,
			ListingName:    line.ListingName,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			SubtotalCents:  line.SubtotalCents(),
		})
	}
	return resp
}

func toOrderResponses(orders []*ordersdomain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	return out
}

// Post /v1/orders
func (api *OrderAPI) Place(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var payload placeOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	cart := make([]ordersports.CartLine, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		cart = append(cart, ordersports.CartLine{ListingID: line.ListingID, Quantity: line.Quantity})
	}
	order, err := api.service.PlaceOrder(c.Request.Context(), actor, cart)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get /v1/orders
func (api *OrderAPI) List(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	orders, err := api.service.List(c.Request.Context(), actor)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Get /v1/orders/:orderId
func (api *OrderAPI) Get(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Post /v1/orders/:orderId/status
func (api *OrderAPI) UpdateStatus(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	var payload updateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), actor, id, ordersdomain.Status(payload.Status))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}
