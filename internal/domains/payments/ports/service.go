package ports

import (
	"context"

	"github.com/farmart-ke/farmart-api/internal/domains/payments/domain"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

// InitiateInput starts an STK push for an order.
type InitiateInput struct {
	OrderID int64
	Phone   string
}

// CallbackInput is the normalized Daraja payment result.
type CallbackInput struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	MpesaReceipt      string
}

// Service exposes the payment use cases.
type Service interface {
	// Initiate pushes a payment prompt for the buyer's order and records
	// the attempt.
	Initiate(ctx context.Context, actor access.Actor, input InitiateInput) (*domain.Payment, error)
	// HandleCallback settles the payment named by the callback. It is
	// idempotent: redelivered callbacks leave settled payments alone.
	HandleCallback(ctx context.Context, input CallbackInput) error
	// ListForOrder returns the payment attempts recorded for an order
	// the actor may view.
	ListForOrder(ctx context.Context, actor access.Actor, orderID int64) ([]*domain.Payment, error)
}
