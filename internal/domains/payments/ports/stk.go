package ports

import (
	"context"
	"time"
)

// StkPush is one charge request to push to a subscriber's handset.
type StkPush struct {
	Phone string
	// AmountShillings is the charge in whole Kenyan shillings; Daraja
	// does not accept fractional amounts.
	AmountShillings  int64
	AccountReference string
	Description      string
}

// StkReceipt is the synchronous acknowledgement from Daraja. The
// payment outcome arrives later on the callback URL.
type StkReceipt struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
}

// StkClient talks to the M-Pesa Daraja API.
type StkClient interface {
	Push(ctx context.Context, push StkPush) (*StkReceipt, error)
}

// TokenCache stores the short-lived Daraja OAuth token between pushes.
type TokenCache interface {
	Get(ctx context.Context) (token string, ok bool, err error)
	Set(ctx context.Context, token string, ttl time.Duration) error
}
