package payments

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	paymentports "github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
)

// PushStkActivityName sends one STK prompt through Daraja.
const PushStkActivityName = "payments.activities.PushStk"

// Activities groups activities that operate on the payments bounded context.
type Activities struct {
	client paymentports.StkClient
}

// NewActivities wires the Daraja client into the Temporal activities bundle.
func NewActivities(client paymentports.StkClient) *Activities {
	return &Activities{client: client}
}

// PushStk sends the prompt to the subscriber's handset and returns the
// gateway acknowledgement.
func (a *Activities) PushStk(ctx context.Context, push paymentports.StkPush) (*paymentports.StkReceipt, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.client == nil {
		logger.Error("stk push activity not initialized", "accountRef", push.AccountReference)
		return nil, errors.New("stk push activity not initialized")
	}
	logger.Info("PushStk activity started", "accountRef", push.AccountReference, "amount", push.AmountShillings)
	receipt, err := a.client.Push(ctx, push)
	if err != nil {
		logger.Error("PushStk activity failed", "accountRef", push.AccountReference, "error", err)
		return nil, err
	}
	logger.Info("PushStk activity completed",
		"accountRef", push.AccountReference,
		"checkoutRequestId", receipt.CheckoutRequestID)
	return receipt, nil
}
