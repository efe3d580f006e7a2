package payments

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	paymentports "github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
	paymentactivities "github.com/farmart-ke/farmart-api/internal/durable/temporal/activities/payments"
)

const (
	// StkPushWorkflowName is the public identifier for registering the workflow.
	StkPushWorkflowName = "payments.workflows.StkPush"
	// StkPushTaskQueue is the queue consumed by the worker processing payment workflows.
	StkPushTaskQueue = "STK_PUSH"
)

// StkPushWorkflowInput captures the payload for one push attempt.
type StkPushWorkflowInput struct {
	Push    paymentports.StkPush
	TraceID string
}

// StkPushWorkflow sends the STK prompt through the Daraja activity.
// The activity never retries: a replayed push would prompt the
// subscriber a second time for the same order.
func StkPushWorkflow(ctx workflow.Context, input StkPushWorkflowInput) (*paymentports.StkReceipt, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("StkPushWorkflow started", withTraceID(input.TraceID, "accountRef", input.Push.AccountReference)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var receipt paymentports.StkReceipt
	err := workflow.ExecuteActivity(ctx, paymentactivities.PushStkActivityName, input.Push).Get(ctx, &receipt)
	if err != nil {
		logger.Error("StkPushWorkflow failed", withTraceID(input.TraceID, "accountRef", input.Push.AccountReference, "error", err)...)
		return nil, err
	}
	logger.Info("StkPushWorkflow completed", withTraceID(input.TraceID, "checkoutRequestId", receipt.CheckoutRequestID)...)
	return &receipt, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
