package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"

	"github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
	paymentworkflows "github.com/farmart-ke/farmart-api/internal/durable/temporal/workflows/payments"
)

var (
	_ ports.PushOrchestrator = (*TemporalPushOrchestrator)(nil)
	_ ports.PushOrchestrator = (*InlinePushOrchestrator)(nil)
)

// TemporalPushOrchestrator starts STK push workflows on a Temporal cluster.
type TemporalPushOrchestrator struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPushOrchestrator wires a Temporal client into the orchestrator.
func NewTemporalPushOrchestrator(c client.Client) *TemporalPushOrchestrator {
	return &TemporalPushOrchestrator{client: c, taskQueue: paymentworkflows.StkPushTaskQueue}
}

// Push starts the durable STK push workflow and waits for the gateway
// acknowledgement.
func (o *TemporalPushOrchestrator) Push(ctx context.Context, push ports.StkPush) (*ports.StkReceipt, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal push orchestrator not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("stk-push-%s-%s", push.AccountReference, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		paymentworkflows.StkPushWorkflow,
		paymentworkflows.StkPushWorkflowInput{Push: push, TraceID: traceComponent},
	)
	if err != nil {
		return nil, err
	}
	var receipt ports.StkReceipt
	if err := run.Get(ctx, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// InlinePushOrchestrator calls the Daraja client directly without
// Temporal, useful for tests or dev fallbacks.
type InlinePushOrchestrator struct {
	client ports.StkClient
}

// NewInlinePushOrchestrator wraps the Daraja client for synchronous execution.
func NewInlinePushOrchestrator(client ports.StkClient) *InlinePushOrchestrator {
	return &InlinePushOrchestrator{client: client}
}

// Push delegates to the Daraja client without durable orchestration.
func (o *InlinePushOrchestrator) Push(ctx context.Context, push ports.StkPush) (*ports.StkReceipt, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("inline push orchestrator not configured")
	}
	return o.client.Push(ctx, push)
}

func workflowTraceComponent(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span != nil {
		spanCtx := span.SpanContext()
		if spanCtx.IsValid() && spanCtx.TraceID().IsValid() {
			return spanCtx.TraceID().String()
		}
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
