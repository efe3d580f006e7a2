package ports

import "context"

// PushOrchestrator runs the STK push, either inline or as a durable
// workflow.
type PushOrchestrator interface {
	Push(ctx context.Context, push StkPush) (*StkReceipt, error)
}
