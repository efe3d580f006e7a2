package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ordersdomain "github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	ordersports "github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
	"github.com/farmart-ke/farmart-api/internal/domains/payments/domain"
	"github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

// maxDescriptionLen caps the transaction description Daraja displays.
const maxDescriptionLen = 90

// Service implements ports.Service over the orders context and the
// Daraja push orchestrator.
type Service struct {
	payments     ports.Repository
	orders       ordersports.Repository
	uow          ordersports.UnitOfWork
	orchestrator ports.PushOrchestrator
	clock        func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService wires the payment use cases.
func NewService(payments ports.Repository, orders ordersports.Repository, uow ordersports.UnitOfWork, orchestrator ports.PushOrchestrator, opts ...Option) *Service {
	s := &Service{
		payments:     payments,
		orders:       orders,
		uow:          uow,
		orchestrator: orchestrator,
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.Service = (*Service)(nil)

// Initiate validates the order is the actor's and still payable, pushes
// the STK prompt, and records the attempt keyed by the checkout request.
func (s *Service) Initiate(ctx context.Context, actor access.Actor, input ports.InitiateInput) (*domain.Payment, error) {
	order, err := s.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, ordersports.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("loading order %d: %w", input.OrderID, err)
	}
	if order.BuyerID != actor.ID && !actor.Staff {
		return nil, ErrNotOrderBuyer
	}
	if order.Status != ordersdomain.StatusPending && order.Status != ordersdomain.StatusConfirmed {
		return nil, fmt.Errorf("%w: status %s", ErrOrderNotPayable, order.Status)
	}

	payment, err := domain.NewPayment(order.ID, input.Phone, order.TotalCents(), s.clock().UTC())
	if err != nil {
		return nil, err
	}

	receipt, err := s.orchestrator.Push(ctx, ports.StkPush{
		Phone:            payment.Phone,
		AmountShillings:  payment.AmountCents / 100,
		AccountReference: fmt.Sprintf("FARMART-%d", order.ID),
		Description:      describeOrder(order),
	})
	if err != nil {
		return nil, fmt.Errorf("pushing payment for order %d: %w", order.ID, err)
	}
	if receipt.ResponseCode != "0" {
		return nil, fmt.Errorf("%w: %s", ErrPushRejected, receipt.ResponseDescription)
	}

	payment.MerchantRequestID = receipt.MerchantRequestID
	payment.CheckoutRequestID = receipt.CheckoutRequestID
	saved, err := s.payments.Save(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("saving payment for order %d: %w", order.ID, err)
	}
	return saved, nil
}

// HandleCallback settles the payment the callback names. Success moves
// a confirmed order to PAID in the same transaction scope used by order
// settlement; redelivered callbacks are no-ops.
func (s *Service) HandleCallback(ctx context.Context, input ports.CallbackInput) error {
	payment, err := s.payments.GetByCheckoutRequestID(ctx, input.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("loading payment %s: %w", input.CheckoutRequestID, err)
	}
	if payment.Settled() {
		return nil
	}

	now := s.clock().UTC()
	if input.ResultCode != 0 {
		payment.Fail(input.ResultCode, input.ResultDesc, now)
		if _, err := s.payments.Save(ctx, payment); err != nil {
			return fmt.Errorf("saving failed payment %s: %w", input.CheckoutRequestID, err)
		}
		return nil
	}

	payment.Complete(input.MpesaReceipt, input.ResultDesc, now)
	if _, err := s.payments.Save(ctx, payment); err != nil {
		return fmt.Errorf("saving completed payment %s: %w", input.CheckoutRequestID, err)
	}
	return s.uow.Do(ctx, func(tx ordersports.Tx) error {
		order, err := tx.LockOrder(ctx, payment.OrderID)
		if err != nil {
			return fmt.Errorf("locking order %d: %w", payment.OrderID, err)
		}
		// An order the farmer has not confirmed yet, or has already
		// rejected, keeps its status; the receipt is still recorded.
		if !order.Status.CanTransitionTo(ordersdomain.StatusPaid) {
			return nil
		}
		return tx.SetOrderStatus(ctx, order.ID, ordersdomain.StatusPaid)
	})
}

// ListForOrder returns the payment attempts for an order the actor may view.
func (s *Service) ListForOrder(ctx context.Context, actor access.Actor, orderID int64) ([]*domain.Payment, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ordersports.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("loading order %d: %w", orderID, err)
	}
	if !access.CanView(actor, access.Order{BuyerID: order.BuyerID, FarmerIDs: order.FarmerIDs()}) {
		return nil, ErrForbidden
	}
	return s.payments.ListForOrder(ctx, orderID)
}

// describeOrder renders the listing names for the handset prompt,
// truncated to what Daraja accepts.
func describeOrder(order *ordersdomain.Order) string {
	names := make([]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		names = append(names, line.ListingName)
	}
	description := strings.Join(names, ", ")
	if runes := []rune(description); len(runes) > maxDescriptionLen {
		description = string(runes[:maxDescriptionLen]) + "..."
	}
	return description
}
