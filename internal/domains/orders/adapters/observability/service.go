package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/farmart-ke/farmart-api/internal/domains/orders/domain"
	ordersports "github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

const tracerName = "github.com/farmart-ke/farmart-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, actor access.Actor, cart []ordersports.CartLine) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder",
		trace.WithAttributes(attribute.Int64("buyer.id", actor.ID), attribute.Int("cart.lines", len(cart))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("buyer.id", actor.ID), slog.Int("cart.lines", len(cart)))
	result, err := s.inner.PlaceOrder(ctx, actor, cart)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("buyer.id", actor.ID))
	}
	s.metrics.recordPlaced(ctx, result)
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", result.ID),
		slog.Int64("order.total_cents", result.TotalCents()))
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actor access.Actor, orderID int64, next ordersdomain.Status) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.String("order.status", string(next))))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.Int64("order.id", orderID), slog.String("status", string(next)))
	result, err := s.inner.UpdateStatus(ctx, actor, orderID, next)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order.id", orderID))
	}
	s.metrics.recordStatusChange(ctx, result.Status)
	s.logInfo(ctx, "order status updated", slog.Int64("order.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, actor access.Actor, orderID int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, actor, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) List(ctx context.Context, actor access.Actor) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List", trace.WithAttributes(attribute.Int64("actor.id", actor.ID)))
	defer span.End()

	result, err := s.inner.List(ctx, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.Int64("actor.id", actor.ID))
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	revenueCents  metric.Int64Counter
	statusChanges metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	revenueCents, _ := m.Int64Counter("orders.service.revenue_cents", metric.WithDescription("Gross order value in cents"))
	statusChanges, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of order status transitions"))
	return serviceMetrics{ordersPlaced: ordersPlaced, revenueCents: revenueCents, statusChanges: statusChanges}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *ordersdomain.Order) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.revenueCents != nil {
		m.revenueCents.Add(ctx, order.TotalCents())
	}
}

func (m serviceMetrics) recordStatusChange(ctx context.Context, status ordersdomain.Status) {
	if m.statusChanges != nil {
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

var _ ordersports.Service = (*Service)(nil)
