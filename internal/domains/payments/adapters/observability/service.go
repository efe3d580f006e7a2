package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	paymentsdomain "github.com/farmart-ke/farmart-api/internal/domains/payments/domain"
	paymentsports "github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

const tracerName = "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/observability/service"

// Service decorates the payment service with tracing, logging, and metrics.
type Service struct {
	inner   paymentsports.Service
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

// New wraps the core payment service.
func New(inner paymentsports.Service, opts ...Option) paymentsports.Service {
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

func (s *Service) Initiate(ctx context.Context, actor access.Actor, input paymentsports.InitiateInput) (*paymentsdomain.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.Initiate",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID)))
	defer span.End()

	s.logInfo(ctx, "initiating payment", slog.Int64("order.id", input.OrderID))
	result, err := s.inner.Initiate(ctx, actor, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to initiate payment", slog.Int64("order.id", input.OrderID))
	}
	s.metrics.recordInitiated(ctx)
	s.logInfo(ctx, "payment initiated",
		slog.Int64("payment.id", result.ID),
		slog.String("checkout_request_id", result.CheckoutRequestID))
	return result, nil
}

func (s *Service) HandleCallback(ctx context.Context, input paymentsports.CallbackInput) error {
	ctx, span := s.tracer.Start(ctx, "PaymentService.HandleCallback",
		trace.WithAttributes(
			attribute.String("checkout_request_id", input.CheckoutRequestID),
			attribute.Int("result_code", input.ResultCode)))
	defer span.End()

	s.logInfo(ctx, "handling payment callback",
		slog.String("checkout_request_id", input.CheckoutRequestID),
		slog.Int("result_code", input.ResultCode))
	if err := s.inner.HandleCallback(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to handle payment callback",
			slog.String("checkout_request_id", input.CheckoutRequestID))
	}
	s.metrics.recordCallback(ctx, input.ResultCode)
	s.logInfo(ctx, "payment callback handled", slog.String("checkout_request_id", input.CheckoutRequestID))
	return nil
}

func (s *Service) ListForOrder(ctx context.Context, actor access.Actor, orderID int64) ([]*paymentsdomain.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.ListForOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.ListForOrder(ctx, actor, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list payments", slog.Int64("order.id", orderID))
	}
	span.SetAttributes(attribute.Int("payments.count", len(result)))
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
	pushesInitiated metric.Int64Counter
	callbacks       metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	pushesInitiated, _ := m.Int64Counter("payments.service.pushes_initiated", metric.WithDescription("Number of STK pushes initiated"))
	callbacks, _ := m.Int64Counter("payments.service.callbacks", metric.WithDescription("Number of payment callbacks processed"))
	return serviceMetrics{pushesInitiated: pushesInitiated, callbacks: callbacks}
}

func (m serviceMetrics) recordInitiated(ctx context.Context) {
	if m.pushesInitiated != nil {
		m.pushesInitiated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCallback(ctx context.Context, resultCode int) {
	if m.callbacks != nil {
		outcome := "success"
		if resultCode != 0 {
			outcome = "failure"
		}
		m.callbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("callback.outcome", outcome)))
	}
}

var _ paymentsports.Service = (*Service)(nil)
