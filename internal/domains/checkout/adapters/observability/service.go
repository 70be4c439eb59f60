package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	checkouttypes "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core checkout service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Start(ctx context.Context, bag *bagdomain.Bag) (*checkouttypes.Session, error) {
	entries := len(bag.Entries())
	ctx, span := s.startSpan(ctx, "CheckoutService.Start", attribute.Int("bag.entries", entries))
	defer span.End()

	session, err := s.inner.Start(ctx, bag)
	if err != nil {
		if errors.Is(err, checkoutapp.ErrEmptyBag) {
			s.logInfo(ctx, "checkout started with empty bag")
			return nil, err
		}
		s.metrics.recordStartFailure(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to start checkout", slog.Int("bag.entries", entries))
	}
	span.SetAttributes(
		attribute.String("checkout.grand_total", session.Summary.GrandTotal.StringFixed(2)),
		attribute.Bool("checkout.degraded", len(session.Warnings) > 0),
	)
	for _, warning := range session.Warnings {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "checkout degraded", slog.String("warning", warning))
	}
	s.logInfo(ctx, "checkout started",
		slog.Int("bag.entries", entries),
		slog.String("grand_total", session.Summary.GrandTotal.StringFixed(2)),
		slog.String("currency", session.Currency))
	return session, nil
}

func (s *Service) Submit(ctx context.Context, input checkouttypes.SubmitInput) (*checkouttypes.SubmitResult, error) {
	ctx, span := s.startSpan(ctx, "CheckoutService.Submit",
		attribute.Int("bag.entries", len(input.Bag.Entries())),
		attribute.Bool("checkout.save_info", input.SaveInfo))
	defer span.End()

	result, err := s.inner.Submit(ctx, input)
	if err != nil {
		s.metrics.recordOutcome(ctx, domain.StateRolledBack)
		var validationErr *checkoutapp.ValidationError
		if errors.As(err, &validationErr) {
			s.logInfo(ctx, "order form rejected", slog.Int("fields", len(validationErr.Fields)))
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "order rolled back")
	}
	s.metrics.recordOutcome(ctx, result.State)
	span.SetAttributes(
		attribute.String("order.number", result.OrderNumber),
		attribute.Int("order.line_items", len(result.Order.LineItems)),
	)
	if result.ConfirmationErr != nil {
		span.RecordError(result.ConfirmationErr)
		s.logError(ctx, "failed to dispatch order confirmation", result.ConfirmationErr, slog.String("order.number", result.OrderNumber))
	}
	s.logInfo(ctx, "order committed",
		slog.String("order.number", result.OrderNumber),
		slog.Int("order.line_items", len(result.Order.LineItems)),
		slog.String("order.grand_total", result.Order.GrandTotal.StringFixed(2)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "CheckoutService.GetOrder", attribute.String("order.number", orderNumber))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.number", orderNumber))
	}
	return order, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if len(attrs) == 0 {
		return s.tracer.Start(ctx, name)
	}
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	reconciliations metric.Int64Counter
	startFailures   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	reconciliations, _ := m.Int64Counter("checkout.service.reconciliations", metric.WithDescription("Order reconciliations by terminal state"))
	startFailures, _ := m.Int64Counter("checkout.service.start_failures", metric.WithDescription("Checkout starts that could not proceed"))
	return serviceMetrics{reconciliations: reconciliations, startFailures: startFailures}
}

func (m serviceMetrics) recordOutcome(ctx context.Context, state domain.State) {
	addCounter(ctx, m.reconciliations, 1, attribute.String("checkout.state", state.String()))
}

func (m serviceMetrics) recordStartFailure(ctx context.Context, err error) {
	reason := "other"
	switch {
	case errors.Is(err, ports.ErrPaymentServiceUnavailable):
		reason = "payment_unavailable"
	case errors.Is(err, checkoutapp.ErrInvalidInput):
		reason = "invalid_input"
	}
	addCounter(ctx, m.startFailures, 1, attribute.String("checkout.reason", reason))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	if len(attrs) == 0 {
		counter.Add(ctx, value)
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
