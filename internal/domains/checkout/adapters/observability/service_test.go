package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	bagdomain "github.com/Apurer/go-gin-storefront/internal/domains/bag/domain"
	bagports "github.com/Apurer/go-gin-storefront/internal/domains/bag/ports"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	checkouttypes "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

type stubService struct {
	startErr  error
	submitErr error
}

func (s stubService) Start(context.Context, *bagdomain.Bag) (*checkouttypes.Session, error) {
	if s.startErr != nil {
		return nil, s.startErr
	}
	return &checkouttypes.Session{Summary: &bagports.Summary{GrandTotal: decimal.NewFromInt(35)}, Currency: "usd"}, nil
}

func (s stubService) Submit(context.Context, checkouttypes.SubmitInput) (*checkouttypes.SubmitResult, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &checkouttypes.SubmitResult{ReconcileResult: checkouttypes.ReconcileResult{
		State:       domain.StateCommitted,
		OrderNumber: "ORDER1",
		Order:       &domain.Order{OrderNumber: "ORDER1"},
	}}, nil
}

func (s stubService) GetOrder(context.Context, string) (*domain.Order, error) {
	return nil, ports.ErrOrderNotFound
}

type harness struct {
	svc    ports.Service
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func newHarness(inner ports.Service) harness {
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	svc := New(inner,
		WithTracer(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("test")),
		WithMeter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")),
	)
	return harness{svc: svc, spans: spans, reader: reader}
}

func (h harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestSubmit_CountsCommittedOrders(t *testing.T) {
	h := newHarness(stubService{})
	result, err := h.svc.Submit(context.Background(), checkouttypes.SubmitInput{Bag: bagdomain.New()})
	require.NoError(t, err)
	require.Equal(t, "ORDER1", result.OrderNumber)
	require.EqualValues(t, 1, h.counter(t, "checkout.service.reconciliations"))

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "CheckoutService.Submit", ended[0].Name())
	require.NotEqual(t, codes.Error, ended[0].Status().Code)
}

func TestSubmit_RollbackMarksSpanAsError(t *testing.T) {
	h := newHarness(stubService{submitErr: checkoutapp.ErrOrderRolledBack})
	_, err := h.svc.Submit(context.Background(), checkouttypes.SubmitInput{Bag: bagdomain.New()})
	require.ErrorIs(t, err, checkoutapp.ErrOrderRolledBack)
	require.Equal(t, codes.Error, h.spans.Ended()[0].Status().Code)
}

func TestSubmit_ValidationFailureIsNotASpanError(t *testing.T) {
	h := newHarness(stubService{submitErr: &checkoutapp.ValidationError{Fields: map[string]string{"email": "bad"}}})
	_, err := h.svc.Submit(context.Background(), checkouttypes.SubmitInput{Bag: bagdomain.New()})
	require.ErrorIs(t, err, checkoutapp.ErrInvalidInput)
	require.NotEqual(t, codes.Error, h.spans.Ended()[0].Status().Code)
	require.EqualValues(t, 1, h.counter(t, "checkout.service.reconciliations"))
}

func TestStart_EmptyBagIsNotAFailure(t *testing.T) {
	h := newHarness(stubService{startErr: checkoutapp.ErrEmptyBag})
	_, err := h.svc.Start(context.Background(), bagdomain.New())
	require.ErrorIs(t, err, checkoutapp.ErrEmptyBag)
	require.Zero(t, h.counter(t, "checkout.service.start_failures"))
}

func TestStart_PaymentOutageIsCounted(t *testing.T) {
	outage := errors.Join(ports.ErrPaymentServiceUnavailable, errors.New("dial tcp: refused"))
	h := newHarness(stubService{startErr: outage})
	_, err := h.svc.Start(context.Background(), bagdomain.New())
	require.ErrorIs(t, err, ports.ErrPaymentServiceUnavailable)
	require.EqualValues(t, 1, h.counter(t, "checkout.service.start_failures"))
}
