package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogtypes "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
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

// New wraps the core catalog service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) List(ctx context.Context, input catalogtypes.ListProductsInput) (*catalogtypes.Listing, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.List", trace.WithAttributes(
		attribute.String("catalog.sort", input.Sort),
		attribute.String("catalog.direction", input.Direction),
		attribute.StringSlice("catalog.categories", input.Categories),
		attribute.Bool("catalog.search", input.SearchTerm != nil),
	))
	defer span.End()

	result, err := s.inner.List(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products", slog.String("sort", input.Sort))
	}
	span.SetAttributes(attribute.Int("catalog.results", len(result.Products)))
	s.metrics.recordSearch(ctx, input.SearchTerm != nil)
	s.logInfo(ctx, "products listed",
		slog.Int("results", len(result.Products)),
		slog.String("search", result.SearchTerm),
		slog.String("sorting", result.CurrentSorting))
	return result, nil
}

func (s *Service) Get(ctx context.Context, input catalogtypes.ProductIdentifier) (*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Get", trace.WithAttributes(attribute.Int64("product.id", input.ID)))
	defer span.End()

	result, err := s.inner.Get(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", input.ID))
	}
	return result, nil
}

// Product is called once per bag line, so it only traces and logs failures.
func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Product", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	result, err := s.inner.Product(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve product", slog.Int64("product.id", id))
	}
	return result, nil
}

func (s *Service) Add(ctx context.Context, input catalogtypes.ProductMutationInput) (*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Add")
	defer span.End()

	s.logInfo(ctx, "adding product")
	result, err := s.inner.Add(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add product")
	}
	span.SetAttributes(attribute.Int64("product.id", result.Entity.ID))
	s.metrics.recordChange(ctx, "added")
	s.logInfo(ctx, "product added", slog.Int64("product.id", result.Entity.ID), slog.String("product.name", result.Entity.Name))
	return result, nil
}

func (s *Service) Edit(ctx context.Context, input catalogtypes.EditProductInput) (*ports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Edit", trace.WithAttributes(attribute.Int64("product.id", input.ID)))
	defer span.End()

	s.logInfo(ctx, "editing product", slog.Int64("product.id", input.ID))
	result, err := s.inner.Edit(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to edit product", slog.Int64("product.id", input.ID))
	}
	s.metrics.recordChange(ctx, "edited")
	s.logInfo(ctx, "product edited", slog.Int64("product.id", result.Entity.ID))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, input catalogtypes.ProductIdentifier) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Delete", trace.WithAttributes(attribute.Int64("product.id", input.ID)))
	defer span.End()

	s.logInfo(ctx, "deleting product", slog.Int64("product.id", input.ID))
	if err := s.inner.Delete(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", input.ID))
	}
	s.metrics.recordChange(ctx, "deleted")
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", input.ID))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	searches metric.Int64Counter
	changes  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	searches, _ := m.Int64Counter("catalog.service.listings", metric.WithDescription("Number of catalog listings served"))
	changes, _ := m.Int64Counter("catalog.service.changes", metric.WithDescription("Number of catalog mutations"))
	return serviceMetrics{searches: searches, changes: changes}
}

func (m serviceMetrics) recordSearch(ctx context.Context, searched bool) {
	if m.searches != nil {
		m.searches.Add(ctx, 1, metric.WithAttributes(attribute.Bool("catalog.search", searched)))
	}
}

func (m serviceMetrics) recordChange(ctx context.Context, kind string) {
	if m.changes != nil {
		m.changes.Add(ctx, 1, metric.WithAttributes(attribute.String("catalog.change", kind)))
	}
}

var _ ports.Service = (*Service)(nil)
