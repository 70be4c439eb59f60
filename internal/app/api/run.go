package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"

	bagapp "github.com/Apurer/go-gin-storefront/internal/domains/bag/application"
	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	checkoutmemory "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/memory"
	checkoutnotifications "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/notifications"
	checkoutobs "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/observability"
	checkoutstripe "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/payments/stripe"
	checkoutpostgres "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/persistence/postgres"
	checkoutworkflows "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
)

const serviceName = "storefront-api"

// Run boots the storefront HTTP API with observability, repositories, payments and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ObservabilityOptions(cfg, serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	delivery, err := cfg.Delivery()
	if err != nil {
		return err
	}
	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()

	catalogService := catalogobs.New(
		catalogapp.NewService(buildCatalogRepository(db)),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	aggregator := bagapp.NewAggregator(catalogService, delivery)

	uow, orders := buildOrderStore(db, catalogService)
	var dispatcher checkoutports.ConfirmationDispatcher
	if temporalClient, err := ConnectTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, sending confirmations inline", slog.String("error", err.Error()))
		dispatcher = checkoutworkflows.NewInlineConfirmations(BuildNotifier(ctx, cfg, logger))
	} else {
		defer temporalClient.Close()
		dispatcher = checkoutworkflows.NewTemporalConfirmations(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	payments := checkoutstripe.New(checkoutstripe.Config{SecretKey: cfg.StripeSecretKey, APIURL: cfg.StripeAPIURL})
	checkoutService := checkoutobs.New(
		checkoutapp.NewService(
			aggregator,
			checkoutapp.NewPaymentInitiator(payments),
			checkoutapp.NewReconciler(uow, delivery),
			orders,
			dispatcher,
			checkoutapp.Config{Currency: cfg.Currency, PublicKey: cfg.StripePublicKey},
		),
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)

	handlers := storefrontserver.ApiHandleFunctions{
		ProductsAPI: storefrontserver.NewProductsAPI(catalogService, logger),
		BagAPI:      storefrontserver.NewBagAPI(aggregator, catalogService, logger),
		CheckoutAPI: storefrontserver.NewCheckoutAPI(checkoutService, logger),
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := storefrontserver.NewRouterWithGinEngine(engine, handlers,
		storefrontserver.NewCookieStore([]byte(cfg.SessionSecret), cfg.SessionSecure))

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	logger.Info("Storefront API listening", slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Storefront API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ObservabilityOptions maps the process configuration onto the telemetry setup.
func ObservabilityOptions(cfg Config, service string) platformobservability.Options {
	return platformobservability.Options{
		ServiceName:  service,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	}
}

func buildCatalogRepository(db *gorm.DB) catalogports.Repository {
	if db == nil {
		return catalogmemory.NewRepository()
	}
	return catalogpostgres.NewRepository(db)
}

func buildOrderStore(db *gorm.DB, catalog catalogports.Lookup) (checkoutports.UnitOfWork, checkoutports.OrderRepository) {
	if db == nil {
		store := checkoutmemory.NewStore(catalog)
		return store, store
	}
	repo := checkoutpostgres.NewRepository(db)
	return repo, repo
}

// BuildNotifier returns the SES notifier when a sender address is configured, otherwise a log notifier.
func BuildNotifier(ctx context.Context, cfg Config, logger *slog.Logger) checkoutports.Notifier {
	if cfg.SenderEmail == "" {
		return checkoutnotifications.NewLogNotifier(logger)
	}
	notifier, err := checkoutnotifications.NewSESNotifier(ctx, checkoutnotifications.SESConfig{
		Region:          cfg.AWSRegion,
		SenderEmail:     cfg.SenderEmail,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		logger.Warn("SES unavailable, logging confirmations instead", slog.String("error", err.Error()))
		return checkoutnotifications.NewLogNotifier(logger)
	}
	return notifier
}

// ConnectTemporal dials Temporal with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
