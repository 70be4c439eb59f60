package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	temporalworker "go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/platform/temporal/workflows/orders"
)

const serviceName = "storefront-worker"

// Run starts the Temporal worker that delivers order confirmations until interrupted.
func Run(ctx context.Context) error {
	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.TemporalDisabled = false
	instruments, shutdown, err := platformobservability.Init(ctx, api.ObservabilityOptions(cfg, serviceName))
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

	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	activities := orderactivities.NewActivities(api.BuildNotifier(ctx, cfg, logger))

	w := temporalworker.New(temporalClient, orderworkflows.ConfirmationTaskQueue, temporalworker.Options{})
	Register(w, activities)

	logger.Info("worker listening",
		slog.String("taskQueue", orderworkflows.ConfirmationTaskQueue),
		slog.String("namespace", cfg.TemporalNamespace))
	interrupt := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(interrupt)
	}()
	if err := w.Run(interrupt); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}

// Register binds the confirmation workflow and its activity under their stable names.
func Register(r temporalworker.Registry, activities *orderactivities.Activities) {
	r.RegisterWorkflowWithOptions(orderworkflows.ConfirmationWorkflow,
		workflow.RegisterOptions{Name: orderworkflows.ConfirmationWorkflowName})
	r.RegisterActivityWithOptions(activities.SendOrderConfirmation,
		activity.RegisterOptions{Name: orderactivities.SendOrderConfirmationActivityName})
}
