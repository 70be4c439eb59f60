package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/platform/temporal/activities/orders"
)

// RunOrderConfirmationSequence sends the confirmation with bounded retries.
func RunOrderConfirmationSequence(ctx workflow.Context, input checkoutports.Confirmation) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("order confirmation sequence started", "orderNumber", input.OrderNumber)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	if err := workflow.ExecuteActivity(ctx, orderactivities.SendOrderConfirmationActivityName, input).Get(ctx, nil); err != nil {
		logger.Error("order confirmation sequence failed", "orderNumber", input.OrderNumber, "error", err)
		return err
	}
	logger.Info("order confirmation sequence completed", "orderNumber", input.OrderNumber)
	return nil
}
