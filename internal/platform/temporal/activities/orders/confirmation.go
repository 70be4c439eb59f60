package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// SendOrderConfirmationActivityName delivers the confirmation of a committed order.
const SendOrderConfirmationActivityName = "orders.activities.SendOrderConfirmation"

// Activities groups activities that operate on committed orders.
type Activities struct {
	notifier checkoutports.Notifier
}

// NewActivities wires the notifier into the Temporal activities bundle.
func NewActivities(notifier checkoutports.Notifier) *Activities {
	return &Activities{notifier: notifier}
}

// SendOrderConfirmation notifies the customer about their order.
func (a *Activities) SendOrderConfirmation(ctx context.Context, input checkoutports.Confirmation) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		logger.Error("order confirmation activity not initialized", "orderNumber", input.OrderNumber)
		return errors.New("order confirmation activity not initialized")
	}
	logger.Info("SendOrderConfirmation activity started", "orderNumber", input.OrderNumber)
	if err := a.notifier.SendOrderConfirmation(ctx, input); err != nil {
		logger.Error("SendOrderConfirmation activity failed", "orderNumber", input.OrderNumber, "error", err)
		return err
	}
	logger.Info("SendOrderConfirmation activity completed", "orderNumber", input.OrderNumber)
	return nil
}
