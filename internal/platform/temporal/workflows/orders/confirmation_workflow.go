package orders

import (
	"go.temporal.io/sdk/workflow"

	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/temporal/sequences"
)

const (
	// ConfirmationWorkflowName is the public identifier for registering the workflow.
	ConfirmationWorkflowName = "orders.workflows.Confirmation"
	// ConfirmationTaskQueue is the queue consumed by the worker processing order confirmations.
	ConfirmationTaskQueue = "ORDER_CONFIRMATION"
)

// ConfirmationWorkflowInput carries the confirmation plus the trace of the request that committed it.
type ConfirmationWorkflowInput struct {
	Confirmation checkoutports.Confirmation
	TraceID      string
}

// ConfirmationWorkflow delivers the confirmation of one committed order.
func ConfirmationWorkflow(ctx workflow.Context, input ConfirmationWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	number := input.Confirmation.OrderNumber
	logger.Info("ConfirmationWorkflow started", withTraceID(input.TraceID, "orderNumber", number)...)
	if err := sequences.RunOrderConfirmationSequence(ctx, input.Confirmation); err != nil {
		logger.Error("ConfirmationWorkflow failed", withTraceID(input.TraceID, "orderNumber", number, "error", err)...)
		return err
	}
	logger.Info("ConfirmationWorkflow completed", withTraceID(input.TraceID, "orderNumber", number)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
