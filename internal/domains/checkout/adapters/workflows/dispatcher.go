package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.ConfirmationDispatcher = (*TemporalConfirmations)(nil)
	_ ports.ConfirmationDispatcher = (*InlineConfirmations)(nil)
)

type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalConfirmations starts one confirmation workflow per order on a Temporal cluster.
type TemporalConfirmations struct {
	client    workflowStarter
	taskQueue string
}

// NewTemporalConfirmations wires a Temporal client into the dispatcher.
func NewTemporalConfirmations(c client.Client) *TemporalConfirmations {
	if c == nil {
		return &TemporalConfirmations{taskQueue: orderworkflows.ConfirmationTaskQueue}
	}
	return &TemporalConfirmations{client: c, taskQueue: orderworkflows.ConfirmationTaskQueue}
}

// DispatchConfirmation starts the workflow without waiting for it. A second dispatch for the
// same order collapses onto the first workflow.
func (d *TemporalConfirmations) DispatchConfirmation(ctx context.Context, confirmation ports.Confirmation) error {
	if d == nil || d.client == nil {
		return errors.New("temporal confirmations not configured")
	}
	options := client.StartWorkflowOptions{
		ID:                    ConfirmationWorkflowID(confirmation.OrderNumber),
		TaskQueue:             d.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	_, err := d.client.ExecuteWorkflow(ctx, options, orderworkflows.ConfirmationWorkflowName,
		orderworkflows.ConfirmationWorkflowInput{Confirmation: confirmation, TraceID: workflowTraceID(ctx)})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil
		}
		return err
	}
	return nil
}

// ConfirmationWorkflowID is the deterministic workflow id for an order.
func ConfirmationWorkflowID(orderNumber string) string {
	return fmt.Sprintf("order-confirmation-%s", orderNumber)
}

// InlineConfirmations sends confirmations synchronously without Temporal, useful for tests or dev fallbacks.
type InlineConfirmations struct {
	notifier ports.Notifier
}

// NewInlineConfirmations wraps a notifier for synchronous delivery.
func NewInlineConfirmations(notifier ports.Notifier) *InlineConfirmations {
	return &InlineConfirmations{notifier: notifier}
}

// DispatchConfirmation delivers the confirmation immediately.
func (d *InlineConfirmations) DispatchConfirmation(ctx context.Context, confirmation ports.Confirmation) error {
	if d == nil || d.notifier == nil {
		return errors.New("inline confirmations not configured")
	}
	return d.notifier.SendOrderConfirmation(ctx, confirmation)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
