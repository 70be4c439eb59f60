package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/platform/temporal/workflows/orders"
)

type fakeStarter struct {
	options  []client.StartWorkflowOptions
	workflow []interface{}
	err      error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, workflow interface{}, _ ...interface{}) (client.WorkflowRun, error) {
	f.options = append(f.options, options)
	f.workflow = append(f.workflow, workflow)
	return nil, f.err
}

type recordingNotifier struct {
	sent []ports.Confirmation
	err  error
}

func (n *recordingNotifier) SendOrderConfirmation(_ context.Context, c ports.Confirmation) error {
	n.sent = append(n.sent, c)
	return n.err
}

func TestTemporalConfirmations_StartsDeterministicWorkflow(t *testing.T) {
	starter := &fakeStarter{}
	d := &TemporalConfirmations{client: starter, taskQueue: orderworkflows.ConfirmationTaskQueue}

	require.NoError(t, d.DispatchConfirmation(context.Background(), ports.Confirmation{OrderNumber: "ABC"}))
	require.Len(t, starter.options, 1)
	require.Equal(t, "order-confirmation-ABC", starter.options[0].ID)
	require.Equal(t, orderworkflows.ConfirmationTaskQueue, starter.options[0].TaskQueue)
	require.Equal(t, enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE, starter.options[0].WorkflowIDReusePolicy)
	require.Equal(t, orderworkflows.ConfirmationWorkflowName, starter.workflow[0])
}

func TestTemporalConfirmations_DuplicateCollapses(t *testing.T) {
	starter := &fakeStarter{err: serviceerror.NewWorkflowExecutionAlreadyStarted("started", "req", "run")}
	d := &TemporalConfirmations{client: starter, taskQueue: orderworkflows.ConfirmationTaskQueue}

	require.NoError(t, d.DispatchConfirmation(context.Background(), ports.Confirmation{OrderNumber: "ABC"}))
}

func TestTemporalConfirmations_Errors(t *testing.T) {
	boom := errors.New("frontend unavailable")
	d := &TemporalConfirmations{client: &fakeStarter{err: boom}}
	require.ErrorIs(t, d.DispatchConfirmation(context.Background(), ports.Confirmation{OrderNumber: "ABC"}), boom)

	require.Error(t, NewTemporalConfirmations(nil).DispatchConfirmation(context.Background(), ports.Confirmation{}))
}

func TestInlineConfirmations_SendsImmediately(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewInlineConfirmations(notifier)

	require.NoError(t, d.DispatchConfirmation(context.Background(), ports.Confirmation{OrderNumber: "ABC"}))
	require.Len(t, notifier.sent, 1)
	require.Error(t, NewInlineConfirmations(nil).DispatchConfirmation(context.Background(), ports.Confirmation{}))
}
