package workflows_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"github.com/base-14/examples/go/go-temporal-oms/internal/activities"
	"github.com/base-14/examples/go/go-temporal-oms/internal/models"
	"github.com/base-14/examples/go/go-temporal-oms/internal/workflows"
)

type shipmentRecorder struct {
	mu       sync.Mutex
	statuses []models.ShipmentStatus
}

func (r *shipmentRecorder) persisted() []models.ShipmentStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ShipmentStatus(nil), r.statuses...)
}

func newShipmentEnv(signalErr error) (*testsuite.TestWorkflowEnvironment, *shipmentRecorder) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	rec := &shipmentRecorder{}

	env.OnActivity(a.BookShipment, mock.Anything, mock.Anything).Return(
		&activities.BookShipmentResult{CourierReference: "O1:1:courier"}, nil)
	env.OnActivity(a.PersistShipmentStatus, mock.Anything, mock.Anything).Return(
		func(_ context.Context, in activities.PersistShipmentInput) error {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.statuses = append(rec.statuses, in.Status)
			return nil
		})
	env.OnSignalExternalWorkflow(mock.Anything, workflows.OrderWorkflowID("O1"), "",
		workflows.ShipmentStatusUpdatedSignal, mock.Anything).Return(signalErr)

	return env, rec
}

func shipInput() workflows.ShipInput {
	return workflows.ShipInput{
		RequestorID: workflows.OrderWorkflowID("O1"),
		ShipmentID:  "O1:1",
		Items:       []activities.OrderItem{{SKU: "Nike-1", Quantity: 2}},
	}
}

func carrierUpdate(env *testsuite.TestWorkflowEnvironment, status models.ShipmentStatus, delay time.Duration) {
	env.RegisterDelayedCallback(func() {
		env.SignalWorkflow(workflows.ShipmentCarrierUpdateSignal, workflows.CarrierUpdate{Status: status})
	}, delay)
}

func requireShipOutput(t *testing.T, env *testsuite.TestWorkflowEnvironment) workflows.ShipOutput {
	t.Helper()
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out workflows.ShipOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	return out
}

func TestShip_FollowsCarrierUntilDelivered(t *testing.T) {
	env, rec := newShipmentEnv(nil)

	carrierUpdate(env, models.ShipmentStatusDispatched, time.Minute)
	carrierUpdate(env, "lost-in-space", 2*time.Minute)
	carrierUpdate(env, models.ShipmentStatusBooked, 3*time.Minute)
	carrierUpdate(env, models.ShipmentStatusDelivered, 5*time.Minute)

	var view workflows.ShipmentView
	var queryErr error
	env.RegisterDelayedCallback(func() {
		val, err := env.QueryWorkflow(workflows.ShipmentStatusQuery)
		if err == nil {
			err = val.Get(&view)
		}
		queryErr = err
	}, 4*time.Minute)

	env.ExecuteWorkflow(workflows.Ship, shipInput())

	out := requireShipOutput(t, env)
	assert.Equal(t, "O1:1", out.ID)
	assert.Equal(t, models.ShipmentStatusDelivered, out.Status)
	assert.Equal(t, "O1:1:courier", out.CourierReference)

	require.NoError(t, queryErr)
	assert.Equal(t, models.ShipmentStatusDispatched, view.Status)
	assert.Equal(t, shipInput().Items, view.Items)

	assert.Equal(t, []models.ShipmentStatus{
		models.ShipmentStatusBooked,
		models.ShipmentStatusDispatched,
		models.ShipmentStatusDelivered,
	}, rec.persisted())
}

func TestShip_CancelledFromBooked(t *testing.T) {
	env, rec := newShipmentEnv(nil)
	carrierUpdate(env, models.ShipmentStatusCancelled, time.Minute)

	env.ExecuteWorkflow(workflows.Ship, shipInput())

	out := requireShipOutput(t, env)
	assert.Equal(t, models.ShipmentStatusCancelled, out.Status)
	assert.Equal(t, []models.ShipmentStatus{
		models.ShipmentStatusBooked,
		models.ShipmentStatusCancelled,
	}, rec.persisted())
}

func TestShip_RequestorSignalFailureIsIgnored(t *testing.T) {
	env, rec := newShipmentEnv(errors.New("requestor not found"))
	carrierUpdate(env, models.ShipmentStatusDelivered, time.Minute)

	env.ExecuteWorkflow(workflows.Ship, shipInput())

	out := requireShipOutput(t, env)
	assert.Equal(t, models.ShipmentStatusDelivered, out.Status)
	assert.Len(t, rec.persisted(), 2)
}

func TestShip_WithoutRequestorSendsNoSignals(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()
	env.OnActivity(a.BookShipment, mock.Anything, mock.Anything).Return(
		&activities.BookShipmentResult{CourierReference: "X:1:courier"}, nil)
	env.OnActivity(a.PersistShipmentStatus, mock.Anything, mock.Anything).Return(nil)
	carrierUpdate(env, models.ShipmentStatusDelivered, time.Minute)

	input := shipInput()
	input.RequestorID = ""
	env.ExecuteWorkflow(workflows.Ship, input)

	out := requireShipOutput(t, env)
	assert.Equal(t, models.ShipmentStatusDelivered, out.Status)
}

func TestShip_RejectsEmptyItems(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	input := shipInput()
	input.Items = nil
	env.ExecuteWorkflow(workflows.Ship, input)

	requireWorkflowErrorType(t, env, activities.ErrTypeInvalidShipment)
}
