package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/domain"
	"github.com/pesanmeja/api/internal/enum"
	"github.com/pesanmeja/api/internal/repository"
	"github.com/pesanmeja/api/internal/service"
)

func newGate(t *testing.T) (*service.PaymentGate, *service.Lifecycle) {
	t.Helper()
	lc := service.NewLifecycle(repository.NewMemoryOrderRepository(), &recordingPublisher{}, zap.NewNop())
	return service.NewPaymentGate(lc, zap.NewNop()), lc
}

func onlineOrder(t *testing.T, lc *service.Lifecycle) *domain.Order {
	t.Helper()
	sub := submission()
	sub.PaymentMethod = enum.PaymentMethodOnline
	order, err := lc.Create(context.Background(), sub)
	require.NoError(t, err)
	return order
}

func TestGate_InitiateConfirm(t *testing.T) {
	gate, lc := newGate(t)
	ctx := context.Background()
	order := onlineOrder(t, lc)

	state, err := gate.Initiate(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.GateStatusProcessing, state)

	paid, err := gate.Confirm(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, enum.GateStatusSucceeded, gate.State(order.ID))
}

func TestGate_ConfirmWithoutInitiate(t *testing.T) {
	gate, lc := newGate(t)
	order := onlineOrder(t, lc)

	_, err := gate.Confirm(context.Background(), order.ID)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidTransition(err))

	got, err := lc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusUnpaid, got.PaymentStatus)
}

func TestGate_FailAndRetry(t *testing.T) {
	gate, lc := newGate(t)
	ctx := context.Background()
	order := onlineOrder(t, lc)

	_, err := gate.Initiate(ctx, order.ID)
	require.NoError(t, err)

	state, err := gate.Fail(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.GateStatusFailed, state)

	got, err := lc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusUnpaid, got.PaymentStatus, "a failed attempt leaves payment untouched")

	// Retry is allowed from failed.
	state, err = gate.Initiate(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.GateStatusProcessing, state)

	paid, err := gate.Confirm(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, paid.PaymentStatus)
}

func TestGate_RepeatCallsAreNoOps(t *testing.T) {
	gate, lc := newGate(t)
	ctx := context.Background()
	order := onlineOrder(t, lc)

	_, err := gate.Initiate(ctx, order.ID)
	require.NoError(t, err)
	state, err := gate.Initiate(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.GateStatusProcessing, state)

	_, err = gate.Confirm(ctx, order.ID)
	require.NoError(t, err)

	// Confirm after success stays succeeded; initiate cannot restart it.
	paid, err := gate.Confirm(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPaid, paid.PaymentStatus)

	state, err = gate.Initiate(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.GateStatusSucceeded, state)
}

func TestGate_FailFromWrongState(t *testing.T) {
	gate, lc := newGate(t)
	ctx := context.Background()
	order := onlineOrder(t, lc)

	_, err := gate.Fail(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidTransition(err))

	_, err = gate.Initiate(ctx, order.ID)
	require.NoError(t, err)
	_, err = gate.Confirm(ctx, order.ID)
	require.NoError(t, err)

	_, err = gate.Fail(ctx, order.ID)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidTransition(err))
}

func TestGate_RejectsCashOrders(t *testing.T) {
	gate, lc := newGate(t)
	order, err := lc.Create(context.Background(), submission())
	require.NoError(t, err)

	_, err = gate.Initiate(context.Background(), order.ID)
	assert.ErrorIs(t, err, service.ErrNotOnlineOrder)
}

func TestGate_UnknownOrder(t *testing.T) {
	gate, _ := newGate(t)
	_, err := gate.Initiate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestGate_NeverTouchesFulfillment(t *testing.T) {
	gate, lc := newGate(t)
	ctx := context.Background()
	order := onlineOrder(t, lc)

	_, err := gate.Initiate(ctx, order.ID)
	require.NoError(t, err)
	_, err = gate.Confirm(ctx, order.ID)
	require.NoError(t, err)

	got, err := lc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPending, got.Status)
}

func TestGate_StateDefaultsToIdle(t *testing.T) {
	gate, lc := newGate(t)
	order := onlineOrder(t, lc)
	assert.Equal(t, "idle", gate.State(order.ID))
}
