package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/domain"
	"github.com/pesanmeja/api/internal/enum"
)

// ErrNotOnlineOrder is returned when the gate is asked to process an order
// that is not tagged for online settlement. Cash orders are marked paid out
// of band by staff, never through the gate.
var ErrNotOnlineOrder = errors.New("payment gate only handles online orders")

// gateStateIdle is the implicit state of an order the gate has never seen.
const gateStateIdle = "idle"

// Orders is the slice of the lifecycle manager the gate needs.
type Orders interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

// PaymentGate runs the single-shot payment confirmation sub-flow for online
// orders. It owns only the per-order gate state; payment status itself lives
// with the lifecycle manager, and fulfillment status is never touched here.
type PaymentGate struct {
	mu     sync.Mutex
	states map[uuid.UUID]string
	orders Orders
	log    *zap.Logger
}

func NewPaymentGate(orders Orders, log *zap.Logger) *PaymentGate {
	return &PaymentGate{
		states: make(map[uuid.UUID]string),
		orders: orders,
		log:    log,
	}
}

// Initiate moves the order's gate state to processing. Re-initiating is
// allowed from failed (retry) and is a no-op from processing or succeeded.
func (g *PaymentGate) Initiate(ctx context.Context, id uuid.UUID) (string, error) {
	order, err := g.orders.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if order.PaymentMethod != enum.PaymentMethodOnline {
		return "", ErrNotOnlineOrder
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.states[id] {
	case enum.GateStatusProcessing, enum.GateStatusSucceeded:
		return g.states[id], nil
	}
	g.states[id] = enum.GateStatusProcessing

	g.log.Info("payment initiated", zap.String("order_id", id.String()))
	return enum.GateStatusProcessing, nil
}

// Confirm simulates a successful settlement: only legal from processing, it
// marks the order paid and moves the gate to succeeded. Confirming an
// already-succeeded gate is a no-op.
func (g *PaymentGate) Confirm(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.states[id] {
	case enum.GateStatusSucceeded:
		return g.orders.Get(ctx, id)
	case enum.GateStatusProcessing:
	default:
		return nil, &domain.InvalidTransitionError{From: g.stateLocked(id), To: enum.GateStatusSucceeded}
	}

	order, err := g.orders.MarkPaid(ctx, id)
	if err != nil {
		return nil, err
	}
	g.states[id] = enum.GateStatusSucceeded

	g.log.Info("payment confirmed", zap.String("order_id", id.String()))
	return order, nil
}

// Fail moves the gate from processing to failed; the order may retry via
// Initiate. Payment status is left untouched.
func (g *PaymentGate) Fail(ctx context.Context, id uuid.UUID) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.states[id] != enum.GateStatusProcessing {
		return "", &domain.InvalidTransitionError{From: g.stateLocked(id), To: enum.GateStatusFailed}
	}
	g.states[id] = enum.GateStatusFailed

	g.log.Info("payment failed", zap.String("order_id", id.String()))
	return enum.GateStatusFailed, nil
}

// State reports the gate state for an order; orders never initiated are idle.
func (g *PaymentGate) State(id uuid.UUID) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked(id)
}

func (g *PaymentGate) stateLocked(id uuid.UUID) string {
	if s, ok := g.states[id]; ok {
		return s
	}
	return gateStateIdle
}
