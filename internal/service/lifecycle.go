package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pesanmeja/api/internal/domain"
	"github.com/pesanmeja/api/internal/enum"
	"github.com/pesanmeja/api/internal/pubsub"
)

// Publisher is the slice of the event channel the lifecycle manager needs.
// Satisfied by *pubsub.Broker.
type Publisher interface {
	Publish(topic string, evt pubsub.Event)
}

// allowedTransitions defines the legal fulfillment edges. Key is the current
// status, value the set of statuses it may move to. completed and cancelled
// have no entries: they are terminal.
var allowedTransitions = map[string][]string{
	enum.OrderStatusPending:   {enum.OrderStatusPreparing, enum.OrderStatusCancelled},
	enum.OrderStatusPreparing: {enum.OrderStatusCompleted, enum.OrderStatusCancelled},
}

// validStatus reports whether s names a fulfillment status at all.
func validStatus(s string) bool {
	switch s {
	case enum.OrderStatusPending, enum.OrderStatusPreparing,
		enum.OrderStatusCompleted, enum.OrderStatusCancelled:
		return true
	}
	return false
}

// Lifecycle owns the canonical order state machine. It is the single writer
// for every order: mutations are serialized through its mutex, and each
// accepted change is persisted and published as one unit before the next
// request is admitted.
type Lifecycle struct {
	mu     sync.Mutex
	repo   domain.OrderRepository
	events Publisher
	log    *zap.Logger
}

func NewLifecycle(repo domain.OrderRepository, events Publisher, log *zap.Logger) *Lifecycle {
	return &Lifecycle{repo: repo, events: events, log: log}
}

// Create validates the submission, assigns the order its identity and initial
// state, persists it, and publishes an order.created event. TotalAmount is
// recomputed from the captured line prices here and never again.
func (s *Lifecycle) Create(ctx context.Context, sub domain.OrderSubmission) (*domain.Order, error) {
	if sub.TableNumber <= 0 {
		return nil, domain.NewValidationError("table number must be positive")
	}
	if len(sub.Items) == 0 {
		return nil, domain.NewValidationError("order must contain at least one item")
	}
	if sub.PaymentMethod != enum.PaymentMethodCash && sub.PaymentMethod != enum.PaymentMethodOnline {
		return nil, domain.NewValidationError("invalid payment method %q", sub.PaymentMethod)
	}

	items := make([]domain.OrderItem, len(sub.Items))
	total := decimal.Zero
	for i, item := range sub.Items {
		if item.Quantity <= 0 {
			return nil, domain.NewValidationError("items[%d]: quantity must be positive", i)
		}
		item.Options = item.Options.Clone()
		items[i] = item
		total = total.Add(item.Subtotal())
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:            uuid.New(),
		TableNumber:   sub.TableNumber,
		Items:         items,
		TotalAmount:   total,
		PaymentMethod: sub.PaymentMethod,
		PaymentStatus: enum.PaymentStatusUnpaid,
		Status:        enum.OrderStatusPending,
		CustomerName:  sub.CustomerName,
		CustomerPhone: sub.CustomerPhone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	s.publish(enum.EventOrderCreated, order)

	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int("table", order.TableNumber),
		zap.String("payment_method", order.PaymentMethod),
	)
	return order.Clone(), nil
}

// Transition moves the order to target if the state machine allows it.
// Re-requesting the current status is a no-op success (double-click safety)
// and publishes nothing. Illegal edges fail with InvalidTransitionError and
// leave both state and subscribers untouched.
func (s *Lifecycle) Transition(ctx context.Context, id uuid.UUID, target string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !validStatus(target) {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: target}
	}
	if order.Status == target {
		return order.Clone(), nil
	}
	if !transitionAllowed(order.Status, target) {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: target}
	}

	order.Status = target
	order.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.publish(enum.EventOrderUpdated, order)

	s.log.Info("order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", order.Status),
	)
	return order.Clone(), nil
}

// MarkPaid sets payment status to paid. Calling it on an already-paid order
// is a no-op, not an error, and publishes nothing.
func (s *Lifecycle) MarkPaid(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enum.PaymentStatusPaid {
		return order.Clone(), nil
	}

	order.PaymentStatus = enum.PaymentStatusPaid
	order.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.publish(enum.EventOrderUpdated, order)

	s.log.Info("order marked paid", zap.String("order_id", order.ID.String()))
	return order.Clone(), nil
}

// Get returns a snapshot of one order.
func (s *Lifecycle) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

// List returns snapshots of all orders, newest first.
func (s *Lifecycle) List(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out, nil
}

// publish emits the full order snapshot on the staff topic and the order's
// table topic. Called with the manager lock held so per-order emission order
// matches commit order.
func (s *Lifecycle) publish(eventType string, order *domain.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		s.log.Error("marshal order event", zap.Error(err), zap.String("order_id", order.ID.String()))
		return
	}
	evt := pubsub.Event{Type: eventType, Payload: payload}
	s.events.Publish(pubsub.TopicOrders, evt)
	s.events.Publish(pubsub.TableTopic(order.TableNumber), evt)
}

func transitionAllowed(current, target string) bool {
	for _, next := range allowedTransitions[current] {
		if next == target {
			return true
		}
	}
	return false
}
