package domain

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OptionSet is the unordered set of customer-chosen attributes (temperature,
// sweetness) on a line item. Together with the menu item id it determines
// line-item identity.
type OptionSet map[string]string

// CanonicalKey encodes the set as sorted name=value pairs so that two
// structurally equal sets produce the same key regardless of insertion order.
func (o OptionSet) CanonicalKey() string {
	if len(o) == 0 {
		return ""
	}
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(o[name])
	}
	return b.String()
}

// Clone returns an independent copy of the set.
func (o OptionSet) Clone() OptionSet {
	if o == nil {
		return nil
	}
	out := make(OptionSet, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// OrderItem is one line of a submitted order. Name and UnitPrice are resolved
// from the catalog when the line is captured and never recomputed afterwards.
type OrderItem struct {
	MenuItemID uuid.UUID       `json:"menuItemId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	Options    OptionSet       `json:"options,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// Subtotal is unit price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the canonical record owned by the lifecycle manager. Items and
// TotalAmount are fixed at creation; corrections require a new order.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	TableNumber   int             `json:"tableNumber"`
	Items         []OrderItem     `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
	Status        string          `json:"status"`
	CustomerName  string          `json:"customerName,omitempty"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Clone returns a deep copy, so callers can hold snapshots without sharing
// state with the lifecycle manager.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	out := *o
	out.Items = make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.Options = item.Options.Clone()
		out.Items[i] = item
	}
	return &out
}

// OrderSubmission is the immutable payload a cart hands to the lifecycle
// manager. Line items already carry their captured prices.
type OrderSubmission struct {
	TableNumber   int
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	PaymentMethod string
	CustomerName  string
	CustomerPhone string
}

// OrderRepository is durable order storage. Implementations must return
// ErrOrderNotFound for unknown ids; they never delete (cancellation is a
// terminal state, not a removal).
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	Update(ctx context.Context, o *Order) error
}
