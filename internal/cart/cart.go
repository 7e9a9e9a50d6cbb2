package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pesanmeja/api/internal/domain"
	"github.com/pesanmeja/api/internal/enum"
)

// Line is one entry in a cart. ID is the canonical identity key, so two adds
// of the same menu item with a structurally equal option set always land on
// the same line.
type Line struct {
	ID         string           `json:"id"`
	MenuItemID string           `json:"menuItemId"`
	Name       string           `json:"name"`
	UnitPrice  decimal.Decimal  `json:"unitPrice"`
	Quantity   int              `json:"quantity"`
	Options    domain.OptionSet `json:"options,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

// lineID builds the identity key from the menu item id and the canonical
// option encoding. Notes never participate.
func lineID(item domain.MenuItem, opts domain.OptionSet) string {
	key := item.ID.String()
	if enc := opts.CanonicalKey(); enc != "" {
		key += "|" + enc
	}
	return key
}

// OrderPlacer accepts a submission and creates the order. Satisfied by the
// lifecycle manager.
type OrderPlacer interface {
	Create(ctx context.Context, sub domain.OrderSubmission) (*domain.Order, error)
}

// CustomerInfo is the optional identity captured before ordering.
type CustomerInfo struct {
	Name  string
	Phone string
}

// Cart accumulates line items for one table session prior to submission.
// Safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges into an existing line with the same identity or appends a
// new one, capturing the item's current price. Quantities below one count
// as a single unit. Always succeeds.
func (c *Cart) AddItem(item domain.MenuItem, quantity int, opts domain.OptionSet, notes string) Line {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := lineID(item, opts)
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Quantity += quantity
			return c.lines[i]
		}
	}

	line := Line{
		ID:         id,
		MenuItemID: item.ID.String(),
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   quantity,
		Options:    opts.Clone(),
		Notes:      notes,
	}
	c.lines = append(c.lines, line)
	return line
}

// SetQuantity replaces a line's quantity in place; zero or below removes the
// line. Unknown ids are ignored.
func (c *Cart) SetQuantity(id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID != id {
			continue
		}
		if quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = quantity
		}
		return
	}
}

// Lines returns a snapshot of the cart's contents in first-add order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Cart) snapshotLocked() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		l.Options = l.Options.Clone()
		out[i] = l
	}
	return out
}

// Totals returns the total item count and total amount. Pure read.
func (c *Cart) Totals() (int, decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalsLocked()
}

func (c *Cart) totalsLocked() (int, decimal.Decimal) {
	count := 0
	amount := decimal.Zero
	for _, l := range c.lines {
		count += l.Quantity
		amount = amount.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return count, amount
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Submit validates the cart, builds an immutable submission payload, and
// hands it to the placer. The cart clears only when the placer accepts; on
// any failure it is left untouched.
func (c *Cart) Submit(ctx context.Context, tableNumber int, paymentMethod string, info CustomerInfo, placer OrderPlacer) (*domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return nil, domain.NewValidationError("cart is empty")
	}
	if tableNumber <= 0 {
		return nil, domain.NewValidationError("table number must be positive")
	}
	if paymentMethod != enum.PaymentMethodCash && paymentMethod != enum.PaymentMethodOnline {
		return nil, domain.NewValidationError("invalid payment method %q", paymentMethod)
	}

	items := make([]domain.OrderItem, len(c.lines))
	for i, l := range c.lines {
		id, err := parseMenuItemID(l.MenuItemID)
		if err != nil {
			return nil, err
		}
		items[i] = domain.OrderItem{
			MenuItemID: id,
			Name:       l.Name,
			UnitPrice:  l.UnitPrice,
			Quantity:   l.Quantity,
			Options:    l.Options.Clone(),
			Notes:      l.Notes,
		}
	}
	_, total := c.totalsLocked()

	order, err := placer.Create(ctx, domain.OrderSubmission{
		TableNumber:   tableNumber,
		Items:         items,
		TotalAmount:   total,
		PaymentMethod: paymentMethod,
		CustomerName:  info.Name,
		CustomerPhone: info.Phone,
	})
	if err != nil {
		return nil, err
	}

	c.lines = nil
	return order, nil
}

func parseMenuItemID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("invalid menu item id %q", s)
	}
	return id, nil
}
