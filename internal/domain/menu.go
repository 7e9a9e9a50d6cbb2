package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is one entry in the catalog. HasOptions marks items that require a
// choice (temperature, sweetness) before they can be added to a cart.
type MenuItem struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	HasOptions bool            `json:"hasOptions"`
}

// MenuCatalog is the read-only catalog lookup consumed by the ordering flow.
type MenuCatalog interface {
	ListMenuItems(ctx context.Context) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error)
}
