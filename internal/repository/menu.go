package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pesanmeja/api/internal/domain"
)

const (
	listMenuItemsSQL = `SELECT id, name, category, price, has_options
	FROM menu_items ORDER BY category, name`

	getMenuItemSQL = `SELECT id, name, category, price, has_options
	FROM menu_items WHERE id = $1`

	upsertMenuItemSQL = `INSERT INTO menu_items (id, name, category, price, has_options)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name, category = EXCLUDED.category,
	    price = EXCLUDED.price, has_options = EXCLUDED.has_options`
)

var _ domain.MenuCatalog = (*PostgresMenuCatalog)(nil)

// PostgresMenuCatalog implements domain.MenuCatalog backed by PostgreSQL.
type PostgresMenuCatalog struct {
	pool *pgxpool.Pool
}

func NewPostgresMenuCatalog(pool *pgxpool.Pool) *PostgresMenuCatalog {
	return &PostgresMenuCatalog{pool: pool}
}

func (c *PostgresMenuCatalog) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := c.pool.Query(ctx, listMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	defer rows.Close()

	var out []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.HasOptions); err != nil {
			return nil, fmt.Errorf("scanning menu item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return out, nil
}

func (c *PostgresMenuCatalog) GetMenuItem(ctx context.Context, id uuid.UUID) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := c.pool.QueryRow(ctx, getMenuItemSQL, id).
		Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.HasOptions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MenuItem{}, domain.ErrMenuItemNotFound
		}
		return domain.MenuItem{}, fmt.Errorf("getting menu item %q: %w", id, err)
	}
	return item, nil
}

// UpsertMenuItem inserts or refreshes one catalog entry. Used by cmd/seed.
func (c *PostgresMenuCatalog) UpsertMenuItem(ctx context.Context, item domain.MenuItem) error {
	_, err := c.pool.Exec(ctx, upsertMenuItemSQL,
		item.ID, item.Name, item.Category, item.Price, item.HasOptions)
	if err != nil {
		return fmt.Errorf("upserting menu item %q: %w", item.Name, err)
	}
	return nil
}
