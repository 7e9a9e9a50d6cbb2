package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pesanmeja/api/internal/domain"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, table_number, items, total_amount, payment_method, payment_status, status,
		 customer_name, customer_phone, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	getOrderSQL = `SELECT id, table_number, items, total_amount, payment_method, payment_status, status,
		customer_name, customer_phone, created_at, updated_at
	FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT id, table_number, items, total_amount, payment_method, payment_status, status,
		customer_name, customer_phone, created_at, updated_at
	FROM orders ORDER BY created_at DESC`

	updateOrderSQL = `UPDATE orders
	SET payment_status = $2, status = $3, updated_at = $4
	WHERE id = $1`
)

var _ domain.OrderRepository = (*PostgresOrderRepository)(nil)

// PostgresOrderRepository implements domain.OrderRepository backed by
// PostgreSQL. Line items are serialized to JSON for the JSONB column: they
// are an immutable snapshot, never queried relationally.
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

func (r *PostgresOrderRepository) Create(ctx context.Context, o *domain.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.TableNumber, itemsJSON, o.TotalAmount, o.PaymentMethod, o.PaymentStatus,
		o.Status, o.CustomerName, o.CustomerPhone, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

func (r *PostgresOrderRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, getOrderSQL, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return o, nil
}

func (r *PostgresOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var out []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return out, nil
}

func (r *PostgresOrderRepository) Update(ctx context.Context, o *domain.Order) error {
	tag, err := r.pool.Exec(ctx, updateOrderSQL, o.ID, o.PaymentStatus, o.Status, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o         domain.Order
		itemsJSON []byte
	)
	err := row.Scan(
		&o.ID, &o.TableNumber, &itemsJSON, &o.TotalAmount, &o.PaymentMethod,
		&o.PaymentStatus, &o.Status, &o.CustomerName, &o.CustomerPhone,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshaling order items: %w", err)
	}
	return &o, nil
}
