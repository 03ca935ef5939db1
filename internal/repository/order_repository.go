package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"localshop/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	// NextOrderNumber returns the next value of the human-readable order sequence
	NextOrderNumber(ctx context.Context) (int64, error)
}

const orderColumns = `id, order_number, customer_id, customer_name, items, subtotal, tax, total, status, created_at, updated_at`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts an order; line items are stored as a JSONB document
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (id, order_number, customer_id, customer_name, items, subtotal, tax, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.OrderNumber,
		order.CustomerID,
		order.CustomerName,
		items,
		order.Subtotal,
		order.Tax,
		order.Total,
		string(order.Status),
		order.Date,
		order.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	query := `
		UPDATE orders
		SET order_number = $2, customer_id = $3, customer_name = $4, items = $5,
		    subtotal = $6, tax = $7, total = $8, status = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.OrderNumber,
		order.CustomerID,
		order.CustomerName,
		items,
		order.Subtotal,
		order.Tax,
		order.Total,
		string(order.Status),
		order.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	return expectOneRow(result, ErrOrderNotFound)
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return expectOneRow(result, ErrOrderNotFound)
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	var next int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('order_number_seq')`).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to allocate order number: %w", err)
	}
	return next, nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var items []byte
	var status string

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerID,
		&order.CustomerName,
		&items,
		&order.Subtotal,
		&order.Tax,
		&order.Total,
		&status,
		&order.Date,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatus(status)
	order.Items = []domain.OrderItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
	}

	return order, nil
}
