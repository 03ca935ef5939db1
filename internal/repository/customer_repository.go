package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"localshop/internal/domain"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
}

const customerColumns = `id, name, email, phone, address, city, total_spent, created_at, updated_at`

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, phone, address, city, total_spent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.City,
		customer.TotalSpent,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, address = $5,
		    city = $6, total_spent = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.Address,
		customer.City,
		customer.TotalSpent,
		customer.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return expectOneRow(result, ErrCustomerNotFound)
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	return expectOneRow(result, ErrCustomerNotFound)
}

func (r *customerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*domain.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	customer := &domain.Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.Address,
		&customer.City,
		&customer.TotalSpent,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}
