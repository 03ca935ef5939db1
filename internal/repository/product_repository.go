package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"localshop/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	Category  string
	Search    string
	SortBy    string
	SortOrder SortOrder
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
}

var validProductSortFields = map[string]bool{
	"name":       true,
	"price":      true,
	"stock":      true,
	"category":   true,
	"created_at": true,
}

// NormalizeProductFilter replaces unknown sort fields and directions with defaults
func NormalizeProductFilter(filter ProductFilter) ProductFilter {
	if !validProductSortFields[filter.SortBy] {
		filter.SortBy = "created_at"
	}
	if filter.SortOrder != SortOrderAsc && filter.SortOrder != SortOrderDesc {
		filter.SortOrder = SortOrderAsc
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return filter
}

const productColumns = `id, name, sku, category, price, stock, description, created_at, updated_at`

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, sku, category, price, stock, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.SKU,
		product.Category,
		product.Price,
		product.Stock,
		product.Description,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update overwrites every mutable column of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, sku = $3, category = $4, price = $5,
		    stock = $6, description = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.SKU,
		product.Category,
		product.Price,
		product.Stock,
		product.Description,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return expectOneRow(result, ErrProductNotFound)
}

// Delete removes a product from the database
func (r *productRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return expectOneRow(result, ErrProductNotFound)
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products with optional category and text filtering.
// Search matches name, SKU or description case-insensitively.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	filter = NormalizeProductFilter(filter)

	conditions := []string{}
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d OR description ILIKE $%d)", len(args), len(args), len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Sort field and direction are whitelisted by NormalizeProductFilter
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY %s %s, id ASC
	`, productColumns, whereClause, filter.SortBy, filter.SortOrder)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.SKU,
		&product.Category,
		&product.Price,
		&product.Stock,
		&product.Description,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// expectOneRow maps a zero-row update or delete to notFound
func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
