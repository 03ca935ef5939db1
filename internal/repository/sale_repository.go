package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"localshop/internal/domain"
)

// SaleFunc validates a locked product and builds the sale to record.
// It may change product.Stock; returning an error aborts without writing anything.
type SaleFunc func(product *domain.Product) (*domain.Sale, error)

// SaleRepository defines the interface for sale data access
type SaleRepository interface {
	// Record locks the product, lets fn apply the sale to it and persists the
	// stock change together with the sale, or neither of them.
	Record(ctx context.Context, productID string, fn SaleFunc) (*domain.Sale, error)
	List(ctx context.Context) ([]*domain.SaleWithProduct, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

// Record runs the check-then-decrement sequence inside one transaction.
// SELECT ... FOR UPDATE serialises concurrent sales of the same product.
func (r *saleRepository) Record(ctx context.Context, productID string, fn SaleFunc) (*domain.Sale, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	product, err := scanProduct(tx.QueryRowContext(ctx, query, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	sale, err := fn(product)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET stock = $2, updated_at = $3 WHERE id = $1`,
		product.ID, product.Stock, product.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update product stock: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sales (id, product_id, quantity, total_amount, sold_at) VALUES ($1, $2, $3, $4, $5)`,
		sale.ID, sale.ProductID, sale.Quantity, sale.TotalAmount, sale.Date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	return sale, nil
}

// List returns every sale, oldest first, with the product joined in when it still exists
func (r *saleRepository) List(ctx context.Context) ([]*domain.SaleWithProduct, error) {
	query := `
		SELECT s.id, s.product_id, s.quantity, s.total_amount, s.sold_at,
		       p.id, p.name, p.sku, p.category, p.price, p.stock, p.description, p.created_at, p.updated_at
		FROM sales s
		LEFT JOIN products p ON p.id = s.product_id
		ORDER BY s.sold_at ASC, s.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []*domain.SaleWithProduct{}
	for rows.Next() {
		var (
			s                             domain.SaleWithProduct
			pID, pName, pSKU, pCat, pDesc sql.NullString
			pPrice                        sql.NullFloat64
			pStock                        sql.NullInt64
			pCreated, pUpdated            sql.NullTime
		)
		err := rows.Scan(
			&s.ID, &s.ProductID, &s.Quantity, &s.TotalAmount, &s.Date,
			&pID, &pName, &pSKU, &pCat, &pPrice, &pStock, &pDesc, &pCreated, &pUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}

		if pID.Valid {
			s.Product = &domain.Product{
				ID:          pID.String,
				Name:        pName.String,
				SKU:         pSKU.String,
				Category:    pCat.String,
				Price:       pPrice.Float64,
				Stock:       int(pStock.Int64),
				Description: pDesc.String,
				CreatedAt:   pCreated.Time,
				UpdatedAt:   pUpdated.Time,
			}
		}
		sales = append(sales, &s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	return sales, nil
}
