package domain

import "time"

// Sale records a stock-reducing sale of a single product
type Sale struct {
	ID          string    `json:"id" db:"id"`
	ProductID   string    `json:"productId" db:"product_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	TotalAmount float64   `json:"totalAmount" db:"total_amount"`
	Date        time.Time `json:"date" db:"sold_at"`
}

// SaleWithProduct is a sale with its product reference expanded.
// Product is nil when the product has since been deleted.
type SaleWithProduct struct {
	Sale
	Product *Product `json:"product"`
}
