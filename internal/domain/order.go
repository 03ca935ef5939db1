package domain

import "time"

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is one product/quantity pairing within an order.
// ProductName and Price are copied from the catalog when the line is edited.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// Order represents a priced customer order
type Order struct {
	ID           string      `json:"id" db:"id"`
	OrderNumber  string      `json:"orderNumber" db:"order_number"`
	CustomerID   string      `json:"customerId" db:"customer_id"`
	CustomerName string      `json:"customerName" db:"customer_name"`
	Items        []OrderItem `json:"items" db:"items"`
	Subtotal     float64     `json:"subtotal" db:"subtotal"`
	Tax          float64     `json:"tax" db:"tax"`
	Total        float64     `json:"total" db:"total"`
	Status       OrderStatus `json:"status" db:"status"`
	Date         time.Time   `json:"date" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}
