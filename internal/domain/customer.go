package domain

import "time"

// Customer represents a shop customer.
// TotalSpent is a running figure edited by hand; order creation does not touch it.
type Customer struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Email      string    `json:"email" db:"email"`
	Phone      string    `json:"phone" db:"phone"`
	Address    string    `json:"address" db:"address"`
	City       string    `json:"city" db:"city"`
	TotalSpent float64   `json:"totalSpent" db:"total_spent"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}
