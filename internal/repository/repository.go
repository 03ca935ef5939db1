package repository

import "database/sql"

// Repositories bundles every data access interface the services depend on
type Repositories struct {
	Products      ProductRepository
	Customers     CustomerRepository
	Orders        OrderRepository
	Sales         SaleRepository
	Users         UserRepository
	RefreshTokens RefreshTokenRepository
}

// NewPostgres wires the PostgreSQL-backed repositories over one connection pool
func NewPostgres(db *sql.DB) *Repositories {
	return &Repositories{
		Products:      NewProductRepository(db),
		Customers:     NewCustomerRepository(db),
		Orders:        NewOrderRepository(db),
		Sales:         NewSaleRepository(db),
		Users:         NewUserRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
	}
}
