package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"localshop/internal/domain"
	"localshop/internal/pricing"
	"localshop/internal/repository"
)

// SeedDemoData inserts the demo catalog unless records with the same ids exist.
// It is safe to run on every start.
func SeedDemoData(ctx context.Context, repos *repository.Repositories, calc *pricing.Calculator) error {
	now := time.Now()

	products := []*domain.Product{
		{ID: "1", Name: "Sample Product 1", SKU: "SKU001", Category: "Electronics", Price: 299.99, Stock: 50, Description: "High quality electronic product"},
		{ID: "2", Name: "Sample Product 2", SKU: "SKU002", Category: "Groceries", Price: 49.99, Stock: 100, Description: "Premium quality groceries"},
	}
	for _, p := range products {
		if _, err := repos.Products.FindByID(ctx, p.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrProductNotFound) {
			return fmt.Errorf("failed to check product %s: %w", p.ID, err)
		}
		p.CreatedAt, p.UpdatedAt = now, now
		if err := repos.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}

	customers := []*domain.Customer{
		{ID: "1", Name: "John Doe", Email: "john@example.com", Phone: "9876543210", Address: "123 Main St", City: "New Delhi", TotalSpent: 5000},
		{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Phone: "9876543211", Address: "456 Side St", City: "Mumbai", TotalSpent: 8000},
	}
	for _, c := range customers {
		if _, err := repos.Customers.FindByID(ctx, c.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrCustomerNotFound) {
			return fmt.Errorf("failed to check customer %s: %w", c.ID, err)
		}
		c.CreatedAt, c.UpdatedAt = now, now
		if err := repos.Customers.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", c.ID, err)
		}
	}

	if _, err := repos.Orders.FindByID(ctx, "1"); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrOrderNotFound) {
		return fmt.Errorf("failed to check order 1: %w", err)
	}

	order := &domain.Order{
		ID:           "1",
		OrderNumber:  "ORD-001",
		CustomerID:   "1",
		CustomerName: "John Doe",
		Items: []domain.OrderItem{
			{ProductID: "1", ProductName: "Sample Product 1", Quantity: 2, Price: 299.99},
		},
		Status:    domain.OrderStatusCompleted,
		Date:      now,
		UpdatedAt: now,
	}
	calc.Apply(order)

	if err := repos.Orders.Create(ctx, order); err != nil {
		return fmt.Errorf("failed to seed order: %w", err)
	}
	return nil
}
