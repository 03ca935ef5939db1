package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"localshop/internal/domain"
	"localshop/internal/pricing"
	"localshop/internal/repository"
)

// InventoryService sells stock and lists past sales
type InventoryService interface {
	Sell(ctx context.Context, productID string, quantity int) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]*domain.SaleWithProduct, error)
}

type inventoryService struct {
	sales    repository.SaleRepository
	observer Observer
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(sales repository.SaleRepository, observer Observer) InventoryService {
	if observer == nil {
		observer = NopObserver{}
	}
	return &inventoryService{sales: sales, observer: observer}
}

// Sell decrements stock and records the sale as one atomic step.
// A rejected sale leaves the product untouched.
func (s *inventoryService) Sell(ctx context.Context, productID string, quantity int) (*domain.Sale, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	sale, err := s.sales.Record(ctx, productID, func(product *domain.Product) (*domain.Sale, error) {
		if product.Stock < quantity {
			return nil, ErrInsufficientStock
		}

		now := time.Now()
		product.Stock -= quantity
		product.UpdatedAt = now

		return &domain.Sale{
			ID:          uuid.NewString(),
			ProductID:   product.ID,
			Quantity:    quantity,
			TotalAmount: pricing.Round2(pricing.LineTotal(quantity, product.Price)),
			Date:        now,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.observer.SaleRecorded(sale)
	return sale, nil
}

func (s *inventoryService) ListSales(ctx context.Context) ([]*domain.SaleWithProduct, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}
