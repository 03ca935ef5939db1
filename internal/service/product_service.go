package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"localshop/internal/domain"
	"localshop/internal/repository"
)

// ProductInput carries the fields of a new product
type ProductInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	SKU         string  `json:"sku" validate:"max=100"`
	Category    string  `json:"category" validate:"max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Description string  `json:"description"`
}

// ProductPatch holds the submitted fields of a product update; nil fields keep their value
type ProductPatch struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	SKU         *string  `json:"sku" validate:"omitempty,max=100"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	products repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	now := time.Now()
	product := &domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		SKU:         in.SKU,
		Category:    in.Category,
		Price:       in.Price,
		Stock:       in.Stock,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update merges the patch into the stored product
func (s *productService) Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	assign(&product.Name, patch.Name)
	assign(&product.SKU, patch.SKU)
	assign(&product.Category, patch.Category)
	assign(&product.Price, patch.Price)
	assign(&product.Stock, patch.Stock)
	assign(&product.Description, patch.Description)
	product.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// Delete removes a product; deleting an unknown id succeeds
func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrProductNotFound) {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// assign copies a submitted patch value over the stored one
func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
