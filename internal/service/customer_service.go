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

// CustomerInput carries the fields of a new customer
type CustomerInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address"`
	City    string `json:"city" validate:"max=100"`
}

// CustomerPatch holds the submitted fields of a customer update
type CustomerPatch struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Email      *string  `json:"email" validate:"omitempty,email"`
	Phone      *string  `json:"phone" validate:"omitempty,max=50"`
	Address    *string  `json:"address"`
	City       *string  `json:"city" validate:"omitempty,max=100"`
	TotalSpent *float64 `json:"totalSpent" validate:"omitempty,gte=0"`
}

// CustomerService defines the interface for customer business logic
type CustomerService interface {
	List(ctx context.Context) ([]*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, in CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, id string, patch CustomerPatch) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

type customerService struct {
	customers repository.CustomerRepository
}

// NewCustomerService creates a new instance of CustomerService
func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) List(ctx context.Context) ([]*domain.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// Create stores a new customer with a zero spending total
func (s *customerService) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	now := time.Now()
	customer := &domain.Customer{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, id string, patch CustomerPatch) (*domain.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	assign(&customer.Name, patch.Name)
	assign(&customer.Email, patch.Email)
	assign(&customer.Phone, patch.Phone)
	assign(&customer.Address, patch.Address)
	assign(&customer.City, patch.City)
	assign(&customer.TotalSpent, patch.TotalSpent)
	customer.UpdatedAt = time.Now()

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrCustomerNotFound) {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
