package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"localshop/internal/domain"
	"localshop/internal/pricing"
	"localshop/internal/repository"
)

// OrderItemInput is a submitted order line.
// Missing name or price are taken from the catalog.
type OrderItemInput struct {
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName" validate:"max=255"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
}

// OrderInput carries the fields of a new order. Client-side totals are never read.
type OrderInput struct {
	OrderNumber  string             `json:"orderNumber" validate:"max=50"`
	CustomerID   string             `json:"customerId"`
	CustomerName string             `json:"customerName" validate:"max=255"`
	Items        []OrderItemInput   `json:"items" validate:"dive"`
	Status       domain.OrderStatus `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

// OrderPatch holds the submitted fields of an order update
type OrderPatch struct {
	OrderNumber  *string             `json:"orderNumber" validate:"omitempty,max=50"`
	CustomerID   *string             `json:"customerId"`
	CustomerName *string             `json:"customerName" validate:"omitempty,max=255"`
	Items        []OrderItemInput    `json:"items" validate:"omitempty,dive"`
	Status       *domain.OrderStatus `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

// QuoteLine is one line of a price quote
type QuoteLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Quote is a priced but unsaved order
type Quote struct {
	Items    []domain.OrderItem `json:"items"`
	Subtotal float64            `json:"subtotal"`
	Tax      float64            `json:"tax"`
	Total    float64            `json:"total"`
}

// OrderService defines the interface for order business logic
type OrderService interface {
	List(ctx context.Context) ([]*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	Create(ctx context.Context, in OrderInput) (*domain.Order, error)
	Update(ctx context.Context, id string, patch OrderPatch) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	Quote(ctx context.Context, lines []QuoteLine) (*Quote, error)
}

type orderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	calc      *pricing.Calculator
	observer  Observer
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	calc *pricing.Calculator,
	observer Observer,
) OrderService {
	if observer == nil {
		observer = NopObserver{}
	}
	return &orderService{
		orders:    orders,
		products:  products,
		customers: customers,
		calc:      calc,
		observer:  observer,
	}
}

func (s *orderService) List(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// Create numbers, prices and stores a new order
func (s *orderService) Create(ctx context.Context, in OrderInput) (*domain.Order, error) {
	status := in.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	items, err := s.resolveItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	orderNumber := in.OrderNumber
	if orderNumber == "" {
		seq, err := s.orders.NextOrderNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to number order: %w", err)
		}
		orderNumber = fmt.Sprintf("ORD-%05d", seq)
	}

	now := time.Now()
	order := &domain.Order{
		ID:           uuid.NewString(),
		OrderNumber:  orderNumber,
		CustomerID:   in.CustomerID,
		CustomerName: s.customerName(ctx, in.CustomerID, in.CustomerName),
		Items:        items,
		Status:       status,
		Date:         now,
		UpdatedAt:    now,
	}
	s.calc.Apply(order)

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	s.observer.OrderSaved(order, true)
	return order, nil
}

// Update merges the patch and reprices the result, whatever fields changed
func (s *orderService) Update(ctx context.Context, id string, patch OrderPatch) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if patch.Items != nil {
		items, err := s.resolveItems(ctx, patch.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	assign(&order.OrderNumber, patch.OrderNumber)
	assign(&order.Status, patch.Status)
	if patch.CustomerID != nil {
		order.CustomerID = *patch.CustomerID
		name := ""
		if patch.CustomerName != nil {
			name = *patch.CustomerName
		}
		order.CustomerName = s.customerName(ctx, order.CustomerID, name)
	} else {
		assign(&order.CustomerName, patch.CustomerName)
	}

	s.calc.Apply(order)
	order.UpdatedAt = time.Now()

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	s.observer.OrderSaved(order, false)
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrOrderNotFound) {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// Quote prices lines the way the order form does: every product id is
// resolved against the current catalog and unknown ids price at zero.
func (s *orderService) Quote(ctx context.Context, lines []QuoteLine) (*Quote, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	draft := s.calc.NewDraft(nil, catalog)
	for i, line := range lines {
		if i > 0 {
			draft.AddLine()
		}
		if err := draft.SetProduct(i, line.ProductID); err != nil {
			return nil, err
		}
		if err := draft.SetQuantity(i, line.Quantity); err != nil {
			return nil, err
		}
	}

	totals := draft.Totals()
	return &Quote{
		Items:    draft.Items(),
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Total:    totals.Total,
	}, nil
}

func (s *orderService) catalog(ctx context.Context) (pricing.Catalog, error) {
	products, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return pricing.NewCatalog(products), nil
}

// resolveItems fills missing names and prices from the catalog.
// Lines for unknown products keep what was submitted.
func (s *orderService) resolveItems(ctx context.Context, inputs []OrderItemInput) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(inputs))
	if len(inputs) == 0 {
		return items, nil
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	for _, in := range inputs {
		if in.Quantity < 0 {
			return nil, pricing.ErrInvalidQuantity
		}
		item := domain.OrderItem{
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
		}
		if in.Price != nil {
			item.Price = *in.Price
		}
		if product, ok := catalog.Lookup(in.ProductID); ok {
			if item.ProductName == "" {
				item.ProductName = product.Name
			}
			if in.Price == nil {
				item.Price = product.Price
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// customerName prefers the submitted name and falls back to the customer record
func (s *orderService) customerName(ctx context.Context, customerID, submitted string) string {
	if submitted != "" || customerID == "" {
		return submitted
	}
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return ""
	}
	return customer.Name
}
