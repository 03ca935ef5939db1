package memory

import (
	"context"

	"localshop/internal/domain"
	"localshop/internal/repository"
)

type customerRepository struct {
	s *Store
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.customers.put(customer.ID, cloneCustomer(customer))
	return nil
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.customers.get(customer.ID)
	if !ok {
		return repository.ErrCustomerNotFound
	}
	createdAt := existing.CreatedAt
	*existing = *customer
	existing.CreatedAt = createdAt
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.customers.remove(id) {
		return repository.ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	customer, ok := r.s.customers.get(id)
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}
	return cloneCustomer(customer), nil
}

func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	customers := []*domain.Customer{}
	r.s.customers.each(func(c *domain.Customer) {
		customers = append(customers, cloneCustomer(c))
	})
	return customers, nil
}

type orderRepository struct {
	s *Store
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.orders.put(order.ID, cloneOrder(order))
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.orders.get(order.ID)
	if !ok {
		return repository.ErrOrderNotFound
	}
	date := existing.Date
	*existing = *cloneOrder(order)
	existing.Date = date
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.orders.remove(id) {
		return repository.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	order, ok := r.s.orders.get(id)
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	orders := []*domain.Order{}
	r.s.orders.each(func(o *domain.Order) {
		orders = append(orders, cloneOrder(o))
	})
	return orders, nil
}

func (r *orderRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.orderSeq++
	return r.s.orderSeq, nil
}
