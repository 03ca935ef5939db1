// Package memory keeps every shop record in process memory.
// A Store is owned by whoever creates it; there is no package-level state.
package memory

import (
	"slices"
	"sync"

	"localshop/internal/domain"
	"localshop/internal/repository"
)

// Store holds all records behind one lock. Reads hand out copies so callers
// can never mutate stored state without going through a repository method.
type Store struct {
	mu sync.RWMutex

	products  table[domain.Product]
	customers table[domain.Customer]
	orders    table[domain.Order]
	sales     table[domain.Sale]
	users     table[domain.User]
	tokens    map[string]*domain.RefreshToken
	orderSeq  int64
}

// New returns an empty store
func New() *Store {
	return &Store{
		products:  newTable[domain.Product](),
		customers: newTable[domain.Customer](),
		orders:    newTable[domain.Order](),
		sales:     newTable[domain.Sale](),
		users:     newTable[domain.User](),
		tokens:    make(map[string]*domain.RefreshToken),
	}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Products:      &productRepository{s},
		Customers:     &customerRepository{s},
		Orders:        &orderRepository{s},
		Sales:         &saleRepository{s},
		Users:         &userRepository{s},
		RefreshTokens: &refreshTokenRepository{s},
	}
}

// table is an insertion-ordered map of records
type table[T any] struct {
	rows  map[string]*T
	order []string
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) get(id string) (*T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) put(id string, row *T) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) remove(id string) bool {
	if _, exists := t.rows[id]; !exists {
		return false
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(existing string) bool { return existing == id })
	return true
}

func (t *table[T]) each(fn func(row *T)) {
	for _, id := range t.order {
		fn(t.rows[id])
	}
}

func cloneProduct(p *domain.Product) *domain.Product {
	c := *p
	return &c
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	cp := *c
	return &cp
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return &c
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}
