package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"localshop/internal/domain"
	"localshop/internal/repository"
)

type productRepository struct {
	s *Store
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.products.put(product.ID, cloneProduct(product))
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.products.get(product.ID)
	if !ok {
		return repository.ErrProductNotFound
	}
	createdAt := existing.CreatedAt
	*existing = *product
	existing.CreatedAt = createdAt
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.products.remove(id) {
		return repository.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	product, ok := r.s.products.get(id)
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return cloneProduct(product), nil
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	filter = repository.NormalizeProductFilter(filter)
	search := strings.ToLower(filter.Search)

	r.s.mu.RLock()
	products := []*domain.Product{}
	r.s.products.each(func(p *domain.Product) {
		if filter.Category != "" && p.Category != filter.Category {
			return
		}
		if search != "" && !matchesSearch(p, search) {
			return
		}
		products = append(products, cloneProduct(p))
	})
	r.s.mu.RUnlock()

	compare := productComparator(filter.SortBy)
	slices.SortStableFunc(products, func(a, b *domain.Product) int {
		if filter.SortOrder == repository.SortOrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})

	return products, nil
}

func matchesSearch(p *domain.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.SKU), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

func productComparator(field string) func(a, b *domain.Product) int {
	switch field {
	case "name":
		return func(a, b *domain.Product) int { return cmp.Compare(a.Name, b.Name) }
	case "price":
		return func(a, b *domain.Product) int { return cmp.Compare(a.Price, b.Price) }
	case "stock":
		return func(a, b *domain.Product) int { return cmp.Compare(a.Stock, b.Stock) }
	case "category":
		return func(a, b *domain.Product) int { return cmp.Compare(a.Category, b.Category) }
	default:
		return func(a, b *domain.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}
}

type saleRepository struct {
	s *Store
}

// Record applies fn to a copy of the product while holding the write lock.
// The copy replaces the stored product only when fn succeeds.
func (r *saleRepository) Record(ctx context.Context, productID string, fn repository.SaleFunc) (*domain.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.products.get(productID)
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	working := cloneProduct(stored)
	sale, err := fn(working)
	if err != nil {
		return nil, err
	}

	*stored = *working
	recorded := *sale
	r.s.sales.put(recorded.ID, &recorded)
	return sale, nil
}

func (r *saleRepository) List(ctx context.Context) ([]*domain.SaleWithProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sales := []*domain.SaleWithProduct{}
	r.s.sales.each(func(sale *domain.Sale) {
		entry := &domain.SaleWithProduct{Sale: *sale}
		if product, ok := r.s.products.get(sale.ProductID); ok {
			entry.Product = cloneProduct(product)
		}
		sales = append(sales, entry)
	})
	return sales, nil
}
