package pricing

import "localshop/internal/domain"

// Catalog resolves product identifiers while an order is being edited
type Catalog interface {
	Lookup(productID string) (*domain.Product, bool)
}

// MapCatalog is a Catalog backed by a snapshot of the product list
type MapCatalog map[string]*domain.Product

// NewCatalog indexes products by ID
func NewCatalog(products []*domain.Product) MapCatalog {
	catalog := make(MapCatalog, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}
	return catalog
}

// Lookup returns the product with the given ID
func (c MapCatalog) Lookup(productID string) (*domain.Product, bool) {
	p, ok := c[productID]
	return p, ok
}
