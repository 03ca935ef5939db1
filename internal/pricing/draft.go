package pricing

import (
	"errors"

	"localshop/internal/domain"
)

var (
	ErrLastLine        = errors.New("an order must keep at least one item")
	ErrLineIndex       = errors.New("line item index out of range")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// Draft is an order being edited line by line.
// Every edit reprices the whole order so the aggregates never go stale.
type Draft struct {
	calc    *Calculator
	catalog Catalog
	items   []domain.OrderItem
	totals  Totals
}

// NewDraft starts an editing session over a copy of items.
// An empty item list starts with one blank line.
func (c *Calculator) NewDraft(items []domain.OrderItem, catalog Catalog) *Draft {
	d := &Draft{
		calc:    c,
		catalog: catalog,
		items:   append([]domain.OrderItem(nil), items...),
	}
	if len(d.items) == 0 {
		d.items = append(d.items, domain.OrderItem{})
	}
	d.reprice()
	return d
}

// SetProduct points a line at a catalog product.
// When the product is unknown the line keeps its previous name and price.
func (d *Draft) SetProduct(index int, productID string) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}

	line := &d.items[index]
	line.ProductID = productID
	if product, ok := d.catalog.Lookup(productID); ok {
		line.ProductName = product.Name
		line.Price = product.Price
	}

	d.reprice()
	return nil
}

// SetQuantity changes the quantity of a line; zero keeps the line with a zero total
func (d *Draft) SetQuantity(index, quantity int) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	d.items[index].Quantity = quantity
	d.reprice()
	return nil
}

// AddLine appends a blank line and returns its index
func (d *Draft) AddLine() int {
	d.items = append(d.items, domain.OrderItem{})
	d.reprice()
	return len(d.items) - 1
}

// RemoveLine drops a line; the last remaining line cannot be removed
func (d *Draft) RemoveLine(index int) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	if len(d.items) == 1 {
		return ErrLastLine
	}

	d.items = append(d.items[:index], d.items[index+1:]...)
	d.reprice()
	return nil
}

// Items returns a copy of the priced lines
func (d *Draft) Items() []domain.OrderItem {
	return append([]domain.OrderItem(nil), d.items...)
}

// Totals returns the current aggregate figures
func (d *Draft) Totals() Totals {
	return d.totals
}

func (d *Draft) checkIndex(index int) error {
	if index < 0 || index >= len(d.items) {
		return ErrLineIndex
	}
	return nil
}

func (d *Draft) reprice() {
	d.items, d.totals = d.calc.Price(d.items)
}
