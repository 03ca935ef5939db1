package pricing

import (
	"localshop/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat sales tax applied to every order subtotal
const DefaultTaxRate = 0.05

// Totals holds the aggregate figures of an order
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Calculator prices order line items
type Calculator struct {
	taxRate decimal.Decimal
}

// NewCalculator creates a Calculator applying the given tax rate (0.05 = 5%)
func NewCalculator(taxRate float64) *Calculator {
	return &Calculator{taxRate: decimal.NewFromFloat(taxRate)}
}

// TaxRate returns the configured tax rate
func (c *Calculator) TaxRate() float64 {
	return c.taxRate.InexactFloat64()
}

// Price recomputes every line total and the aggregate figures.
// The input slice is not modified; the returned items replace it entirely.
func (c *Calculator) Price(items []domain.OrderItem) ([]domain.OrderItem, Totals) {
	priced := make([]domain.OrderItem, len(items))
	sum := decimal.Zero

	for i, item := range items {
		line := LineTotal(item.Quantity, item.Price)
		item.Total = line.InexactFloat64()
		priced[i] = item
		sum = sum.Add(line)
	}

	tax := sum.Mul(c.taxRate)

	return priced, Totals{
		Subtotal: sum.Round(2).InexactFloat64(),
		Tax:      tax.Round(2).InexactFloat64(),
		Total:    sum.Add(tax).Round(2).InexactFloat64(),
	}
}

// Apply prices the order in place, overwriting items and all three aggregates together
func (c *Calculator) Apply(order *domain.Order) {
	items, totals := c.Price(order.Items)
	order.Items = items
	order.Subtotal = totals.Subtotal
	order.Tax = totals.Tax
	order.Total = totals.Total
}

// LineTotal returns quantity × unit price as an exact decimal
func LineTotal(quantity int, price float64) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromFloat(price))
}

// Round2 rounds a money amount to cents, half away from zero
func Round2(amount decimal.Decimal) float64 {
	return amount.Round(2).InexactFloat64()
}
