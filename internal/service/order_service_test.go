package service

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localshop/internal/domain"
	"localshop/internal/pricing"
	"localshop/internal/repository"
	"localshop/internal/repository/memory"
)

func newSeededOrderService(t *testing.T) (OrderService, *repository.Repositories) {
	t.Helper()
	repos := memory.New().Repositories()
	calc := pricing.NewCalculator(pricing.DefaultTaxRate)
	require.NoError(t, SeedDemoData(context.Background(), repos, calc))
	return NewOrderService(repos.Orders, repos.Products, repos.Customers, calc, nil), repos
}

func TestOrderService_CreateFillsFromCatalog(t *testing.T) {
	service, _ := newSeededOrderService(t)

	order, err := service.Create(context.Background(), OrderInput{
		CustomerID: "2",
		Items: []OrderItemInput{
			{ProductID: "1", Quantity: 2},
			{ProductID: "2", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-00001", order.OrderNumber)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "Jane Smith", order.CustomerName)
	assert.Equal(t, "Sample Product 1", order.Items[0].ProductName)
	assert.Equal(t, 299.99, order.Items[0].Price)
	assert.Equal(t, 599.98, order.Items[0].Total)
	assert.Equal(t, 649.97, order.Subtotal)
	assert.Equal(t, 32.50, order.Tax)
	assert.Equal(t, 682.47, order.Total)
	assert.False(t, order.Date.IsZero())
}

func TestOrderService_CreateKeepsSubmittedPriceAndUnknownProducts(t *testing.T) {
	service, _ := newSeededOrderService(t)

	order, err := service.Create(context.Background(), OrderInput{
		OrderNumber:  "WALKIN-7",
		CustomerName: "Walk-in",
		Status:       domain.OrderStatusCompleted,
		Items: []OrderItemInput{
			{ProductID: "1", Quantity: 1, Price: ptr(250.0)},
			{ProductID: "ghost", ProductName: "Gift wrap", Quantity: 3, Price: ptr(1.5)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "WALKIN-7", order.OrderNumber)
	assert.Equal(t, 250.0, order.Items[0].Price)
	assert.Equal(t, "Sample Product 1", order.Items[0].ProductName)
	assert.Equal(t, "Gift wrap", order.Items[1].ProductName)
	assert.Equal(t, 254.5, order.Subtotal)
}

func TestOrderService_NumbersIncrease(t *testing.T) {
	service, _ := newSeededOrderService(t)
	ctx := context.Background()

	first, err := service.Create(ctx, OrderInput{})
	require.NoError(t, err)
	second, err := service.Create(ctx, OrderInput{})
	require.NoError(t, err)

	assert.Equal(t, "ORD-00001", first.OrderNumber)
	assert.Equal(t, "ORD-00002", second.OrderNumber)
	assert.Empty(t, first.Items)
	assert.Zero(t, first.Total)
}

func TestOrderService_UpdateAlwaysReprices(t *testing.T) {
	service, repos := newSeededOrderService(t)
	ctx := context.Background()

	// corrupt the stored aggregates; any update must recompute them
	stored, err := repos.Orders.FindByID(ctx, "1")
	require.NoError(t, err)
	stored.Total = 1
	require.NoError(t, repos.Orders.Update(ctx, stored))

	updated, err := service.Update(ctx, "1", OrderPatch{Status: ptr(domain.OrderStatusCancelled)})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 629.98, updated.Total)

	updated, err = service.Update(ctx, "1", OrderPatch{Items: []OrderItemInput{{ProductID: "2", Quantity: 4}}})
	require.NoError(t, err)
	assert.Equal(t, 199.96, updated.Subtotal)
	assert.Equal(t, 10.0, updated.Tax)
	assert.Equal(t, 209.96, updated.Total)
	assert.Equal(t, "John Doe", updated.CustomerName)
	assert.Equal(t, "ORD-001", updated.OrderNumber)

	updated, err = service.Update(ctx, "1", OrderPatch{CustomerID: ptr("2")})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", updated.CustomerName)
}

func TestOrderService_RejectsBadInput(t *testing.T) {
	service, _ := newSeededOrderService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, OrderInput{Status: "shipped"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = service.Update(ctx, "1", OrderPatch{Status: ptr(domain.OrderStatus("lost"))})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = service.Create(ctx, OrderInput{Items: []OrderItemInput{{ProductID: "1", Quantity: -1}}})
	assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)

	_, err = service.Update(ctx, "missing", OrderPatch{})
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)

	assert.NoError(t, service.Delete(ctx, "missing"))
}

func TestOrderService_Quote(t *testing.T) {
	service, repos := newSeededOrderService(t)
	ctx := context.Background()

	quote, err := service.Quote(ctx, []QuoteLine{{ProductID: "1", Quantity: 2}, {ProductID: "2", Quantity: 1}, {ProductID: "nope", Quantity: 5}})
	require.NoError(t, err)
	require.Len(t, quote.Items, 3)
	assert.Equal(t, 649.97, quote.Subtotal)
	assert.Equal(t, 32.50, quote.Tax)
	assert.Equal(t, 682.47, quote.Total)
	assert.Zero(t, quote.Items[2].Total)

	empty, err := service.Quote(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, empty.Items, 1)
	assert.Zero(t, empty.Total)

	orders, err := repos.Orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

// Feature: localshop, Property 7: Stored orders always carry totals derived from their items
func TestProperty_OrderTotalsMatchItems(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("subtotal, tax and total follow the items on every save", prop.ForAll(
		func(q1, q2 int) bool {
			service, _ := newSeededOrderService(t)
			ctx := context.Background()

			order, err := service.Create(ctx, OrderInput{Items: []OrderItemInput{{ProductID: "1", Quantity: q1}}})
			if err != nil {
				return false
			}
			order, err = service.Update(ctx, order.ID, OrderPatch{Items: []OrderItemInput{{ProductID: "1", Quantity: q1}, {ProductID: "2", Quantity: q2}}})
			if err != nil {
				return false
			}

			sum := pricing.LineTotal(q1, 299.99).Add(pricing.LineTotal(q2, 49.99))
			tax := sum.Mul(decimal.NewFromFloat(pricing.DefaultTaxRate))
			return order.Subtotal == pricing.Round2(sum) &&
				order.Tax == pricing.Round2(tax) &&
				order.Total == pricing.Round2(sum.Add(tax))
		},
		gen.IntRange(0, 500),
		gen.IntRange(0, 500),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
