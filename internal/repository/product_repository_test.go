package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localshop/internal/domain"
)

func TestNormalizeProductFilter(t *testing.T) {
	got := NormalizeProductFilter(ProductFilter{SortBy: "price; DROP TABLE products", SortOrder: "sideways", Search: "  phone "})
	assert.Equal(t, "created_at", got.SortBy)
	assert.Equal(t, SortOrderAsc, got.SortOrder)
	assert.Equal(t, "phone", got.Search)

	kept := NormalizeProductFilter(ProductFilter{SortBy: "stock", SortOrder: SortOrderDesc})
	assert.Equal(t, "stock", kept.SortBy)
	assert.Equal(t, SortOrderDesc, kept.SortOrder)
}

// Feature: localshop, Property 1: Product creation preserves attributes
func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	requireDB(t)
	repo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name, sku, description string, cents int, stock int) bool {
			ctx := context.Background()
			now := time.Now().UTC().Truncate(time.Microsecond)

			product := &domain.Product{
				ID:          uuid.NewString(),
				Name:        name,
				SKU:         sku,
				Category:    "Electronics",
				Price:       float64(cents) / 100,
				Stock:       stock,
				Description: description,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			if err := repo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}
			defer repo.Delete(ctx, product.ID)

			retrieved, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != product.Name || retrieved.SKU != product.SKU || retrieved.Description != product.Description {
				t.Logf("FAIL: text mismatch. Expected %+v, got %+v", product, retrieved)
				return false
			}

			if math.Abs(retrieved.Price-product.Price) > 0.001 {
				t.Logf("FAIL: Price mismatch. Expected %f, got %f", product.Price, retrieved.Price)
				return false
			}

			if retrieved.Stock != product.Stock {
				t.Logf("FAIL: Stock mismatch. Expected %d, got %d", product.Stock, retrieved.Stock)
				return false
			}

			return !retrieved.CreatedAt.IsZero() && !retrieved.UpdatedAt.IsZero()
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),      // name
		gen.RegexMatch(`SKU[0-9]{3,6}`),           // sku
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{0,200}`), // description
		gen.IntRange(0, 999999),                   // price in cents
		gen.IntRange(0, 1000),                     // stock (non-negative)
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: localshop, Property 2: Product updates are reflected
func TestProperty_ProductUpdatesAreReflected(t *testing.T) {
	requireDB(t)
	repo := NewProductRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("updating a product and retrieving it shows the updated values", prop.ForAll(
		func(name1, name2 string, stock1, stock2 int) bool {
			ctx := context.Background()

			product := &domain.Product{
				ID:        uuid.NewString(),
				Name:      name1,
				Price:     10,
				Stock:     stock1,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if err := repo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}
			defer repo.Delete(ctx, product.ID)

			product.Name = name2
			product.Stock = stock2
			product.UpdatedAt = time.Now()
			if err := repo.Update(ctx, product); err != nil {
				t.Logf("FAIL: Failed to update product: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			return retrieved.Name == name2 && retrieved.Stock == stock2
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepository_ListFiltersAndMissingRows(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewProductRepository(testDB)
	category := "cat-" + uuid.NewString()

	for i, name := range []string{"Walnut Desk", "Oak Chair", "Walnut Shelf"} {
		p := &domain.Product{
			ID:        uuid.NewString(),
			Name:      name,
			Category:  category,
			Price:     float64(100 - i),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, repo.Create(ctx, p))
		t.Cleanup(func() { repo.Delete(context.Background(), p.ID) })
	}

	walnut, err := repo.List(ctx, ProductFilter{Category: category, Search: "walnut", SortBy: "price", SortOrder: SortOrderAsc})
	require.NoError(t, err)
	require.Len(t, walnut, 2)
	assert.Equal(t, "Walnut Shelf", walnut[0].Name)
	assert.Equal(t, "Walnut Desk", walnut[1].Name)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString()), ErrProductNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Product{ID: uuid.NewString()}), ErrProductNotFound)
}
