package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/stylehub/internal/domain"
	"github.com/fjod/stylehub/internal/store"
)

func newTestService(t *testing.T, products ...domain.Product) (*Service, *store.MemoryRecords[domain.Product]) {
	t.Helper()
	ctx := context.Background()

	mem := store.NewMemoryRecords(store.ProductIdentity())
	for _, p := range products {
		_, err := mem.Create(ctx, p)
		require.NoError(t, err)
	}

	categories := store.NewMemoryRecords(store.CategoryIdentity())
	for _, c := range []domain.Category{
		{ID: "c1", Name: "Men", Slug: "men"},
		{ID: "c2", Name: "Women", Slug: "women"},
	} {
		_, err := categories.Create(ctx, c)
		require.NoError(t, err)
	}

	return NewService(mem, categories), mem
}

func TestBrowse_FiltersAndSorts(t *testing.T) {
	svc, _ := newTestService(t, fixtureProducts()...)

	spec := domain.DefaultFilterSpec()
	spec.Categories = []string{"men"}

	result, err := svc.Browse(context.Background(), spec, "", SortByPriceDesc)

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Linen Shirt", result[0].Name)
	assert.Equal(t, "Zebra Tee", result[1].Name)
}

func TestBrowse_StoreFailure(t *testing.T) {
	svc, mem := newTestService(t, fixtureProducts()...)
	mem.FailNext = errors.New("store unavailable")

	_, err := svc.Browse(context.Background(), domain.DefaultFilterSpec(), "", SortByName)
	assert.Error(t, err)
}

func TestListByCategory(t *testing.T) {
	svc, _ := newTestService(t, fixtureProducts()...)
	ctx := context.Background()

	men, err := svc.ListByCategory(ctx, "men")
	require.NoError(t, err)
	assert.Len(t, men, 2)

	// Slug matching is case-insensitive.
	upper, err := svc.ListByCategory(ctx, "MEN")
	require.NoError(t, err)
	assert.Len(t, upper, 2)

	// "all" is the virtual everything-category.
	all, err := svc.ListByCategory(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := svc.ListByCategory(ctx, "shoes")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFeatured(t *testing.T) {
	products := fixtureProducts()
	products[0].Featured = true
	products[3].Featured = true
	svc, _ := newTestService(t, products...)

	featured, err := svc.Featured(context.Background())

	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, "1", featured[0].ID)
	assert.Equal(t, "4", featured[1].ID)
}

func TestGet_UnknownIsNilNotError(t *testing.T) {
	svc, _ := newTestService(t, fixtureProducts()...)
	ctx := context.Background()

	p, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Zebra Tee", p.Name)

	missing, err := svc.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRelated_SameCategoryExcludingSelf(t *testing.T) {
	svc, _ := newTestService(t, fixtureProducts()...)

	related, err := svc.Related(context.Background(), "1")

	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "3", related[0].ID)
}

func TestRelated_CappedAtFour(t *testing.T) {
	products := []domain.Product{{ID: "p0", Name: "Anchor", Category: "men"}}
	for i := 1; i <= 6; i++ {
		products = append(products, domain.Product{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Tee %d", i), Category: "men"})
	}
	svc, _ := newTestService(t, products...)

	related, err := svc.Related(context.Background(), "p0")

	require.NoError(t, err)
	assert.Len(t, related, 4)
}

func TestRelated_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t, fixtureProducts()...)

	related, err := svc.Related(context.Background(), "nope")

	require.NoError(t, err)
	assert.Nil(t, related)
}

func TestCategories(t *testing.T) {
	svc, _ := newTestService(t)

	categories, err := svc.Categories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "men", categories[0].Slug)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "men", Slugify("Men"))
	assert.Equal(t, "new-arrivals", Slugify("  New   Arrivals "))
	assert.Equal(t, "", Slugify("   "))
}
