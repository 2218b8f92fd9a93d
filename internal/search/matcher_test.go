package search

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

func TestMatch_CaseInsensitiveOnNameAndDescription(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Denim Jacket", Description: "Classic blue denim"},
		{ID: "2", Name: "Wool Sweater", Description: "Warm knit for winter"},
	}

	byName := Match(products, "DENIM")
	require.Len(t, byName, 1)
	assert.Equal(t, "1", byName[0].ID)

	byDescription := Match(products, "winter")
	require.Len(t, byDescription, 1)
	assert.Equal(t, "2", byDescription[0].ID)

	assert.Empty(t, Match(products, "velvet"))
}

func TestMatch_BlankQueryMatchesNothing(t *testing.T) {
	products := []domain.Product{{ID: "1", Name: "Denim Jacket"}}

	assert.Nil(t, Match(products, ""))
	assert.Nil(t, Match(products, "   "))
}

func TestMatch_CapsResultsAndKeepsInputOrder(t *testing.T) {
	products := make([]domain.Product, 10)
	for i := range products {
		products[i] = domain.Product{ID: fmt.Sprintf("%d", i), Name: fmt.Sprintf("Basic Tee %d", i)}
	}

	result := Match(products, "tee")

	require.Len(t, result, 6)
	for i, p := range result {
		assert.Equal(t, fmt.Sprintf("%d", i), p.ID)
	}
}

func TestSearch_BlankQuerySkipsStore(t *testing.T) {
	mem := store.NewMemoryRecords(store.ProductIdentity())
	// Any store access would trip this.
	mem.FailNext = errors.New("store must not be called")
	svc := NewService(mem, nil)

	results, err := svc.Search(context.Background(), "  ")

	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestSearch_MatchesAgainstStore(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryRecords(store.ProductIdentity())
	_, err := mem.Create(ctx, domain.Product{ID: "1", Name: "Linen Shirt"})
	require.NoError(t, err)
	_, err = mem.Create(ctx, domain.Product{ID: "2", Name: "Denim Jacket"})
	require.NoError(t, err)

	svc := NewService(mem, nil)

	results, err := svc.Search(ctx, "linen")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].ID)
}

func TestSearch_StoreFailure(t *testing.T) {
	mem := store.NewMemoryRecords(store.ProductIdentity())
	mem.FailNext = errors.New("store unavailable")
	svc := NewService(mem, nil)

	_, err := svc.Search(context.Background(), "linen")
	assert.Error(t, err)
}
