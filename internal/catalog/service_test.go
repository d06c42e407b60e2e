package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	products []Product
}

func (m *memoryStore) GetByID(ctx context.Context, id int64) (Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (m *memoryStore) ListAll(ctx context.Context) ([]Product, error) {
	return m.products, nil
}

func (m *memoryStore) ListByCategory(ctx context.Context, category string) ([]ProductRef, error) {
	var refs []ProductRef
	for _, p := range m.products {
		if p.Category == category {
			refs = append(refs, ProductRef{ID: p.ID, Name: p.Name})
		}
	}
	return refs, nil
}

func TestStockStatusFlagsLowStock(t *testing.T) {
	store := &memoryStore{products: []Product{
		{ID: 1, Name: "Apple", Category: "Fruit", Quantity: 2},
		{ID: 2, Name: "Tuna", Category: "Fish", Quantity: 9},
	}}
	svc := NewService(store, 5)

	statuses, err := svc.StockStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	require.True(t, statuses[0].LowStock)
	require.False(t, statuses[1].LowStock)
}

func TestLowStockReturnsOnlyFlagged(t *testing.T) {
	store := &memoryStore{products: []Product{
		{ID: 1, Name: "Apple", Quantity: 2},
		{ID: 2, Name: "Tuna", Quantity: 9},
		{ID: 3, Name: "Milk", Quantity: 4},
	}}
	svc := NewService(store, 5)

	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
}

func TestListByCategoryTrimsInput(t *testing.T) {
	store := &memoryStore{products: []Product{
		{ID: 1, Name: "Apple", Category: "Fruit", Quantity: 2},
		{ID: 2, Name: "Tuna", Category: "Fish", Quantity: 9},
	}}
	svc := NewService(store, 0)

	refs, err := svc.ListByCategory(context.Background(), "  Fruit ")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "Apple", refs[0].Name)
}
