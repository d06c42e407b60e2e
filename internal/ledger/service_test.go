package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bodega-pos/bodega/internal/catalog"
	"github.com/bodega-pos/bodega/internal/sales"
)

type memoryRepo struct {
	products map[int64]catalog.Product
	sales    []sales.Sale
	nextID   int64
	saleID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]catalog.Product)}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxStores) error) error {
	return fn(ctx, TxStores{Catalog: (*memoryCatalog)(m), Sales: (*memorySales)(m)})
}

type memoryCatalog memoryRepo

func (m *memoryCatalog) GetByKeyForUpdate(ctx context.Context, name, category string) (catalog.Product, error) {
	for _, p := range m.products {
		if p.Name == name && p.Category == category {
			return p, nil
		}
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (m *memoryCatalog) GetByIDForUpdate(ctx context.Context, id int64) (catalog.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return catalog.Product{}, catalog.ErrNotFound
}

func (m *memoryCatalog) Insert(ctx context.Context, p catalog.Product) (int64, error) {
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = p
	return p.ID, nil
}

func (m *memoryCatalog) Update(ctx context.Context, p catalog.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return catalog.ErrNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *memoryCatalog) Delete(ctx context.Context, id int64) error {
	delete(m.products, id)
	return nil
}

type memorySales memoryRepo

func (m *memorySales) Append(ctx context.Context, s sales.Sale) (int64, error) {
	m.saleID++
	s.ID = m.saleID
	m.sales = append(m.sales, s)
	return s.ID, nil
}

func TestUpsertStockDerivesPriceAndMerges(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	first, err := svc.UpsertStock(ctx, IntakeInput{Name: "Rice", Category: "Canned", Cost: 10, ProfitMargin: 20, Quantity: 5})
	require.NoError(t, err)
	require.InDelta(t, 12.0, first.Price, 0.0001)

	second, err := svc.UpsertStock(ctx, IntakeInput{Name: "Rice", Category: "Canned", Cost: 12, ProfitMargin: 25, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, first.ProductID, second.ProductID)
	require.InDelta(t, 15.0, second.Price, 0.0001)

	require.Len(t, repo.products, 1)
	p := repo.products[first.ProductID]
	require.EqualValues(t, 8, p.Quantity)
	require.InDelta(t, 12.0, p.Cost, 0.0001)
	require.InDelta(t, 25.0, p.ProfitMargin, 0.0001)
	require.InDelta(t, 15.0, p.Price, 0.0001)
}

func TestUpsertStockRejectsInvalidInput(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	_, err := svc.UpsertStock(ctx, IntakeInput{Name: "Milk", Category: "Drinks", Cost: 10, Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpsertStock(ctx, IntakeInput{Name: "Milk", Category: "Drinks", Cost: -1, Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidCost)

	_, err = svc.UpsertStock(ctx, IntakeInput{Name: "Milk", Category: "Drinks", Cost: 10, ProfitMargin: 120, Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidMargin)
}

func TestRecordSaleDecrementsAndFreezesTotal(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	soldAt := time.Date(2025, 8, 14, 10, 30, 0, 0, time.UTC)
	svc.clock = func() time.Time { return soldAt }
	ctx := context.Background()

	intake, err := svc.UpsertStock(ctx, IntakeInput{Name: "Apple", Category: "Fruit", Cost: 10, ProfitMargin: 50, Quantity: 20})
	require.NoError(t, err)
	require.InDelta(t, 15.0, intake.Price, 0.0001)

	result, err := svc.RecordSale(ctx, SaleInput{ProductID: intake.ProductID, Quantity: 5})
	require.NoError(t, err)
	require.True(t, result.Accepted)
	require.InDelta(t, 75.0, result.Total, 0.0001)
	require.InDelta(t, 25.0, result.Profit, 0.0001)
	require.EqualValues(t, 15, repo.products[intake.ProductID].Quantity)

	require.Len(t, repo.sales, 1)
	sale := repo.sales[0]
	require.Equal(t, intake.ProductID, sale.ProductID)
	require.EqualValues(t, 5, sale.Quantity)
	require.InDelta(t, 75.0, sale.Total, 0.0001)
	require.Equal(t, soldAt, sale.CreatedAt)
}

func TestRecordSaleRejectsInsufficientStock(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	intake, err := svc.UpsertStock(ctx, IntakeInput{Name: "Apple", Category: "Fruit", Cost: 10, ProfitMargin: 50, Quantity: 20})
	require.NoError(t, err)

	accepted, err := svc.RecordSale(ctx, SaleInput{ProductID: intake.ProductID, Quantity: 5})
	require.NoError(t, err)
	require.True(t, accepted.Accepted)

	rejected, err := svc.RecordSale(ctx, SaleInput{ProductID: intake.ProductID, Quantity: 20})
	require.NoError(t, err)
	require.False(t, rejected.Accepted)
	require.Zero(t, rejected.Total)
	require.Zero(t, rejected.Profit)

	// Stock unchanged, no sale appended.
	require.EqualValues(t, 15, repo.products[intake.ProductID].Quantity)
	require.Len(t, repo.sales, 1)
}

func TestRecordSaleUnknownProduct(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	result, err := svc.RecordSale(context.Background(), SaleInput{ProductID: 42, Quantity: 1})
	require.NoError(t, err)
	require.False(t, result.Accepted)
}

func TestRecordSaleRejectsInvalidQuantity(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)

	_, err := svc.RecordSale(context.Background(), SaleInput{ProductID: 1, Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestDeleteProductIsIdempotentAndKeepsHistory(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	intake, err := svc.UpsertStock(ctx, IntakeInput{Name: "Tuna", Category: "Fish", Cost: 30, ProfitMargin: 10, Quantity: 4})
	require.NoError(t, err)

	result, err := svc.RecordSale(ctx, SaleInput{ProductID: intake.ProductID, Quantity: 2})
	require.NoError(t, err)
	require.True(t, result.Accepted)

	require.NoError(t, svc.DeleteProduct(ctx, intake.ProductID))
	require.NoError(t, svc.DeleteProduct(ctx, intake.ProductID))

	require.Empty(t, repo.products)
	require.Len(t, repo.sales, 1)
}

func TestUpsertStockTrimsMergeIdentity(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	first, err := svc.UpsertStock(ctx, IntakeInput{Name: "Apple", Category: "Fruit", Cost: 10, ProfitMargin: 50, Quantity: 5})
	require.NoError(t, err)

	second, err := svc.UpsertStock(ctx, IntakeInput{Name: " Apple ", Category: " Fruit", Cost: 10, ProfitMargin: 50, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, first.ProductID, second.ProductID)

	require.Len(t, repo.products, 1)
	require.EqualValues(t, 8, repo.products[first.ProductID].Quantity)

	_, err = svc.UpsertStock(ctx, IntakeInput{Name: "   ", Category: "Fruit", Cost: 1, Quantity: 1})
	require.Error(t, err)
}
