package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bodega-pos/bodega/internal/catalog"
	"github.com/bodega-pos/bodega/internal/sales"
	"github.com/bodega-pos/bodega/internal/shared"
)

// CatalogStore is the slice of the catalog contract the engine mutates.
type CatalogStore interface {
	GetByKeyForUpdate(ctx context.Context, name, category string) (catalog.Product, error)
	GetByIDForUpdate(ctx context.Context, id int64) (catalog.Product, error)
	Insert(ctx context.Context, p catalog.Product) (int64, error)
	Update(ctx context.Context, p catalog.Product) error
	Delete(ctx context.Context, id int64) error
}

// SalesStore is the append-only sales contract the engine writes to.
type SalesStore interface {
	Append(ctx context.Context, s sales.Sale) (int64, error)
}

// TxStores bundles the two stores bound to one transaction. The catalog
// write and the sale append of a single operation always commit together.
type TxStores struct {
	Catalog CatalogStore
	Sales   SalesStore
}

// RepositoryPort abstracts transactional store access for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxStores) error) error
}

// CachePort invalidates derived analytics after a mutation.
type CachePort interface {
	Bump(ctx context.Context) error
}

// Service owns the inventory-and-sale business rules.
type Service struct {
	repo        RepositoryPort
	idempotency *shared.IdempotencyStore
	cache       CachePort
	clock       func() time.Time
}

// NewService builds Service. idem and cache may be nil.
func NewService(repo RepositoryPort, idem *shared.IdempotencyStore, cache CachePort) *Service {
	return &Service{
		repo:        repo,
		idempotency: idem,
		cache:       cache,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// UpsertStock merges new stock into the catalog. An existing (name, category)
// record accumulates quantity and takes the new cost, margin and derived
// price; otherwise a new product is created.
func (s *Service) UpsertStock(ctx context.Context, input IntakeInput) (IntakeResult, error) {
	// The merge identity is the trimmed pair; " Apple" and "Apple" are the
	// same product.
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	if input.Name == "" || input.Category == "" {
		return IntakeResult{}, errors.New("ledger: name and category required")
	}
	if input.Quantity <= 0 {
		return IntakeResult{}, ErrInvalidQuantity
	}
	if input.Cost < 0 {
		return IntakeResult{}, ErrInvalidCost
	}
	if input.ProfitMargin < 0 || input.ProfitMargin > 100 {
		return IntakeResult{}, ErrInvalidMargin
	}

	price := input.Cost * (1 + input.ProfitMargin/100)

	var productID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxStores) error {
		existing, err := tx.Catalog.GetByKeyForUpdate(ctx, input.Name, input.Category)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			return err
		}
		if errors.Is(err, catalog.ErrNotFound) {
			productID, err = tx.Catalog.Insert(ctx, catalog.Product{
				Name:         input.Name,
				Category:     input.Category,
				Cost:         input.Cost,
				ProfitMargin: input.ProfitMargin,
				Price:        price,
				Quantity:     input.Quantity,
			})
			return err
		}
		existing.Quantity += input.Quantity
		existing.Cost = input.Cost
		existing.ProfitMargin = input.ProfitMargin
		existing.Price = price
		productID = existing.ID
		return tx.Catalog.Update(ctx, existing)
	})
	if err != nil {
		return IntakeResult{}, err
	}
	s.bump(ctx)
	return IntakeResult{ProductID: productID, Price: price}, nil
}

// DeleteProduct removes a product. Deleting a missing product is a no-op;
// sales referencing the id stay behind as orphaned history.
func (s *Service) DeleteProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return errors.New("ledger: product id required")
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxStores) error {
		return tx.Catalog.Delete(ctx, productID)
	})
	if err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

// RecordSale sells input.Quantity units of a product. The stock decrement and
// the sale append happen in one transaction; a sale that would drive stock
// negative is rejected whole, with no partial fulfilment.
func (s *Service) RecordSale(ctx context.Context, input SaleInput) (SaleResult, error) {
	if input.Quantity <= 0 {
		return SaleResult{}, ErrInvalidQuantity
	}
	if input.ProductID <= 0 {
		return SaleResult{}, errors.New("ledger: product id required")
	}

	insertedKey := false
	if input.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, input.IdempotencyKey, "ledger"); err != nil {
			return SaleResult{}, err
		}
		insertedKey = true
	}

	var result SaleResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxStores) error {
		product, err := tx.Catalog.GetByIDForUpdate(ctx, input.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			result = SaleResult{Accepted: false}
			return nil
		}
		if err != nil {
			return err
		}
		if product.Quantity < input.Quantity {
			result = SaleResult{Accepted: false}
			return nil
		}

		total := float64(input.Quantity) * product.Price
		profit := float64(input.Quantity) * (product.Price - product.Cost)

		product.Quantity -= input.Quantity
		if err := tx.Catalog.Update(ctx, product); err != nil {
			return err
		}
		saleID, err := tx.Sales.Append(ctx, sales.Sale{
			ProductID: input.ProductID,
			Quantity:  input.Quantity,
			Total:     total,
			CreatedAt: s.clock(),
		})
		if err != nil {
			return err
		}
		result = SaleResult{Accepted: true, SaleID: saleID, Total: total, Profit: profit}
		return nil
	})
	if err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, input.IdempotencyKey)
		}
		return SaleResult{}, err
	}
	if !result.Accepted && insertedKey {
		// A rejected sale should not burn the key; the caller may retry
		// after restocking.
		_ = s.idempotency.Delete(ctx, input.IdempotencyKey)
	}
	if result.Accepted {
		s.bump(ctx)
	}
	return result, nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Bump(ctx)
	}
}
