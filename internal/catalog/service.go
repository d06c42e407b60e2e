package catalog

import (
	"context"
	"strings"
)

// StorePort abstracts catalog reads for the service.
type StorePort interface {
	GetByID(ctx context.Context, id int64) (Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]ProductRef, error)
}

// Service serves catalog listing and stock status views.
type Service struct {
	store             StorePort
	lowStockThreshold int64
}

// NewService builds Service. A non-positive threshold falls back to 5, the
// level the store treats as "running low".
func NewService(store StorePort, lowStockThreshold int64) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = 5
	}
	return &Service{store: store, lowStockThreshold: lowStockThreshold}
}

// List returns all products, or the (id, name) pairs of one category when
// category is non-empty.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.store.ListAll(ctx)
}

// Get returns one product by id. Missing products surface as ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	return s.store.GetByID(ctx, id)
}

// ListByCategory returns the products of one category for pickers.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]ProductRef, error) {
	return s.store.ListByCategory(ctx, strings.TrimSpace(category))
}

// StockStatus returns every product annotated with its low-stock flag.
func (s *Service) StockStatus(ctx context.Context) ([]StockStatus, error) {
	products, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	statuses := make([]StockStatus, 0, len(products))
	for _, p := range products {
		statuses = append(statuses, StockStatus{Product: p, LowStock: p.Quantity < s.lowStockThreshold})
	}
	return statuses, nil
}

// LowStock returns only the products below the threshold.
func (s *Service) LowStock(ctx context.Context) ([]Product, error) {
	products, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var low []Product
	for _, p := range products {
		if p.Quantity < s.lowStockThreshold {
			low = append(low, p)
		}
	}
	return low, nil
}
