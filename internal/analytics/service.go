package analytics

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/singleflight"
)

// RepositoryPort exposes the aggregation queries the service relies on.
type RepositoryPort interface {
	NetProfit(ctx context.Context) (float64, error)
	DailyProfit(ctx context.Context) ([]DailyPoint, error)
	DailySales(ctx context.Context) ([]DailyPoint, error)
	TopProducts(ctx context.Context) ([]ProductSales, error)
}

// Service coordinates analytics query execution with the cache layer. All
// queries are pure reads over a point-in-time view of the stores; they never
// mutate state and can be recomputed freely.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	group singleflight.Group
}

// NewService wires a RepositoryPort with a Cache helper. cache may be nil, in
// which case every call recomputes.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// NetProfit returns total profit across all sales, joined to each product's
// current cost. Orphaned sales contribute zero.
func (s *Service) NetProfit(ctx context.Context) (float64, error) {
	var net float64
	err := s.fetch(ctx, keyNetProfit(), &net, func(ctx context.Context) (interface{}, error) {
		return s.repo.NetProfit(ctx)
	})
	return net, err
}

// DailyProfit returns the profit series grouped by calendar date, ascending.
func (s *Service) DailyProfit(ctx context.Context) ([]DailyPoint, error) {
	var points []DailyPoint
	err := s.fetch(ctx, keyDaily("profit"), &points, func(ctx context.Context) (interface{}, error) {
		return s.repo.DailyProfit(ctx)
	})
	return points, err
}

// DailySales returns the revenue series grouped by calendar date, ascending.
func (s *Service) DailySales(ctx context.Context) ([]DailyPoint, error) {
	var points []DailyPoint
	err := s.fetch(ctx, keyDaily("sales"), &points, func(ctx context.Context) (interface{}, error) {
		return s.repo.DailySales(ctx)
	})
	return points, err
}

// TopProducts returns products ranked by units sold.
func (s *Service) TopProducts(ctx context.Context) ([]ProductSales, error) {
	var ranking []ProductSales
	err := s.fetch(ctx, keyTopProducts(), &ranking, func(ctx context.Context) (interface{}, error) {
		return s.repo.TopProducts(ctx)
	})
	return ranking, err
}

// fetch resolves one metric through the versioned cache, collapsing
// concurrent recomputes of the same key.
func (s *Service) fetch(ctx context.Context, keyBase string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return assign(dest, value)
	}
	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return err
	}
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		var payload json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &payload, loader); err != nil {
			return nil, err
		}
		return payload, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(value.(json.RawMessage), dest)
}

func assign(dest, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
