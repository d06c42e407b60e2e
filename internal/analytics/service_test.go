package analytics

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	netProfit      float64
	netProfitCalls int
	dailyProfit    []DailyPoint
	dailySales     []DailyPoint
	topProducts    []ProductSales
	dailyCalls     int
	topCalls       int
}

func (m *mockRepo) NetProfit(ctx context.Context) (float64, error) {
	m.netProfitCalls++
	return m.netProfit, nil
}

func (m *mockRepo) DailyProfit(ctx context.Context) ([]DailyPoint, error) {
	m.dailyCalls++
	return m.dailyProfit, nil
}

func (m *mockRepo) DailySales(ctx context.Context) ([]DailyPoint, error) {
	m.dailyCalls++
	return m.dailySales, nil
}

func (m *mockRepo) TopProducts(ctx context.Context) ([]ProductSales, error) {
	m.topCalls++
	return m.topProducts, nil
}

func newTestService(t *testing.T, repo RepositoryPort) (*Service, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	return NewService(repo, cache), cache
}

func TestNetProfitIsCachedAndDeterministic(t *testing.T) {
	repo := &mockRepo{netProfit: 125.5}
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	first, err := svc.NetProfit(ctx)
	require.NoError(t, err)
	require.InDelta(t, 125.5, first, 0.0001)

	second, err := svc.NetProfit(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.netProfitCalls)
}

func TestBumpInvalidatesCachedMetrics(t *testing.T) {
	repo := &mockRepo{netProfit: 100}
	svc, cache := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.NetProfit(ctx)
	require.NoError(t, err)

	repo.netProfit = 175
	require.NoError(t, cache.Bump(ctx))

	net, err := svc.NetProfit(ctx)
	require.NoError(t, err)
	require.InDelta(t, 175.0, net, 0.0001)
	require.Equal(t, 2, repo.netProfitCalls)
}

func TestDailySeriesRoundTrip(t *testing.T) {
	repo := &mockRepo{
		dailyProfit: []DailyPoint{{Day: "2025-08-14", Value: 25}, {Day: "2025-08-15", Value: 40}},
		dailySales:  []DailyPoint{{Day: "2025-08-14", Value: 75}, {Day: "2025-08-15", Value: 120}},
	}
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	profit, err := svc.DailyProfit(ctx)
	require.NoError(t, err)
	require.Equal(t, repo.dailyProfit, profit)

	sales, err := svc.DailySales(ctx)
	require.NoError(t, err)
	require.Equal(t, repo.dailySales, sales)
}

func TestTopProductsRanking(t *testing.T) {
	repo := &mockRepo{
		topProducts: []ProductSales{
			{ProductID: 2, Name: "Apple", Units: 12},
			{ProductID: 1, Name: "Tuna", Units: 3},
		},
	}
	svc, _ := newTestService(t, repo)

	ranking, err := svc.TopProducts(context.Background())
	require.NoError(t, err)
	require.Equal(t, repo.topProducts, ranking)
}

func TestServiceWorksWithoutCache(t *testing.T) {
	repo := &mockRepo{netProfit: 50}
	svc := NewService(repo, nil)

	net, err := svc.NetProfit(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 50.0, net, 0.0001)

	_, err = svc.NetProfit(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.netProfitCalls)
}

func TestCacheWithoutClientRecomputesEveryRead(t *testing.T) {
	repo := &mockRepo{netProfit: 80}
	svc := NewService(repo, NewCache(nil, time.Minute))
	ctx := context.Background()

	net, err := svc.NetProfit(ctx)
	require.NoError(t, err)
	require.InDelta(t, 80.0, net, 0.0001)

	repo.netProfit = 95
	net, err = svc.NetProfit(ctx)
	require.NoError(t, err)
	require.InDelta(t, 95.0, net, 0.0001)
	require.Equal(t, 2, repo.netProfitCalls)
}
