package analytics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs read-only aggregations over the sales and catalog stores.
//
// Profit joins each sale to its product's current cost, not the cost at sale
// time. Sales whose product has been deleted contribute zero profit but still
// count toward revenue.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NetProfit sums (total - quantity * current cost) over all sales.
func (r *Repository) NetProfit(ctx context.Context) (float64, error) {
	const query = `
SELECT COALESCE(SUM(CASE WHEN p.id IS NULL THEN 0 ELSE s.total - s.quantity * p.cost END), 0)
FROM sales s
LEFT JOIN products p ON p.id = s.product_id`
	var net float64
	err := r.pool.QueryRow(ctx, query).Scan(&net)
	return net, err
}

// DailyProfit buckets profit by UTC calendar date, ascending.
func (r *Repository) DailyProfit(ctx context.Context) ([]DailyPoint, error) {
	const query = `
SELECT to_char((s.created_at AT TIME ZONE 'UTC')::date, 'YYYY-MM-DD') AS day,
       COALESCE(SUM(CASE WHEN p.id IS NULL THEN 0 ELSE s.total - s.quantity * p.cost END), 0) AS profit
FROM sales s
LEFT JOIN products p ON p.id = s.product_id
GROUP BY (s.created_at AT TIME ZONE 'UTC')::date
ORDER BY (s.created_at AT TIME ZONE 'UTC')::date`
	return r.queryDaily(ctx, query)
}

// DailySales buckets revenue by UTC calendar date, ascending. Orphaned sales keep
// their frozen totals.
func (r *Repository) DailySales(ctx context.Context) ([]DailyPoint, error) {
	const query = `
SELECT to_char((s.created_at AT TIME ZONE 'UTC')::date, 'YYYY-MM-DD') AS day,
       COALESCE(SUM(s.total), 0) AS revenue
FROM sales s
GROUP BY (s.created_at AT TIME ZONE 'UTC')::date
ORDER BY (s.created_at AT TIME ZONE 'UTC')::date`
	return r.queryDaily(ctx, query)
}

// TopProducts ranks products by units sold, most sold first. Deleted products
// drop out of the ranking.
func (r *Repository) TopProducts(ctx context.Context) ([]ProductSales, error) {
	const query = `
SELECT s.product_id, p.name, SUM(s.quantity) AS units
FROM sales s
JOIN products p ON p.id = s.product_id
GROUP BY s.product_id, p.name
ORDER BY units DESC, p.name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranking []ProductSales
	for rows.Next() {
		var ps ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.Name, &ps.Units); err != nil {
			return nil, err
		}
		ranking = append(ranking, ps)
	}
	return ranking, rows.Err()
}

func (r *Repository) queryDaily(ctx context.Context, query string) ([]DailyPoint, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []DailyPoint
	for rows.Next() {
		var p DailyPoint
		if err := rows.Scan(&p.Day, &p.Value); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
