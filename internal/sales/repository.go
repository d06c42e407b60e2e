package sales

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists sale entries in PostgreSQL. Append-only: the core never
// updates or deletes a recorded sale.
type Repository struct {
	db DBTX
}

// NewRepository constructs Repository.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// Append stores one sale and returns its generated id.
func (r *Repository) Append(ctx context.Context, s Sale) (int64, error) {
	query := `INSERT INTO sales (product_id, quantity, total, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, s.ProductID, s.Quantity, s.Total, s.CreatedAt).Scan(&id)
	return id, err
}

// ListAll returns every sale, oldest first.
func (r *Repository) ListAll(ctx context.Context) ([]Sale, error) {
	rows, err := r.db.Query(ctx, `SELECT id, product_id, quantity, total, created_at FROM sales ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Quantity, &s.Total, &s.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, s)
	}
	return entries, rows.Err()
}
