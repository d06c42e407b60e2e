package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same repository
// runs standalone reads and ledger-transaction work.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists catalog records in PostgreSQL.
type Repository struct {
	db DBTX
}

// NewRepository constructs Repository.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

const productColumns = `id, name, category, cost, profit_margin, price, quantity, created_at, updated_at`

// GetByKey fetches a product by its (name, category) natural key.
func (r *Repository) GetByKey(ctx context.Context, name, category string) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = $1 AND category = $2`
	return r.scanOne(r.db.QueryRow(ctx, query, name, category))
}

// GetByKeyForUpdate fetches by natural key holding a row lock. Meant to run
// inside a ledger transaction.
func (r *Repository) GetByKeyForUpdate(ctx context.Context, name, category string) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = $1 AND category = $2 FOR UPDATE`
	return r.scanOne(r.db.QueryRow(ctx, query, name, category))
}

// GetByID fetches a product by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches by id holding a row lock.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// Insert stores a new product and returns its generated id.
func (r *Repository) Insert(ctx context.Context, p Product) (int64, error) {
	query := `INSERT INTO products (name, category, cost, profit_margin, price, quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, p.Name, p.Category, p.Cost, p.ProfitMargin, p.Price, p.Quantity, time.Now().UTC()).Scan(&id)
	return id, err
}

// Update overwrites the mutable fields of an existing product.
func (r *Repository) Update(ctx context.Context, p Product) error {
	query := `UPDATE products SET cost = $1, profit_margin = $2, price = $3, quantity = $4, updated_at = $5 WHERE id = $6`
	tag, err := r.db.Exec(ctx, query, p.Cost, p.ProfitMargin, p.Price, p.Quantity, time.Now().UTC(), p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product. Missing rows are not an error; delete is
// idempotent and never touches sales history.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

// ListByCategory returns (id, name) pairs for one category, name ascending.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]ProductRef, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM products WHERE category = $1 ORDER BY name`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []ProductRef
	for rows.Next() {
		var ref ProductRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ListAll returns every catalog record, name ascending.
func (r *Repository) ListAll(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Cost, &p.ProfitMargin, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *Repository) scanOne(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Cost, &p.ProfitMargin, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}
