package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bodega-pos/bodega/internal/catalog"
	"github.com/bodega-pos/bodega/internal/platform/db"
	"github.com/bodega-pos/bodega/internal/sales"
)

// Repository executes ledger transactions against PostgreSQL, binding the
// catalog and sales stores to one pgx transaction.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx executes the callback inside a repeatable-read transaction. Both
// stores passed to fn share the transaction, so a catalog write and a sale
// append commit or roll back together.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxStores) error) error {
	if r == nil {
		return errors.New("ledger repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		stores := TxStores{
			Catalog: catalog.NewRepository(tx),
			Sales:   sales.NewRepository(tx),
		}
		return fn(ctx, stores)
	})
}
