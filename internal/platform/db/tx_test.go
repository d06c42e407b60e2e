package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type recordingTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *recordingTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *recordingTx) Rollback(ctx context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

type recordingBeginner struct {
	tx   *recordingTx
	opts pgx.TxOptions
}

func (b *recordingBeginner) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	b.opts = opts
	return b.tx, nil
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	beginner := &recordingBeginner{tx: &recordingTx{}}

	err := WithTx(context.Background(), beginner, func(tx pgx.Tx) error {
		return nil
	})
	require.NoError(t, err)
	require.True(t, beginner.tx.committed)
	require.False(t, beginner.tx.rolledBack)
	require.Equal(t, pgx.RepeatableRead, beginner.opts.IsoLevel)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	beginner := &recordingBeginner{tx: &recordingTx{}}
	boom := errors.New("boom")

	err := WithTx(context.Background(), beginner, func(tx pgx.Tx) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.False(t, beginner.tx.committed)
	require.True(t, beginner.tx.rolledBack)
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	beginner := &recordingBeginner{tx: &recordingTx{}}

	require.Panics(t, func() {
		_ = WithTx(context.Background(), beginner, func(tx pgx.Tx) error {
			panic("handler blew up")
		})
	})
	require.False(t, beginner.tx.committed)
	require.True(t, beginner.tx.rolledBack)
}
