package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestTransactor_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		tx := &fakeTx{}
		tr := NewTransactor(&fakeBeginner{tx: tx})

		var got pgx.Tx
		err := tr.WithinTx(ctx, func(_ context.Context, tx pgx.Tx) error {
			got = tx
			return nil
		})
		require.NoError(t, err)
		assert.Same(t, tx, got)
		assert.True(t, tx.committed)
		assert.False(t, tx.rolledBack)
	})

	t.Run("rollback on error", func(t *testing.T) {
		tx := &fakeTx{}
		tr := NewTransactor(&fakeBeginner{tx: tx})
		boom := errors.New("boom")

		err := tr.WithinTx(ctx, func(context.Context, pgx.Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.False(t, tx.committed)
		assert.True(t, tx.rolledBack)
	})

	t.Run("begin error", func(t *testing.T) {
		boom := errors.New("no connection")
		tr := NewTransactor(&fakeBeginner{err: boom})

		called := false
		err := tr.WithinTx(ctx, func(context.Context, pgx.Tx) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, called)
	})
}
