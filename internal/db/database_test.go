package db

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOpenRejectsMalformedConnString(t *testing.T) {
	database := New("://not-a-dsn", zerolog.Nop())

	err := database.Open(context.Background())
	assert.Error(t, err)
}

func TestCloseWhenNotOpen(t *testing.T) {
	database := New("postgres://localhost/quiz", zerolog.Nop())

	assert.ErrorIs(t, database.Close(), ErrClosed)
}

func TestStatementsFailFastWhenNotOpen(t *testing.T) {
	database := New("postgres://localhost/quiz", zerolog.Nop())
	ctx := context.Background()

	_, err := database.Query(ctx, `SELECT 1`)
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, database.QueryRow(ctx, `SELECT 1`).Scan(), ErrClosed)

	_, err = database.Exec(ctx, `SELECT 1`)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = database.Acquire(ctx)
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, database.Ping(ctx), ErrClosed)
}

func TestOpenIsIdempotent(t *testing.T) {
	// Connections are lazy, so opening against an unreachable server
	// succeeds; the second Open must be a no-op.
	database := New("postgres://localhost:1/quiz", zerolog.Nop())
	ctx := context.Background()

	assert.NoError(t, database.Open(ctx))
	assert.NoError(t, database.Open(ctx))
	assert.NoError(t, database.Close())
	assert.ErrorIs(t, database.Close(), ErrClosed)
}
