package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ErrClosed is returned when a statement runs against a database that was
// never opened or has been closed.
var ErrClosed = errors.New("database is not open")

// Database owns the process-wide connection pool. It is the only component
// that acquires and releases individual connections; every statement either
// goes through the pool (which releases on all exit paths) or through a
// scoped transaction via WithTx.
type Database struct {
	connString string
	logger     zerolog.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// New prepares a Database for the given connection string. No connection is
// made until Open.
func New(connString string, logger zerolog.Logger) *Database {
	return &Database{
		connString: connString,
		logger:     logger.With().Str("component", "db").Logger(),
	}
}

// Open creates the connection pool. Calling Open on an already open
// Database is a no-op. Connections are established lazily, so an
// unreachable server surfaces per statement, not here.
func (d *Database) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool != nil {
		return nil
	}

	cfg, err := pgxpool.ParseConfig(d.connString)
	if err != nil {
		d.logger.Error().Err(err).Msg("invalid connection string")
		return fmt.Errorf("parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		d.logger.Error().Err(err).Msg("create connection pool")
		return fmt.Errorf("create connection pool: %w", err)
	}
	d.pool = pool
	return nil
}

// Close releases the pool. It fails when the database is not open, and the
// internal state ends up "not open" either way.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pool == nil {
		d.logger.Error().Msg("close called on database that is not open")
		return ErrClosed
	}
	d.pool.Close()
	d.pool = nil
	return nil
}

// Ping verifies connectivity. Used by the health endpoint.
func (d *Database) Ping(ctx context.Context) error {
	pool := d.current()
	if pool == nil {
		return ErrClosed
	}
	return pool.Ping(ctx)
}

// Acquire borrows one connection from the pool. The caller must Release it.
func (d *Database) Acquire(ctx context.Context) (*pgxpool.Conn, error) {
	pool := d.current()
	if pool == nil {
		d.logger.Error().Msg("acquire on database that is not open")
		return nil, ErrClosed
	}
	conn, err := pool.Acquire(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("acquire connection")
		return nil, err
	}
	return conn, nil
}

// Query runs one parametrized statement through the pool.
func (d *Database) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	pool := d.current()
	if pool == nil {
		d.logger.Error().Msg("query on database that is not open")
		return nil, ErrClosed
	}
	return pool.Query(ctx, sql, args...)
}

// QueryRow runs one parametrized statement expected to yield a single row.
func (d *Database) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	pool := d.current()
	if pool == nil {
		d.logger.Error().Msg("query on database that is not open")
		return errRow{ErrClosed}
	}
	return pool.QueryRow(ctx, sql, args...)
}

// Exec runs one parametrized statement that returns no rows.
func (d *Database) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	pool := d.current()
	if pool == nil {
		d.logger.Error().Msg("exec on database that is not open")
		return pgconn.CommandTag{}, ErrClosed
	}
	return pool.Exec(ctx, sql, args...)
}

// WithTx borrows one connection, begins a transaction and runs fn on it.
// The transaction commits only when fn returns nil; any error or panic
// rolls back, and the connection is released on every exit path.
func (d *Database) WithTx(ctx context.Context, fn func(pgx.Tx) error) error {
	conn, err := d.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("begin transaction")
		return err
	}
	defer tx.Rollback(ctx) // no-op once committed

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		d.logger.Error().Err(err).Msg("commit transaction")
		return err
	}
	return nil
}

func (d *Database) current() *pgxpool.Pool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pool
}

// errRow satisfies pgx.Row for the not-open case.
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }
