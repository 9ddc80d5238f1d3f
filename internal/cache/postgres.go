package cache

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

var _ pgxPool = (*pgxpool.Pool)(nil)

const (
	pgGetSQL = `SELECT value FROM cache_entries WHERE key = $1 AND expires_at > $2`

	pgSetSQL = `INSERT INTO cache_entries (key, value, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	pgDeleteSQL = `DELETE FROM cache_entries WHERE key = $1 AND expires_at > $2`

	pgIncrSQL = `INSERT INTO cache_entries AS c (key, value, expires_at)
VALUES ($1, '1', $2)
ON CONFLICT (key) DO UPDATE SET
	value = CASE WHEN c.expires_at <= $3 THEN '1' ELSE (c.value::bigint + 1)::text END,
	expires_at = CASE WHEN c.expires_at <= $3 THEN EXCLUDED.expires_at ELSE c.expires_at END
RETURNING value::bigint`

	pgSweepSQL = `DELETE FROM cache_entries WHERE expires_at <= $1`
)

// PostgresStore keeps entries in an UNLOGGED postgres table. Expired rows are
// invisible to reads and removed by Sweep.
type PostgresStore struct {
	pool pgxPool
	now  func() time.Time
}

// NewPostgresStore wraps a pool whose database already has the cache table.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

// Get implements Store.
func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.pool.QueryRow(ctx, pgGetSQL, key, p.now()).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Set implements Store.
func (p *PostgresStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := p.pool.Exec(ctx, pgSetSQL, key, string(value), p.now().Add(ttl))
	return err
}

// Delete implements Store.
func (p *PostgresStore) Delete(ctx context.Context, key string) (bool, error) {
	tag, err := p.pool.Exec(ctx, pgDeleteSQL, key, p.now())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Incr implements Store.
func (p *PostgresStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	now := p.now()
	var n int64
	if err := p.pool.QueryRow(ctx, pgIncrSQL, key, now.Add(ttl), now).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Sweep deletes expired rows and reports how many were removed.
func (p *PostgresStore) Sweep(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, pgSweepSQL, p.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Ping implements Store.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close implements Store.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
