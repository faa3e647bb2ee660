// Package postgres provides the Postgres-backed event store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/events-aggregator/internal/event"
)

const (
	defaultTable    = "events"
	defaultLimit    = 100
	maxListLimit    = 1000
	defaultMaxConns = 4
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for event rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Store persists canonical events. The expected schema is:
//
//	CREATE TABLE events (
//	    id          BIGSERIAL PRIMARY KEY,
//	    title       TEXT NOT NULL,
//	    occurs_at   TEXT,
//	    venue       TEXT,
//	    location    TEXT,
//	    url         TEXT,
//	    description TEXT,
//	    sources     TEXT[] NOT NULL,
//	    categories  TEXT[],
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//	CREATE UNIQUE INDEX events_identity_idx
//	    ON events (title, COALESCE(occurs_at, ''), COALESCE(venue, ''));
//
// The unique index on the identity tuple is what makes concurrent
// ingestion runs safe: the conflict merge is atomic per row, not a
// read-then-write race.
type Store struct {
	pool  pgxPool
	table string
}

// NewStore creates a Postgres-backed Store using the provided config.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = defaultTable
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

// NewStoreWithPool constructs a Store from an existing pool (primarily
// for testing).
func NewStoreWithPool(pool pgxPool, table string) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = defaultTable
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("event store is not configured")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// UpsertBatch inserts each event or merges its sources into the existing
// row with the same identity key. The DO UPDATE arm is skipped entirely
// when the incoming sources are already a subset of the stored ones; that
// case surfaces as Skipped. A single event's failure is recorded and the
// batch continues.
func (s *Store) UpsertBatch(ctx context.Context, events []event.Event) (event.UpsertResult, error) {
	if s == nil || s.pool == nil {
		return event.UpsertResult{}, fmt.Errorf("event store is not configured")
	}

	query := fmt.Sprintf(`
INSERT INTO %s (title, occurs_at, venue, location, url, description, sources, categories)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)
ON CONFLICT (title, COALESCE(occurs_at, ''), COALESCE(venue, ''))
DO UPDATE SET sources = (
	SELECT ARRAY(SELECT DISTINCT src FROM unnest(%s.sources || EXCLUDED.sources) AS src)
)
WHERE NOT %s.sources @> EXCLUDED.sources
RETURNING (xmax = 0) AS inserted`, s.table, s.table, s.table)

	var result event.UpsertResult
	for _, e := range events {
		if strings.TrimSpace(e.Title) == "" {
			result.Errors = append(result.Errors, event.UpsertError{Title: e.Title, Err: "title is required"})
			continue
		}
		if len(e.Sources) == 0 {
			result.Errors = append(result.Errors, event.UpsertError{Title: e.Title, Err: "sources must not be empty"})
			continue
		}
		var inserted bool
		err := s.pool.QueryRow(ctx, query,
			e.Title,
			e.OccursAt,
			e.Venue,
			e.Location,
			e.URL,
			e.Description,
			e.Sources,
			e.Categories,
		).Scan(&inserted)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// Conflict with the incoming sources already present.
			result.Skipped++
		case err != nil:
			result.Errors = append(result.Errors, event.UpsertError{Title: e.Title, Err: err.Error()})
		case inserted:
			result.Inserted++
		default:
			result.Merged++
		}
	}
	return result, nil
}

// List returns stored events ordered by occurs_at descending with absent
// times last. Limit is clamped to 1000 regardless of the requested value.
func (s *Store) List(ctx context.Context, q event.ListQuery) ([]event.Event, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("event store is not configured")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	columns := `id, title, COALESCE(occurs_at, ''), COALESCE(venue, ''), COALESCE(location, ''), COALESCE(url, ''), COALESCE(description, ''), sources, COALESCE(categories, '{}')`

	var rows pgx.Rows
	var err error
	if q.Source != "" {
		query := fmt.Sprintf(`
SELECT %s FROM %s
WHERE $1 = ANY(sources)
ORDER BY occurs_at DESC NULLS LAST, id DESC
LIMIT $2`, columns, s.table)
		rows, err = s.pool.Query(ctx, query, q.Source, limit)
	} else {
		query := fmt.Sprintf(`
SELECT %s FROM %s
ORDER BY occurs_at DESC NULLS LAST, id DESC
LIMIT $1`, columns, s.table)
		rows, err = s.pool.Query(ctx, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		var e event.Event
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.OccursAt,
			&e.Venue,
			&e.Location,
			&e.URL,
			&e.Description,
			&e.Sources,
			&e.Categories,
		); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return out, nil
}
