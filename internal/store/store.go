// Package store persists parsed courses into Postgres and answers which
// course codes are already present.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bmackey/catalog-scraper/internal/catalog"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// CourseStore reads and writes rows of the Classes table.
type CourseStore struct {
	pool pgxPool
}

// New connects a CourseStore to Postgres and verifies the connection. An
// unreachable database is fatal; there is no point crawling with nowhere to
// write.
func New(ctx context.Context, cfg Config) (*CourseStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
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
	return &CourseStore{pool: pool}, nil
}

// NewWithPool constructs a store from an existing pool (primarily for
// testing).
func NewWithPool(pool pgxPool) (*CourseStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &CourseStore{pool: pool}, nil
}

// LoadCodes returns every course code currently stored, forming the dedup
// universe for a crawl run.
func (s *CourseStore) LoadCodes(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT "Code" FROM "Classes"`)
	if err != nil {
		return nil, fmt.Errorf("select codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]struct{})
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan code: %w", err)
		}
		codes[code] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate codes: %w", err)
	}
	return codes, nil
}

// InsertCourses writes a batch with a single multi-row INSERT rather than
// per-record round trips.
func (s *CourseStore) InsertCourses(ctx context.Context, courses []catalog.Course) error {
	if len(courses) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO "Classes" ("Code", "Name", "Credits", "Description", "Attributes") VALUES `)
	args := make([]any, 0, len(courses)*5)
	for i, course := range courses {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, course.Code, course.Name, course.Credits, course.Description, course.Attributes)
	}
	if _, err := s.pool.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert courses: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *CourseStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}
