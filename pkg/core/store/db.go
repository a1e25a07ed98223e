// Package store persists reconstructed statement tables and validation
// reports into PostgreSQL. Both sinks are idempotent upserts keyed by the
// filing, so re-running a reconstruction simply refreshes the stored rows.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the connection pool from the DATABASE_URL environment
// variable.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
	})
	return err
}

// GetPool returns the database connection pool.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}

// EnsureSchema creates the sink tables when they do not exist yet.
func EnsureSchema(ctx context.Context) error {
	p := GetPool()
	if p == nil {
		return fmt.Errorf("database pool not initialized")
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS statement_rows (
			adsh TEXT NOT NULL,
			stmt TEXT NOT NULL,
			report INTEGER NOT NULL,
			line INTEGER NOT NULL,
			depth INTEGER,
			rfile TEXT,
			tag TEXT,
			version TEXT,
			label TEXT,
			negating BOOLEAN,
			value DOUBLE PRECISION,
			display_value DOUBLE PRECISION,
			formatted_value TEXT,
			uom TEXT,
			ddate TEXT,
			qtrs INTEGER,
			segments TEXT,
			coreg TEXT,
			candidate_count INTEGER,
			conflict BOOLEAN,
			has_value BOOLEAN,
			inserted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (adsh, stmt, report, line)
		);`,
		`CREATE TABLE IF NOT EXISTS validation_reports (
			adsh TEXT PRIMARY KEY,
			summary_status TEXT,
			summary_rows_total INTEGER,
			summary_rows_with_values INTEGER,
			summary_coverage_ratio DOUBLE PRECISION,
			report_json JSONB NOT NULL,
			inserted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}
	for _, stmt := range statements {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
