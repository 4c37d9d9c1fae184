package migration

import (
	"context"

	"sheetlens/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
	steps   []step
}

type step struct {
	name string
	sql  string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		steps: []step{
			{"uploads table", createUploadsTable},
			{"charts table", createChartsTable},
			{"insights table", createInsightsTable},
			{"indexes", createIndexes},
		},
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Steps lists the migration step names in execution order.
func (r *MigrationRunner) Steps() []string {
	names := make([]string, len(r.steps))
	for i, s := range r.steps {
		names[i] = s.name
	}
	return names
}

// Run executes all database migrations in order. Every statement is
// idempotent, so Run is safe on an already migrated database.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, s := range r.steps {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			return errors.Wrapf(err, "failed to create %s", s.name)
		}
	}
	return nil
}

const createUploadsTable = `
	CREATE TABLE IF NOT EXISTS uploads (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		original_file_name VARCHAR(512) NOT NULL,
		stored_file_ref TEXT NOT NULL,
		file_size_bytes BIGINT NOT NULL DEFAULT 0,
		mime_type VARCHAR(255) NOT NULL,
		content_hash VARCHAR(64),
		sheet_count INTEGER NOT NULL DEFAULT 0,
		row_count INTEGER NOT NULL DEFAULT 0,
		column_count INTEGER NOT NULL DEFAULT 0,
		sheet_names TEXT[] NOT NULL DEFAULT '{}',
		parsed_data JSONB,
		status VARCHAR(20) NOT NULL DEFAULT 'processing'
			CHECK (status IN ('processing', 'completed', 'failed')),
		error_message TEXT,
		chart_count INTEGER NOT NULL DEFAULT 0,
		download_count INTEGER NOT NULL DEFAULT 0,
		is_deleted BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`

const createChartsTable = `
	CREATE TABLE IF NOT EXISTS charts (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		upload_id UUID NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
		title VARCHAR(200) NOT NULL,
		description VARCHAR(1000),
		chart_type VARCHAR(20) NOT NULL,
		chart_dimension VARCHAR(2) NOT NULL DEFAULT '2D',
		configuration JSONB NOT NULL,
		chart_data JSONB NOT NULL DEFAULT '{}',
		image_url TEXT,
		view_count INTEGER NOT NULL DEFAULT 0,
		download_count INTEGER NOT NULL DEFAULT 0,
		is_public BOOLEAN NOT NULL DEFAULT false,
		tags TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`

const createInsightsTable = `
	CREATE TABLE IF NOT EXISTS insights (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		upload_id UUID NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
		kind VARCHAR(20) NOT NULL
			CHECK (kind IN ('summary', 'trend', 'anomaly', 'prediction', 'recommendation')),
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		data JSONB NOT NULL DEFAULT '{}',
		confidence INTEGER NOT NULL DEFAULT 85 CHECK (confidence BETWEEN 0 AND 100),
		status VARCHAR(20) NOT NULL DEFAULT 'completed',
		is_read BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`

const createIndexes = `
	CREATE INDEX IF NOT EXISTS idx_uploads_owner_created ON uploads(owner_id, created_at DESC) WHERE is_deleted = false;
	CREATE INDEX IF NOT EXISTS idx_charts_owner_created ON charts(owner_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_charts_upload ON charts(upload_id);
	CREATE INDEX IF NOT EXISTS idx_insights_owner_created ON insights(owner_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_insights_upload ON insights(upload_id);
	CREATE INDEX IF NOT EXISTS idx_insights_kind ON insights(owner_id, kind);
	CREATE INDEX IF NOT EXISTS idx_uploads_created ON uploads(created_at DESC) WHERE is_deleted = false;
	CREATE INDEX IF NOT EXISTS idx_charts_created ON charts(created_at DESC)`
