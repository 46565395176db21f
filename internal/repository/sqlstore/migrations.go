package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	apperrors "github.com/resource-store/internal/pkg/errors"
)

// migration - одна версия схемы. Statements run in order inside one
// transaction; the DDL is shared between SQLite and Postgres. backfill, when
// set, runs after the statements in the same transaction.
type migration struct {
	version    int
	name       string
	statements []string
	backfill   func(ctx context.Context, tx *sqlx.Tx) error
}

var migrations = []migration{
	{
		version: 1,
		name:    "create_resources",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS resources (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				type        TEXT NOT NULL DEFAULT 'other',
				latitude    DOUBLE PRECISION NOT NULL,
				longitude   DOUBLE PRECISION NOT NULL,
				address     TEXT NOT NULL DEFAULT '',
				phone       TEXT,
				email       TEXT,
				website     TEXT,
				created_at  BIGINT NOT NULL,
				updated_at  BIGINT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_resources_name ON resources (name)`,
			`CREATE INDEX IF NOT EXISTS idx_resources_lat_lon ON resources (latitude, longitude)`,
			`CREATE INDEX IF NOT EXISTS idx_resources_type ON resources (type)`,
		},
	},
	{
		version: 2,
		name:    "add_resource_provenance",
		statements: []string{
			`ALTER TABLE resources ADD COLUMN availability TEXT`,
			`ALTER TABLE resources ADD COLUMN place_id TEXT`,
			`ALTER TABLE resources ADD COLUMN rating DOUBLE PRECISION`,
			`ALTER TABLE resources ADD COLUMN rating_count BIGINT`,
			`ALTER TABLE resources ADD COLUMN tags TEXT`,
		},
	},
	{
		// SQLite LOWER() и LIKE складывают регистр только для ASCII
		version: 3,
		name:    "add_resource_search_text",
		statements: []string{
			`ALTER TABLE resources ADD COLUMN search_text TEXT NOT NULL DEFAULT ''`,
		},
		backfill: backfillSearchText,
	},
}

// SchemaVersion returns the highest applied migration, 0 for an empty DB.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// Migrate применяет недостающие миграции. Each one runs once in its own
// transaction together with its schema_migrations row.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at BIGINT NOT NULL
	)`)
	if err != nil {
		return apperrors.ErrStorageInit.Wrap(fmt.Errorf("create schema_migrations: %w", err))
	}

	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return apperrors.ErrStorageInit.Wrap(err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			db.logger.Error("Migration failed",
				zap.Int("version", m.version),
				zap.String("name", m.name),
				zap.Error(err),
			)
			return apperrors.ErrStorageInit.Wrap(err)
		}
		db.logger.Info("Applied migration", zap.Int("version", m.version), zap.String("name", m.name))
	}

	return nil
}

func (db *DB) applyMigration(ctx context.Context, m migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.version, err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}

	if m.backfill != nil {
		if err := m.backfill(ctx, tx); err != nil {
			return fmt.Errorf("migration %d (%s) backfill: %w", m.version, m.name, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind(`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`),
		m.version, m.name, time.Now().UTC().UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("record migration %d: %w", m.version, err)
	}

	return tx.Commit()
}

// backfillSearchText fills search_text for rows written before it existed.
func backfillSearchText(ctx context.Context, tx *sqlx.Tx) error {
	var rows []struct {
		ID          string `db:"id"`
		Name        string `db:"name"`
		Description string `db:"description"`
	}
	if err := tx.SelectContext(ctx, &rows, `SELECT id, name, description FROM resources`); err != nil {
		return err
	}

	update := tx.Rebind(`UPDATE resources SET search_text = ? WHERE id = ?`)
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, update, foldSearchText(row.Name, row.Description), row.ID); err != nil {
			return err
		}
	}
	return nil
}
