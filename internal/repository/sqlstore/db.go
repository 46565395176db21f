package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/resource-store/internal/config"
	apperrors "github.com/resource-store/internal/pkg/errors"
)

const (
	driverSQLite = "sqlite"
	driverPgx    = "pgx"

	memoryPath = ":memory:"
)

func init() {
	// modernc registers as "sqlite", sqlx only knows "sqlite3"
	sqlx.BindDriver(driverSQLite, sqlx.QUESTION)
}

type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// Open connects to the configured engine and brings the schema up to date.
// Any failure is returned as ErrStorageInit.
func Open(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = openSQLite(cfg)
	case config.DriverPostgres:
		db, err = openPostgres(cfg)
	default:
		err = fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		logger.Error("Failed to open storage", zap.String("driver", cfg.Driver), zap.Error(err))
		return nil, apperrors.ErrStorageInit.Wrap(err)
	}

	wrapped := &DB{DB: db, logger: logger}
	if err := wrapped.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Storage opened",
		zap.String("driver", cfg.Driver),
		zap.String("path", cfg.Path),
		zap.String("host", cfg.Host),
	)

	return wrapped, nil
}

func openSQLite(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}

	if cfg.Path == "" || cfg.Path == memoryPath {
		db, err := sqlx.Open(driverSQLite, memoryPath)
		if err != nil {
			return nil, err
		}
		// каждое соединение к :memory: - отдельная база
		db.SetMaxOpenConns(1)
		if err := applyPragmas(db, busy); err != nil {
			db.Close()
			return nil, err
		}
		return db, db.Ping()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	db, err := sqlx.Open(driverSQLite, sqliteDSN(cfg.Path, busy))
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// sqliteDSN applies pragmas per connection through the DSN, so every pooled
// connection gets them, not only the first one.
func sqliteDSN(path string, busy time.Duration) string {
	pragmas := []string{
		fmt.Sprintf("busy_timeout(%d)", busy.Milliseconds()),
		"journal_mode(WAL)",
		"foreign_keys(1)",
		"synchronous(NORMAL)",
	}
	q := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		q = append(q, "_pragma="+url.QueryEscape(p))
	}
	return "file:" + path + "?" + strings.Join(q, "&")
}

func applyPragmas(db *sqlx.DB, busy time.Duration) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds()),
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func openPostgres(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect(driverPgx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connection pool settings
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	db.logger.Info("Closing storage connection")
	return db.DB.Close()
}

func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// NewDBForTest wraps an already open connection and migrates it.
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := &DB{DB: sqlxDB, logger: logger}
	if err := db.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return db, nil
}
