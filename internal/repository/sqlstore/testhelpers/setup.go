package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/resource-store/internal/config"
	"github.com/resource-store/internal/repository/sqlstore"
)

// TestDB represents a test database connection
type TestDB struct {
	DB     *sqlstore.DB
	Logger *zap.Logger
}

// SetupTestDB opens a migrated in-memory SQLite store closed on test cleanup.
func SetupTestDB(t testing.TB) *TestDB {
	t.Helper()

	logger := zap.NewNop()
	db, err := sqlstore.Open(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   ":memory:",
	}, logger)
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}

	tdb := &TestDB{DB: db, Logger: logger}
	t.Cleanup(tdb.Close)
	return tdb
}

// SetupPostgresTestDB connects to the Postgres test instance through lib/pq.
// The test is skipped when the database does not come up.
func SetupPostgresTestDB(t testing.TB) *TestDB {
	t.Helper()

	// Priority:
	// 1. Environment variables
	// 2. Default values
	host := getEnv("TEST_DB_HOST", "localhost")
	port := getEnv("TEST_DB_PORT", "5433")
	user := getEnv("TEST_DB_USER", "postgres")
	password := getEnv("TEST_DB_PASSWORD", "postgres")
	dbname := getEnv("TEST_DB_NAME", "resources_test")
	sslmode := getEnv("TEST_DB_SSLMODE", "disable")

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	// Retry connection with exponential backoff to wait for DB recovery
	var db *sqlx.DB
	var err error
	maxRetries := 3
	retryDelay := 200 * time.Millisecond

	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.Connect("postgres", connStr)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			t.Logf("Database not ready (attempt %d/%d), waiting %v...", i+1, maxRetries, retryDelay)
			time.Sleep(retryDelay)
			retryDelay *= 2 // exponential backoff
		}
	}

	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}

	// чистая схема для каждого прогона
	for _, table := range []string{"resources", "schema_migrations"} {
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			db.Close()
			t.Fatalf("Failed to drop %s: %v", table, err)
		}
	}

	logger := zap.NewNop()
	store, err := sqlstore.NewDBForTest(db, logger)
	if err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	tdb := &TestDB{DB: store, Logger: logger}
	t.Cleanup(tdb.Close)
	return tdb
}

// Close closes the database connection
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		_ = tdb.DB.DB.Close()
	}
}

// Cleanup cleans up test data
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, "DELETE FROM resources")
	return err
}

// getEnv gets environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
