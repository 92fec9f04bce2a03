package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// SQLiteRepository implements KeyValue on a single SQLite table
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens dsn with the given driver and prepares the schema.
// Remote libsql:// and wss:// URLs always use the libsql driver.
func NewSQLiteRepository(ctx context.Context, driver, dsn string) (*SQLiteRepository, error) {
	driver = driverFor(driver, dsn)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver != DriverLibSQL {
		// one connection keeps :memory: databases shared and writes serialized
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func driverFor(driver, dsn string) string {
	if strings.HasPrefix(dsn, "libsql://") || strings.HasPrefix(dsn, "wss://") {
		return DriverLibSQL
	}
	if driver == "" {
		return DriverSQLite3
	}
	return driver
}

func initSchema(ctx context.Context, db *sql.DB) error {
	createTables := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, createTables); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}

	// Migration: add updated_at column if it doesn't exist.
	// SQLite doesn't support IF NOT EXISTS for ALTER TABLE ADD COLUMN.
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pragma_table_info('kv') WHERE name = 'updated_at'
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("inspect kv table: %w", err)
	}
	if count == 0 {
		if _, err := db.ExecContext(ctx, `ALTER TABLE kv ADD COLUMN updated_at DATETIME`); err != nil {
			return fmt.Errorf("add updated_at column: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv(key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
