package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"thoughtgraph/infrastructure/persistence/schema"
)

// KVStore is a key-value store on a single SQLite table
type KVStore struct {
	db *sql.DB
}

// NewKVStore opens (creating if needed) the database at dbPath.
// It enables WAL mode so the TUI can read while a CLI command writes.
func NewKVStore(ctx context.Context, dbPath string) (*KVStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	} else {
		// each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	s := &KVStore{db: db}

	if err := migrations().Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return s, nil
}

// migrations lists the schema history of the store
func migrations() *schema.SchemaEvolution {
	evolution := schema.NewSchemaEvolution()

	_ = evolution.RegisterMigration(schema.Migration{
		FromVersion: 0,
		ToVersion:   1,
		Description: "create kv table",
		Up: schema.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL
		);`),
	})

	_ = evolution.RegisterMigration(schema.Migration{
		FromVersion: 1,
		ToVersion:   2,
		Description: "track modification time",
		Up: schema.Exec(`
		ALTER TABLE kv ADD COLUMN updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP;`),
	})

	return evolution
}

// Get returns the value for key; ok is false when the key is absent
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Put inserts or replaces a value
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// Delete removes a key; deleting a missing key is not an error
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Scan returns every pair whose key starts with prefix, ordered by key
func (s *KVStore) Scan(ctx context.Context, prefix string) (map[string][]byte, []string, error) {
	// keys are compared as a range rather than with LIKE so '%' and '_' in
	// the prefix are literal
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, value FROM kv WHERE key >= ? AND key < ? ORDER BY key",
		prefix, prefix+"\xff")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", prefix, err)
	}
	defer rows.Close()

	values := make(map[string][]byte)
	var keys []string
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, nil, fmt.Errorf("failed to read row: %w", err)
		}
		values[key] = value
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return values, keys, nil
}

// Close closes the underlying database connection
func (s *KVStore) Close() error {
	return s.db.Close()
}
