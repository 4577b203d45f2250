package schema

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a schema migration
type Migration struct {
	FromVersion int
	ToVersion   int
	Description string
	Up          MigrationFunc
}

// MigrationFunc performs a migration inside a transaction
type MigrationFunc func(ctx context.Context, tx *sql.Tx) error

// SchemaEvolution manages database schema evolution. The applied version is
// kept in SQLite's user_version pragma so no bookkeeping table is needed.
type SchemaEvolution struct {
	migrations []Migration
}

// NewSchemaEvolution creates a new schema evolution manager
func NewSchemaEvolution() *SchemaEvolution {
	return &SchemaEvolution{}
}

// RegisterMigration registers a new migration
func (s *SchemaEvolution) RegisterMigration(migration Migration) error {
	if migration.ToVersion != migration.FromVersion+1 {
		return fmt.Errorf("invalid migration: versions must be consecutive, got %d->%d",
			migration.FromVersion, migration.ToVersion)
	}

	for _, existing := range s.migrations {
		if existing.FromVersion == migration.FromVersion {
			return fmt.Errorf("migration from %d to %d already exists",
				migration.FromVersion, migration.ToVersion)
		}
	}

	s.migrations = append(s.migrations, migration)
	sort.Slice(s.migrations, func(i, j int) bool {
		return s.migrations[i].FromVersion < s.migrations[j].FromVersion
	})
	return nil
}

// Latest returns the version reached once every migration has run
func (s *SchemaEvolution) Latest() int {
	if len(s.migrations) == 0 {
		return 0
	}
	return s.migrations[len(s.migrations)-1].ToVersion
}

// CurrentVersion reads the applied version from the database
func CurrentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Migrate applies every pending migration in order, each in its own
// transaction. A database newer than the code is an error.
func (s *SchemaEvolution) Migrate(ctx context.Context, db *sql.DB) error {
	current, err := CurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	if current > s.Latest() {
		return fmt.Errorf("database schema version %d is newer than supported version %d",
			current, s.Latest())
	}

	for _, migration := range s.migrations {
		if migration.FromVersion < current {
			continue
		}
		if err := s.apply(ctx, db, migration); err != nil {
			return fmt.Errorf("migration %d->%d failed: %w",
				migration.FromVersion, migration.ToVersion, err)
		}
	}

	return nil
}

func (s *SchemaEvolution) apply(ctx context.Context, db *sql.DB, migration Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := migration.Up(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	// PRAGMA does not accept bound parameters
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", migration.ToVersion)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Exec returns a MigrationFunc running a fixed statement
func Exec(statement string) MigrationFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, statement)
		return err
	}
}
