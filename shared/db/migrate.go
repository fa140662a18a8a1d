package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migration represents a single database migration.
// Each driver package supplies its own ordered list in its dialect.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// RunMigrations executes all pending migrations against the connection.
// Placeholders in the bookkeeping queries are rebound for the active driver.
func RunMigrations(conn *sqlx.DB, migrations []Migration) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err = conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue // Already applied
		}

		tx, err := conn.Beginx()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", m.Version, m.Name, err)
		}

		_, err = tx.Exec(
			conn.Rebind("INSERT INTO schema_migrations (version, name) VALUES (?, ?)"),
			m.Version,
			m.Name,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
