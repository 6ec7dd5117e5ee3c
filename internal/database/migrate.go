package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the users and time_entries tables if they do not
// exist. Entries are scoped to their owning user; every query in the
// repository layer filters on user_id, and the index below backs the
// created_at-descending listing.
func EnsureSchema(db *sqlx.DB) error {
	var stmts []string

	switch db.DriverName() {
	case "postgres":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS users (
				id SERIAL PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				pw TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS time_entries (
				id BIGSERIAL PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL,
				date TEXT NOT NULL,
				activity TEXT NOT NULL,
				project TEXT NOT NULL,
				time_in TEXT NOT NULL,
				time_out TEXT NOT NULL,
				billable TEXT NOT NULL,
				hours_worked DOUBLE PRECISION NOT NULL,
				user_id INTEGER NOT NULL REFERENCES users(id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_time_entries_user_created
				ON time_entries (user_id, created_at DESC)`,
		}
	default: // sqlite3
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				email TEXT NOT NULL UNIQUE,
				pw TEXT NOT NULL,
				created_at TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS time_entries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMP NOT NULL,
				date TEXT NOT NULL,
				activity TEXT NOT NULL,
				project TEXT NOT NULL,
				time_in TEXT NOT NULL,
				time_out TEXT NOT NULL,
				billable TEXT NOT NULL,
				hours_worked REAL NOT NULL,
				user_id INTEGER NOT NULL REFERENCES users(id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_time_entries_user_created
				ON time_entries (user_id, created_at DESC)`,
		}
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
