package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Adapter provides database-specific behavior for the one statement shape
// that differs between drivers: INSERT with a generated id.
type Adapter interface {
	// InsertWithReturning executes an INSERT (written without a RETURNING
	// clause, with ? placeholders) and returns the assigned row id.
	InsertWithReturning(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (int64, error)
}

// PostgresAdapter implements Adapter for PostgreSQL.
type PostgresAdapter struct{}

func (PostgresAdapter) InsertWithReturning(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (int64, error) {
	// PostgreSQL has no LastInsertId; append RETURNING and scan.
	var id int64
	err := db.QueryRowContext(ctx, db.Rebind(query+" RETURNING id"), args...).Scan(&id)
	return id, err
}

// SQLiteAdapter implements Adapter for SQLite. It also covers drivers that
// report the last inserted id through sql.Result (sqlmock in tests).
type SQLiteAdapter struct{}

func (SQLiteAdapter) InsertWithReturning(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (int64, error) {
	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// AdapterFor returns the Adapter matching a sqlx driver name.
func AdapterFor(driverName string) Adapter {
	switch driverName {
	case "postgres":
		return PostgresAdapter{}
	default:
		return SQLiteAdapter{}
	}
}
