package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/epoch-io/epoch/internal/database"
	"github.com/epoch-io/epoch/internal/models"
)

// SQLTimeEntryRepository is the row-store backed TimeEntryRepository.
// Queries are written with ? placeholders and rebound per driver.
type SQLTimeEntryRepository struct {
	db      *sqlx.DB
	adapter database.Adapter
}

func NewSQLTimeEntryRepository(db *sqlx.DB) *SQLTimeEntryRepository {
	return &SQLTimeEntryRepository{
		db:      db,
		adapter: database.AdapterFor(db.DriverName()),
	}
}

func (r *SQLTimeEntryRepository) ListByUser(ctx context.Context, userID uint) ([]models.TimeEntry, error) {
	query := r.db.Rebind(`
        SELECT id, created_at, date, activity, project, time_in, time_out, billable, hours_worked, user_id
        FROM time_entries WHERE user_id = ? ORDER BY created_at DESC
    `)
	var entries []models.TimeEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("listing time entries: %w", err)
	}
	return entries, nil
}

func (r *SQLTimeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	entry.CreatedAt = time.Now().UTC()
	query := `
        INSERT INTO time_entries (created_at, date, activity, project, time_in, time_out, billable, hours_worked, user_id)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	id, err := r.adapter.InsertWithReturning(ctx, r.db, query,
		entry.CreatedAt, entry.Date, entry.Activity, entry.Project,
		entry.TimeIn, entry.TimeOut, entry.Billable, entry.HoursWorked, entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("inserting time entry: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *SQLTimeEntryRepository) Delete(ctx context.Context, id int64, userID uint) error {
	query := r.db.Rebind(`DELETE FROM time_entries WHERE id = ? AND user_id = ?`)
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting time entry: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
