package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/epoch-io/epoch/internal/database"
	"github.com/epoch-io/epoch/internal/models"
)

// SQLUserRepository is the row-store backed UserRepository.
type SQLUserRepository struct {
	db      *sqlx.DB
	adapter database.Adapter
}

func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{
		db:      db,
		adapter: database.AdapterFor(db.DriverName()),
	}
}

func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	// Check first so the duplicate case is reported the same way on every
	// driver instead of as a driver-specific constraint error.
	var count int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`)
	if err := r.db.GetContext(ctx, &count, countQuery, user.Email); err != nil {
		return fmt.Errorf("checking email: %w", err)
	}
	if count > 0 {
		return ErrDuplicateEmail
	}

	user.CreatedAt = time.Now().UTC()
	query := `INSERT INTO users (email, pw, created_at) VALUES (?, ?, ?)`
	id, err := r.adapter.InsertWithReturning(ctx, r.db, query, user.Email, user.Password, user.CreatedAt)
	if err != nil {
		// Two concurrent registrations can both pass the pre-check; the
		// unique index on email decides the loser.
		if database.IsUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	user.ID = uint(id)
	return nil
}

func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := r.db.Rebind(`SELECT id, email, pw, created_at FROM users WHERE email = ? LIMIT 1`)
	user := &models.User{}
	if err := r.db.GetContext(ctx, user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return user, nil
}

func (r *SQLUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	query := r.db.Rebind(`SELECT id, email, pw, created_at FROM users WHERE id = ? LIMIT 1`)
	user := &models.User{}
	if err := r.db.GetContext(ctx, user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting user by id: %w", err)
	}
	return user, nil
}
