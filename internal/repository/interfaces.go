package repository

import (
	"context"
	"errors"

	"github.com/epoch-io/epoch/internal/models"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// TimeEntryRepository defines the interface for time entry persistence.
// Every operation is scoped to an owning user; a caller can never observe or
// mutate another user's entries through this interface.
type TimeEntryRepository interface {
	// ListByUser returns all entries owned by userID, newest created first.
	ListByUser(ctx context.Context, userID uint) ([]models.TimeEntry, error)

	// Create inserts the entry and fills in its assigned ID and CreatedAt.
	Create(ctx context.Context, entry *models.TimeEntry) error

	// Delete removes the entry with the given id if userID owns it.
	// Returns ErrNotFound for an unknown id or someone else's entry.
	Delete(ctx context.Context, id int64, userID uint) error
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Create inserts the user and fills in its assigned ID and CreatedAt.
	// Returns ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, user *models.User) error

	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
}
