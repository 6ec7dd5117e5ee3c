package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/epoch-io/epoch/internal/models"
)

// MemoryTimeEntryRepository is an in-memory TimeEntryRepository backing the
// handler and workspace tests.
type MemoryTimeEntryRepository struct {
	mu      sync.RWMutex
	entries map[int64]models.TimeEntry
	nextID  int64
}

func NewMemoryTimeEntryRepository() *MemoryTimeEntryRepository {
	return &MemoryTimeEntryRepository{
		entries: make(map[int64]models.TimeEntry),
		nextID:  1,
	}
}

func (r *MemoryTimeEntryRepository) ListByUser(ctx context.Context, userID uint) ([]models.TimeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.TimeEntry
	for _, entry := range r.entries {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	// Newest created first; id breaks ties so same-instant inserts keep a
	// stable order.
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *MemoryTimeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	entry.CreatedAt = time.Now().UTC()
	r.entries[entry.ID] = *entry
	return nil
}

func (r *MemoryTimeEntryRepository) Delete(ctx context.Context, id int64, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return ErrNotFound
	}
	delete(r.entries, id)
	return nil
}
