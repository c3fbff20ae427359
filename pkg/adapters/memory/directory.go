package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// Directory implements ports.UserDirectory in memory.
type Directory struct {
	mu    sync.RWMutex
	users map[string]domain.UserRecord
}

// NewDirectory creates a directory seeded with records.
func NewDirectory(seed ...domain.UserRecord) *Directory {
	d := &Directory{users: make(map[string]domain.UserRecord, len(seed))}
	for _, rec := range seed {
		d.users[rec.Username] = cloneRecord(rec)
	}
	return d
}

// Create stores a new record; the username must be free.
func (d *Directory) Create(ctx context.Context, rec domain.UserRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, taken := d.users[rec.Username]; taken {
		return fmt.Errorf("%w: %s", domain.ErrUserExists, rec.Username)
	}
	d.users[rec.Username] = cloneRecord(rec)
	return nil
}

// Lookup returns a copy of the record.
func (d *Directory) Lookup(ctx context.Context, username string) (domain.UserRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.users[username]
	if !ok {
		return domain.UserRecord{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}
	return cloneRecord(rec), nil
}

// Update applies fn to a copy of the record and stores it when fn succeeds.
func (d *Directory) Update(ctx context.Context, username string, fn func(*domain.UserRecord) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.users[username]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}
	rec = cloneRecord(rec)
	if err := fn(&rec); err != nil {
		return err
	}
	d.users[username] = rec
	return nil
}

func cloneRecord(rec domain.UserRecord) domain.UserRecord {
	rec.Hobbies = slices.Clone(rec.Hobbies)
	return rec
}
