package ports

import (
	"context"

	"github.com/aretw0/silverconnect/pkg/domain"
)

// UserDirectory stores account records.
type UserDirectory interface {
	// Create adds a record. Returns domain.ErrUserExists if the username is taken.
	Create(ctx context.Context, rec domain.UserRecord) error

	// Lookup returns a copy of the record. Returns domain.ErrUserNotFound if absent.
	Lookup(ctx context.Context, username string) (domain.UserRecord, error)

	// Update applies fn to the stored record atomically.
	Update(ctx context.Context, username string, fn func(*domain.UserRecord) error) error
}
