package store

import (
	"context"
	"database/sql"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/google/uuid"
)

// UserStore defines the interface for hydration profile persistence.
type UserStore interface {
	// Create saves a new user profile.
	// Returns ErrDuplicate if a profile with the same ID exists.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// UpdateStreak overwrites the stored streak counter.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateStreak(ctx context.Context, id uuid.UUID, streak int) error

	// ListIDsByTimezone returns the IDs of users whose stored timezone is tz.
	// With includeUnset, users without a stored timezone are included too.
	ListIDsByTimezone(ctx context.Context, tz string, includeUnset bool) ([]uuid.UUID, error)

	// ListTimezones returns the distinct timezones stored on user profiles.
	ListTimezones(ctx context.Context) ([]string, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
