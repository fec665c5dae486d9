package store

import (
	"context"
	"database/sql"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/google/uuid"
)

// BadgeStore persists earned badges.
type BadgeStore interface {
	// CreateIfAbsent stores the badge unless one with the same
	// (UserID, Type, DayKey) exists. created reports whether a row was written.
	// An existing badge is not an error.
	CreateIfAbsent(ctx context.Context, badge *domain.Badge) (created bool, err error)

	// ListByUser returns the user's badges, most recently earned first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Badge, error)

	// WithTx returns a new BadgeStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BadgeStore
}
