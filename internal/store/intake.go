package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/google/uuid"
)

// IntakeStore persists the append-only intake event stream.
type IntakeStore interface {
	// Append stores a new event. Events are never updated or deleted.
	// Returns ErrIntakeExists if an event with the same ID was already stored.
	Append(ctx context.Context, event *domain.IntakeEvent) error

	// QueryRange returns the user's events with from <= OccurredAt < to,
	// ordered by OccurredAt ascending.
	QueryRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.IntakeEvent, error)

	// SumRange returns the total volume and count of the user's events with
	// from <= OccurredAt < to.
	SumRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (totalMl int, count int, err error)

	// QueryLatest returns the user's most recent event.
	// Returns ErrIntakeNotFound if the user has no events.
	QueryLatest(ctx context.Context, userID uuid.UUID) (*domain.IntakeEvent, error)

	// WithTx returns a new IntakeStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) IntakeStore
}
