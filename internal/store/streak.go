package store

import (
	"context"
	"database/sql"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/google/uuid"
)

// StreakLedgerStore records which (user, day) pairs have been applied to a
// streak, so each finished day advances a streak at most once.
type StreakLedgerStore interface {
	// Claim marks dayKey as applied for the user. claimed is false when the
	// day was already applied. Claims must be made in the same transaction
	// as the streak update they guard.
	Claim(ctx context.Context, userID uuid.UUID, dayKey string) (claimed bool, err error)

	// WithTx returns a new StreakLedgerStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StreakLedgerStore
}

// BatchRunStore records streak batch passes per timezone and day.
type BatchRunStore interface {
	// Record upserts the run for (Timezone, DayKey).
	Record(ctx context.Context, run *domain.BatchRun) error

	// LastCompleted returns the latest day key D of tz such that no recorded
	// run on or before D is incomplete; planning resumes at D+1. A partial
	// run on day P therefore yields P-1 even when later days completed.
	// Returns ErrNotFound if the timezone has no runs.
	LastCompleted(ctx context.Context, tz string) (string, error)
}
