package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/google/uuid"
)

// PostgresStreakLedgerStore implements the store.StreakLedgerStore interface.
type PostgresStreakLedgerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStreakLedgerStore creates a new PostgreSQL implementation of the StreakLedgerStore interface.
func NewPostgresStreakLedgerStore(db store.DBTX, logger *slog.Logger) *PostgresStreakLedgerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStreakLedgerStore{
		db:     db,
		logger: logger.With(slog.String("component", "streak_ledger_store")),
	}
}

var _ store.StreakLedgerStore = (*PostgresStreakLedgerStore)(nil)

// Claim implements store.StreakLedgerStore.Claim
func (s *PostgresStreakLedgerStore) Claim(ctx context.Context, userID uuid.UUID, dayKey string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO streak_ledger (user_id, day_key)
		VALUES ($1, $2)
		ON CONFLICT (user_id, day_key) DO NOTHING`, userID, dayKey)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to claim streak day",
			slog.String("user_id", userID.String()),
			slog.String("day_key", dayKey),
			slog.String("error", err.Error()))
		return false, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// WithTx implements store.StreakLedgerStore.WithTx
func (s *PostgresStreakLedgerStore) WithTx(tx *sql.Tx) store.StreakLedgerStore {
	return &PostgresStreakLedgerStore{db: tx, logger: s.logger}
}

// PostgresBatchRunStore implements the store.BatchRunStore interface.
type PostgresBatchRunStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBatchRunStore creates a new PostgreSQL implementation of the BatchRunStore interface.
func NewPostgresBatchRunStore(db store.DBTX, logger *slog.Logger) *PostgresBatchRunStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBatchRunStore{
		db:     db,
		logger: logger.With(slog.String("component", "batch_run_store")),
	}
}

var _ store.BatchRunStore = (*PostgresBatchRunStore)(nil)

// Record implements store.BatchRunStore.Record
func (s *PostgresBatchRunStore) Record(ctx context.Context, run *domain.BatchRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streak_batch_runs
			(timezone, day_key, status, processed, skipped, failed, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (timezone, day_key) DO UPDATE SET
			status = EXCLUDED.status,
			processed = EXCLUDED.processed,
			skipped = EXCLUDED.skipped,
			failed = EXCLUDED.failed,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at`,
		run.Timezone, run.DayKey, string(run.Status),
		run.Processed, run.Skipped, run.Failed,
		run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to record batch run",
			slog.String("timezone", run.Timezone),
			slog.String("day_key", run.DayKey),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// LastCompleted implements store.BatchRunStore.LastCompleted. While any run
// of tz is not completed, the watermark stays on the day before the earliest
// such run, so a later completed day never hides it.
func (s *PostgresBatchRunStore) LastCompleted(ctx context.Context, tz string) (string, error) {
	var dayKey sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(
			(SELECT to_char(to_date(MIN(day_key), 'YYYY-MM-DD') - 1, 'YYYY-MM-DD')
			 FROM streak_batch_runs
			 WHERE timezone = $1 AND status <> $2),
			(SELECT MAX(day_key)
			 FROM streak_batch_runs
			 WHERE timezone = $1 AND status = $2)
		) AS day_key`, tz, string(domain.BatchRunCompleted)).Scan(&dayKey)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read last completed batch day",
			slog.String("timezone", tz),
			slog.String("error", err.Error()))
		return "", MapError(err)
	}
	if !dayKey.Valid {
		return "", store.ErrNotFound
	}
	return dayKey.String, nil
}
