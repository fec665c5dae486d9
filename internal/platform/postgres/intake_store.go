package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/google/uuid"
)

// PostgresIntakeStore implements the store.IntakeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresIntakeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresIntakeStore creates a new PostgreSQL implementation of the IntakeStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresIntakeStore(db store.DBTX, logger *slog.Logger) *PostgresIntakeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresIntakeStore{
		db:     db,
		logger: logger.With(slog.String("component", "intake_store")),
	}
}

// Ensure PostgresIntakeStore implements store.IntakeStore interface
var _ store.IntakeStore = (*PostgresIntakeStore)(nil)

// Append implements store.IntakeStore.Append
func (s *PostgresIntakeStore) Append(ctx context.Context, event *domain.IntakeEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO intake_events (id, user_id, amount_ml, temperature_c, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID,
		event.UserID,
		event.AmountMl,
		nullFloat(event.TemperatureC),
		event.OccurredAt.UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrIntakeExists, err)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to append intake event",
			slog.String("user_id", event.UserID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// QueryRange implements store.IntakeStore.QueryRange
func (s *PostgresIntakeStore) QueryRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.IntakeEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, amount_ml, temperature_c, occurred_at
		FROM intake_events
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at ASC, id ASC`,
		userID, from.UTC(), to.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query intake range",
			slog.String("user_id", userID.String()),
			slog.Time("from", from),
			slog.Time("to", to),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	events := []domain.IntakeEvent{}
	for rows.Next() {
		e, err := scanIntake(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan intake event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating intake rows: %w", err)
	}

	return events, nil
}

// SumRange implements store.IntakeStore.SumRange
func (s *PostgresIntakeStore) SumRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, int, error) {
	var total, count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_ml), 0), COUNT(*)
		FROM intake_events
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3`,
		userID, from.UTC(), to.UTC()).Scan(&total, &count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to sum intake range",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return 0, 0, MapError(err)
	}
	return total, count, nil
}

// QueryLatest implements store.IntakeStore.QueryLatest
func (s *PostgresIntakeStore) QueryLatest(ctx context.Context, userID uuid.UUID) (*domain.IntakeEvent, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount_ml, temperature_c, occurred_at
		FROM intake_events
		WHERE user_id = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT 1`, userID)

	e, err := scanIntake(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrIntakeNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query latest intake",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return e, nil
}

// WithTx implements store.IntakeStore.WithTx
func (s *PostgresIntakeStore) WithTx(tx *sql.Tx) store.IntakeStore {
	return &PostgresIntakeStore{db: tx, logger: s.logger}
}

func scanIntake(row rowScanner) (*domain.IntakeEvent, error) {
	var (
		e    domain.IntakeEvent
		temp sql.NullFloat64
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.AmountMl, &temp, &e.OccurredAt); err != nil {
		return nil, err
	}
	if temp.Valid {
		t := temp.Float64
		e.TemperatureC = &t
	}
	e.OccurredAt = e.OccurredAt.UTC()
	return &e, nil
}
