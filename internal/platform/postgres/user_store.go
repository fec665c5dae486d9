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

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

const userColumns = `id, daily_goal_ml, timezone, notifications_enabled,
	reminder_interval_minutes, quiet_start, quiet_end, streak, created_at, updated_at`

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	ns := user.NotificationSettings
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		user.ID,
		nullInt(user.DailyGoalMl),
		nullString(user.Timezone),
		ns.Enabled,
		ns.IntervalMinutes,
		ns.QuietHours.Start,
		ns.QuietHours.End,
		user.Streak,
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to create user",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user",
			slog.String("user_id", id.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return user, nil
}

// UpdateStreak implements store.UserStore.UpdateStreak
func (s *PostgresUserStore) UpdateStreak(ctx context.Context, id uuid.UUID, streak int) error {
	if streak < 0 {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrNegativeStreak)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET streak = $1, updated_at = $2 WHERE id = $3`,
		streak, time.Now().UTC(), id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update streak",
			slog.String("user_id", id.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// ListIDsByTimezone implements store.UserStore.ListIDsByTimezone
func (s *PostgresUserStore) ListIDsByTimezone(ctx context.Context, tz string, includeUnset bool) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM users
		WHERE timezone = $1 OR ($2 AND timezone IS NULL)
		ORDER BY id`, tz, includeUnset)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users by timezone",
			slog.String("timezone", tz),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return ids, nil
}

// ListTimezones implements store.UserStore.ListTimezones
func (s *PostgresUserStore) ListTimezones(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT timezone FROM users WHERE timezone IS NOT NULL ORDER BY timezone`)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list timezones",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	zones := []string{}
	for rows.Next() {
		var tz string
		if err := rows.Scan(&tz); err != nil {
			return nil, fmt.Errorf("failed to scan timezone: %w", err)
		}
		zones = append(zones, tz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timezone rows: %w", err)
	}

	return zones, nil
}

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u        domain.User
		goal     sql.NullInt64
		timezone sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&goal,
		&timezone,
		&u.NotificationSettings.Enabled,
		&u.NotificationSettings.IntervalMinutes,
		&u.NotificationSettings.QuietHours.Start,
		&u.NotificationSettings.QuietHours.End,
		&u.Streak,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if goal.Valid {
		g := int(goal.Int64)
		u.DailyGoalMl = &g
	}
	if timezone.Valid {
		tz := timezone.String
		u.Timezone = &tz
	}
	return &u, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
