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

// PostgresBadgeStore implements the store.BadgeStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBadgeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBadgeStore creates a new PostgreSQL implementation of the BadgeStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresBadgeStore(db store.DBTX, logger *slog.Logger) *PostgresBadgeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBadgeStore{
		db:     db,
		logger: logger.With(slog.String("component", "badge_store")),
	}
}

// Ensure PostgresBadgeStore implements store.BadgeStore interface
var _ store.BadgeStore = (*PostgresBadgeStore)(nil)

// CreateIfAbsent implements store.BadgeStore.CreateIfAbsent
func (s *PostgresBadgeStore) CreateIfAbsent(ctx context.Context, badge *domain.Badge) (bool, error) {
	if err := badge.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO badges (user_id, type, day_key, earned_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, type, day_key) DO NOTHING`,
		badge.UserID, string(badge.Type), badge.DayKey, badge.EarnedAt.UTC())
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create badge",
			slog.String("user_id", badge.UserID.String()),
			slog.String("type", string(badge.Type)),
			slog.String("day_key", badge.DayKey),
			slog.String("error", err.Error()))
		return false, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// ListByUser implements store.BadgeStore.ListByUser
func (s *PostgresBadgeStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Badge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, type, day_key, earned_at
		FROM badges
		WHERE user_id = $1
		ORDER BY earned_at DESC, type ASC`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list badges",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	badges := []domain.Badge{}
	for rows.Next() {
		var (
			b     domain.Badge
			bType string
		)
		if err := rows.Scan(&b.UserID, &bType, &b.DayKey, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		b.Type = domain.BadgeType(bType)
		b.EarnedAt = b.EarnedAt.UTC()
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating badge rows: %w", err)
	}

	return badges, nil
}

// WithTx implements store.BadgeStore.WithTx
func (s *PostgresBadgeStore) WithTx(tx *sql.Tx) store.BadgeStore {
	return &PostgresBadgeStore{db: tx, logger: s.logger}
}
