package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/damu-app/damu-api/internal/domain"
	"github.com/damu-app/damu-api/internal/domain/day"
	"github.com/damu-app/damu-api/internal/domain/streak"
	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Per-user batch outcomes, as reported to the Recorder.
const (
	outcomeProcessed = "processed"
	outcomeSkipped   = "skipped"
	outcomeFailed    = "failed"
)

// DefaultUserConcurrency bounds how many users of one batch day are
// processed at the same time when no limit is configured.
const DefaultUserConcurrency = 8

// StreakService advances streaks once per finished local day and lists the
// badges earned along the way.
type StreakService interface {
	// RunDailyStreakBatch applies dayKey to every user whose effective
	// timezone is tz. Each user is handled in its own transaction and at
	// most once per day; a failing user never aborts the others. The
	// returned run is recorded before it is returned.
	RunDailyStreakBatch(ctx context.Context, dayKey, tz string) (*domain.BatchRun, error)

	// ListBadges returns the user's badges, most recently earned first.
	ListBadges(ctx context.Context, userID uuid.UUID) ([]domain.Badge, error)
}

// StreakServiceConfig holds the streak batch settings.
type StreakServiceConfig struct {
	// DefaultTimezone is the effective zone of users without a stored one.
	DefaultTimezone string
	// UserConcurrency bounds the per-user fan-out of a batch day.
	UserConcurrency int
	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
}

type streakServiceImpl struct {
	db       *sql.DB
	users    store.UserStore
	intakes  store.IntakeStore
	badges   store.BadgeStore
	ledger   store.StreakLedgerStore
	runs     store.BatchRunStore
	recorder Recorder
	config   StreakServiceConfig
	logger   *slog.Logger
}

// StreakStores groups the stores the streak batch reads and writes.
type StreakStores struct {
	Users   store.UserStore
	Intakes store.IntakeStore
	Badges  store.BadgeStore
	Ledger  store.StreakLedgerStore
	Runs    store.BatchRunStore
}

// NewStreakService creates a new StreakService.
// It returns an error if any of the required dependencies are nil.
func NewStreakService(
	db *sql.DB,
	stores StreakStores,
	recorder Recorder,
	config StreakServiceConfig,
	logger *slog.Logger,
) (StreakService, error) {
	newErr := func(name string) error {
		return NewServiceError("streak", "create_service", fmt.Errorf("%w: %s", ErrNilDependency, name))
	}
	switch {
	case db == nil:
		return nil, newErr("db")
	case stores.Users == nil:
		return nil, newErr("users")
	case stores.Intakes == nil:
		return nil, newErr("intakes")
	case stores.Badges == nil:
		return nil, newErr("badges")
	case stores.Ledger == nil:
		return nil, newErr("ledger")
	case stores.Runs == nil:
		return nil, newErr("runs")
	}
	if _, err := day.LoadZone(config.DefaultTimezone); err != nil {
		return nil, NewServiceError("streak", "create_service", err)
	}
	if config.UserConcurrency <= 0 {
		config.UserConcurrency = DefaultUserConcurrency
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &streakServiceImpl{
		db:       db,
		users:    stores.Users,
		intakes:  stores.Intakes,
		badges:   stores.Badges,
		ledger:   stores.Ledger,
		runs:     stores.Runs,
		recorder: recorder,
		config:   config,
		logger:   logger.With(slog.String("component", "streak_service")),
	}, nil
}

// RunDailyStreakBatch implements StreakService.RunDailyStreakBatch
func (s *streakServiceImpl) RunDailyStreakBatch(ctx context.Context, dayKey, tz string) (*domain.BatchRun, error) {
	loc, err := day.LoadZone(tz)
	if err != nil {
		return nil, err
	}
	start, end, err := day.Bounds(loc, dayKey)
	if err != nil {
		return nil, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("timezone", tz),
		slog.String("day_key", dayKey))

	ids, err := s.users.ListIDsByTimezone(ctx, tz, tz == s.config.DefaultTimezone)
	if err != nil {
		log.Error("failed to list users for streak batch", slog.String("error", err.Error()))
		return nil, NewServiceError("streak", "run_daily_batch", fmt.Errorf("%w: %w", ErrBatchAborted, err))
	}

	run := &domain.BatchRun{
		Timezone:  tz,
		DayKey:    dayKey,
		StartedAt: s.config.Now().UTC(),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.config.UserConcurrency)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			outcome, awarded, err := s.advanceUser(ctx, id, dayKey, start, end)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case outcomeProcessed:
				run.Processed++
			case outcomeSkipped:
				run.Skipped++
			default:
				run.Failed++
				log.Error("failed to advance streak",
					slog.String("user_id", id.String()),
					slog.String("error", err.Error()))
			}
			s.recorder.BatchUser(outcome)
			for _, t := range awarded {
				s.recorder.BadgeAwarded(t)
			}
			return nil
		})
	}
	_ = g.Wait()

	run.Finish(s.config.Now())
	if err := s.runs.Record(ctx, run); err != nil {
		log.Error("failed to record batch run", slog.String("error", err.Error()))
		return run, wrapError("streak", "run_daily_batch", err)
	}

	log.Info("streak batch finished",
		slog.String("status", string(run.Status)),
		slog.Int("processed", run.Processed),
		slog.Int("skipped", run.Skipped),
		slog.Int("failed", run.Failed))

	return run, nil
}

// advanceUser applies one finished day to one user inside a transaction.
// Awarded lists only the badges created by this call.
func (s *streakServiceImpl) advanceUser(
	ctx context.Context,
	userID uuid.UUID,
	dayKey string,
	start, end time.Time,
) (string, []domain.BadgeType, error) {
	outcome := outcomeProcessed
	var awarded []domain.BadgeType

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		claimed, err := s.ledger.WithTx(tx).Claim(ctx, userID, dayKey)
		if err != nil {
			return fmt.Errorf("claim day: %w", err)
		}
		if !claimed {
			outcome = outcomeSkipped
			return nil
		}

		users := s.users.WithTx(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}

		consumed, _, err := s.intakes.WithTx(tx).SumRange(ctx, userID, start, end)
		if err != nil {
			return fmt.Errorf("sum intake: %w", err)
		}

		next := streak.Advance(user.Streak, consumed, user.Goal())
		if err := users.UpdateStreak(ctx, userID, next.Streak); err != nil {
			return fmt.Errorf("update streak: %w", err)
		}

		badges := s.badges.WithTx(tx)
		for _, t := range next.Badges {
			created, err := badges.CreateIfAbsent(ctx, &domain.Badge{
				UserID:   userID,
				Type:     t,
				DayKey:   dayKey,
				EarnedAt: end,
			})
			if err != nil {
				return fmt.Errorf("create %s badge: %w", t, err)
			}
			if created {
				awarded = append(awarded, t)
			}
		}
		return nil
	})
	if err != nil {
		return outcomeFailed, nil, err
	}
	return outcome, awarded, nil
}

// ListBadges implements StreakService.ListBadges
func (s *streakServiceImpl) ListBadges(ctx context.Context, userID uuid.UUID) ([]domain.Badge, error) {
	badges, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrapError("streak", "list_badges", err)
	}
	return badges, nil
}
