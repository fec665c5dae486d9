package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/damu-app/damu-api/internal/api/middleware"
	"github.com/damu-app/damu-api/internal/config"
	"github.com/damu-app/damu-api/internal/events"
	"github.com/damu-app/damu-api/internal/platform/metrics"
	"github.com/damu-app/damu-api/internal/platform/postgres"
	"github.com/damu-app/damu-api/internal/service"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/damu-app/damu-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	metrics *metrics.Metrics

	userStore     store.UserStore
	intakeStore   store.IntakeStore
	badgeStore    store.BadgeStore
	ledgerStore   store.StreakLedgerStore
	batchRunStore store.BatchRunStore
	taskStore     task.TaskStore

	tokenValidator   middleware.TokenValidator
	hydrationService service.HydrationService
	reminderService  service.ReminderService
	streakService    service.StreakService

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
	scheduler    *task.StreakScheduler
}

// newApplication creates a new application instance with all dependencies initialized.
// Nothing is started; run starts the background workers and the HTTP server.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.tokenValidator, err = middleware.NewHMACValidator(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token validator: %w", err)
	}

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.intakeStore = postgres.NewPostgresIntakeStore(db, logger)
	app.badgeStore = postgres.NewPostgresBadgeStore(db, logger)
	app.ledgerStore = postgres.NewPostgresStreakLedgerStore(db, logger)
	app.batchRunStore = postgres.NewPostgresBatchRunStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	hydrationCfg := service.HydrationServiceConfig{DefaultTimezone: cfg.Hydration.DefaultTimezone}

	app.hydrationService, err = service.NewHydrationService(app.userStore, app.intakeStore, app.metrics, hydrationCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create hydration service: %w", err)
	}

	app.reminderService, err = service.NewReminderService(app.userStore, app.intakeStore, nil, hydrationCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder service: %w", err)
	}

	app.streakService, err = service.NewStreakService(db, service.StreakStores{
		Users:   app.userStore,
		Intakes: app.intakeStore,
		Badges:  app.badgeStore,
		Ledger:  app.ledgerStore,
		Runs:    app.batchRunStore,
	}, app.metrics, service.StreakServiceConfig{
		DefaultTimezone: cfg.Hydration.DefaultTimezone,
		UserConcurrency: cfg.Batch.UserConcurrency,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create streak service: %w", err)
	}

	app.taskRunner = setupTaskRunner(app)
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(task.NewTaskFactoryEventHandler(
		task.NewStreakBatchTaskFactory(app.streakService, logger),
		app.taskRunner,
		logger,
	))

	app.scheduler, err = task.NewStreakScheduler(app.userStore, app.batchRunStore, app.eventEmitter, task.StreakSchedulerConfig{
		Schedule:        cfg.Batch.Schedule,
		DefaultTimezone: cfg.Hydration.DefaultTimezone,
		MaxCatchUpDays:  cfg.Batch.MaxCatchUpDays,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create streak scheduler: %w", err)
	}

	return app, nil
}

// setupTaskRunner creates the task runner and registers the factories used
// to restore persisted tasks.
func setupTaskRunner(app *application) *task.TaskRunner {
	runner := task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:    app.config.Batch.QueueSize,
		WorkerCount:  app.config.Batch.WorkerCount,
		StuckTaskAge: time.Duration(app.config.Batch.StuckTaskAgeMinutes) * time.Minute,
	}, app.logger)

	runner.RegisterFactory(task.NewStreakBatchTaskFactory(app.streakService, app.logger))
	runner.SetErrorHandler(func(t task.Task, err error) {
		app.logger.Error("background task failed",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
	})
	return runner
}

// startBackground starts the task runner and, when enabled, the streak
// scheduler. The runner recovers persisted tasks before the first tick so
// the scheduler never submits into a runner that is not accepting work.
func (app *application) startBackground(ctx context.Context) error {
	if err := app.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	if !app.config.Batch.Enabled {
		app.logger.Info("streak batch scheduling disabled")
		return nil
	}

	app.scheduler.Start()
	if err := app.scheduler.Tick(ctx); err != nil {
		// Missed days are replanned on the next tick.
		app.logger.Warn("initial streak batch tick failed", slog.String("error", err.Error()))
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup(ctx context.Context) {
	if app.scheduler != nil {
		select {
		case <-app.scheduler.Stop().Done():
		case <-ctx.Done():
			app.logger.Warn("timed out waiting for scheduler tick to finish")
		}
	}

	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
