package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/damu-app/damu-api/internal/platform/logger"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// StuckTaskAge defines how long a task can be in processing state
	// before it's considered stuck and reset
	StuckTaskAge time.Duration

	// StuckTaskCheckInterval defines how often to check for stuck tasks
	// If zero, defaults to 5 minutes
	StuckTaskCheckInterval time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              100,
		StuckTaskAge:           30 * time.Minute,
		StuckTaskCheckInterval: 5 * time.Minute,
	}
}

// TaskRunner persists submitted tasks and executes them on a worker pool.
// Tasks left pending or processing by a previous run are rebuilt through the
// registered factories when the runner starts.
type TaskRunner struct {
	store  TaskStore
	queue  *TaskQueue
	pool   *WorkerPool
	config TaskRunnerConfig
	logger *slog.Logger

	mu        sync.RWMutex
	factories map[string]TaskFactory

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	errHandler func(task Task, err error)
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(store TaskStore, config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "task_runner"))

	if config.StuckTaskCheckInterval == 0 {
		config.StuckTaskCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	queue := NewTaskQueue(config.QueueSize, logger)

	r := &TaskRunner{
		store:      store,
		queue:      queue,
		config:     config,
		logger:     logger,
		factories:  make(map[string]TaskFactory),
		ctx:        ctx,
		cancelFunc: cancel,
	}
	r.pool = NewWorkerPool(queue, WorkerPoolConfig{
		WorkerCount: config.WorkerCount,
		Process:     r.processTask,
		OnError: func(task Task, err error) {
			if r.errHandler != nil {
				r.errHandler(task, err)
			}
		},
	}, logger)
	return r
}

// SetErrorHandler allows setting a custom error handler function.
// It must be called before Start.
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// RegisterFactory makes tasks of factory.TaskType() recoverable.
func (r *TaskRunner) RegisterFactory(factory TaskFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[factory.TaskType()] = factory
}

// Submit persists a new task and adds it to the queue
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	if err := r.store.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if err := r.queue.Enqueue(task); err != nil {
		// The task stays pending in the store and is picked up on the next start.
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// Start recovers unfinished tasks, then starts the workers and the stuck
// task monitor
func (r *TaskRunner) Start() error {
	if err := r.Recover(r.ctx); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	r.pool.Start()

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop gracefully shuts down the task runner. In-flight tasks are
// cancelled through their context; their persisted state lets the next
// start resume them.
func (r *TaskRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	r.pool.Stop()
	r.queue.Close()
}

// Recover loads any unfinished tasks from the store and requeues them
func (r *TaskRunner) Recover(ctx context.Context) error {
	pending, err := r.store.GetPendingTasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending tasks: %w", err)
	}

	// All processing tasks regardless of age: any of them was interrupted.
	processing, err := r.store.GetProcessingTasks(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		slog.Int("pending_count", len(pending)),
		slog.Int("processing_count", len(processing)))

	for _, rec := range pending {
		r.requeue(ctx, rec)
	}

	for _, rec := range processing {
		if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing task status",
				slog.String("task_id", rec.ID.String()),
				slog.String("task_type", rec.Type),
				slog.String("error", err.Error()))
			continue
		}
		r.requeue(ctx, rec)
	}

	return nil
}

// requeue rebuilds a persisted task and enqueues it. Records without a
// registered factory are marked failed.
func (r *TaskRunner) requeue(ctx context.Context, rec TaskRecord) {
	log := r.logger.With(
		slog.String("task_id", rec.ID.String()),
		slog.String("task_type", rec.Type))

	r.mu.RLock()
	factory, ok := r.factories[rec.Type]
	r.mu.RUnlock()
	if !ok {
		log.Error("no factory registered for task type")
		if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusFailed, "no factory registered for task type"); err != nil {
			log.Error("failed to mark task as failed", slog.String("error", err.Error()))
		}
		return
	}

	task, err := factory.Restore(rec)
	if err != nil {
		log.Error("failed to restore task", slog.String("error", err.Error()))
		if err := r.store.UpdateTaskStatus(ctx, rec.ID, TaskStatusFailed, err.Error()); err != nil {
			log.Error("failed to mark task as failed", slog.String("error", err.Error()))
		}
		return
	}

	if err := r.queue.Enqueue(task); err != nil {
		log.Error("failed to requeue task", slog.String("error", err.Error()))
	}
}

// processTask handles execution of a single task
func (r *TaskRunner) processTask(ctx context.Context, task Task, workerID int) error {
	log := r.logger.With(
		slog.String("task_id", task.ID().String()),
		slog.String("task_type", task.Type()),
		slog.Int("worker_id", workerID),
	)
	ctx = logger.WithLogger(ctx, log)
	// Status writes must land even while the runner shuts down.
	statusCtx := context.WithoutCancel(ctx)

	if err := r.store.UpdateTaskStatus(statusCtx, task.ID(), TaskStatusProcessing, ""); err != nil {
		return fmt.Errorf("failed to update task status to processing: %w", err)
	}

	log.Info("processing task")
	start := time.Now()

	if err := task.Execute(ctx); err != nil {
		if updateErr := r.store.UpdateTaskStatus(statusCtx, task.ID(), TaskStatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update task status to failed", slog.String("error", updateErr.Error()))
		}
		return err
	}

	log.Info("task completed successfully", slog.Duration("duration", time.Since(start)))
	if err := r.store.UpdateTaskStatus(statusCtx, task.ID(), TaskStatusCompleted, ""); err != nil {
		log.Error("failed to update task status to completed", slog.String("error", err.Error()))
	}
	return nil
}

// stuckTaskMonitor periodically checks for tasks that have been in "processing"
// state for too long and resets them
func (r *TaskRunner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckTaskCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			stuck, err := r.store.GetProcessingTasks(r.ctx, r.config.StuckTaskAge)
			if err != nil {
				r.logger.Error("failed to check for stuck tasks", slog.String("error", err.Error()))
				continue
			}
			if len(stuck) == 0 {
				continue
			}

			r.logger.Info("found stuck tasks", slog.Int("count", len(stuck)))
			for _, rec := range stuck {
				if err := r.store.UpdateTaskStatus(r.ctx, rec.ID, TaskStatusPending,
					"Reset after being stuck in processing state"); err != nil {
					r.logger.Error("failed to reset stuck task status",
						slog.String("task_id", rec.ID.String()),
						slog.String("task_type", rec.Type),
						slog.String("error", err.Error()))
					continue
				}
				r.requeue(r.ctx, rec)
			}
		}
	}
}
