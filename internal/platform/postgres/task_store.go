package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/damu-app/damu-api/internal/platform/logger"
	"github.com/damu-app/damu-api/internal/store"
	"github.com/damu-app/damu-api/internal/task"
	"github.com/google/uuid"
)

// PostgresTaskStore implements the task.TaskStore interface using PostgreSQL
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgresTaskStore
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ task.TaskStore = (*PostgresTaskStore)(nil)

// SaveTask persists a task to the database
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID(), t.Type(), t.Payload(), string(t.Status()), now, now)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to save task",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "save", MapError(err))
	}
	return nil
}

// UpdateTaskStatus updates the status of a task. Updating a task that does
// not exist is a no-op.
func (s *PostgresTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("task_id", taskID.String()),
		slog.String("status", string(status)))

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4`,
		string(status), sql.NullString{String: errorMsg, Valid: errorMsg != ""}, time.Now().UTC(), taskID)
	if err != nil {
		log.Error("failed to update task status", slog.String("error", err.Error()))
		return store.NewStoreError("task", "update status", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Warn("no task found to update status", slog.String("error", err.Error()))
	}
	return nil
}

// GetPendingTasks retrieves all tasks with "pending" status
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.TaskRecord, error) {
	return s.recordsByStatus(ctx, task.TaskStatusPending, 0)
}

// GetProcessingTasks retrieves tasks with "processing" status
func (s *PostgresTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]task.TaskRecord, error) {
	return s.recordsByStatus(ctx, task.TaskStatusProcessing, olderThan)
}

// recordsByStatus lists tasks in status, oldest first. A positive olderThan
// keeps only tasks whose last update is older than that.
func (s *PostgresTaskStore) recordsByStatus(
	ctx context.Context,
	status task.TaskStatus,
	olderThan time.Duration,
) ([]task.TaskRecord, error) {
	query := `
		SELECT id, type, payload, status, error_message, created_at, updated_at
		FROM tasks
		WHERE status = $1`
	args := []interface{}{string(status)}
	if olderThan > 0 {
		query += ` AND updated_at < $2`
		args = append(args, time.Now().UTC().Add(-olderThan))
	}
	query += ` ORDER BY created_at ASC`

	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("status", string(status)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks by status", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list by status", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var records []task.TaskRecord
	for rows.Next() {
		var (
			rec    task.TaskRecord
			st     string
			errMsg sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Payload, &st, &errMsg, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		rec.Status = task.TaskStatus(st)
		rec.ErrorMessage = errMsg.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}
	return records, nil
}
