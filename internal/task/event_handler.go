package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/damu-app/damu-api/internal/events"
)

// TaskSubmitter accepts tasks for background execution
type TaskSubmitter interface {
	Submit(ctx context.Context, task Task) error
}

// TaskFactoryEventHandler implements the events.EventHandler interface
// to handle task creation events and delegate them to the appropriate task factory.
type TaskFactoryEventHandler struct {
	factory TaskFactory
	runner  TaskSubmitter
	logger  *slog.Logger
}

// NewTaskFactoryEventHandler creates a new event handler that uses the given task factory
// to create tasks, and submits them to the provided task runner.
func NewTaskFactoryEventHandler(factory TaskFactory, runner TaskSubmitter, logger *slog.Logger) *TaskFactoryEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskFactoryEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With(slog.String("component", "task_factory_event_handler")),
	}
}

// HandleEvent builds a task from events of the factory's type and submits
// it to the runner. Events of other types are ignored.
func (h *TaskFactoryEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	log := h.logger.With(
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type))

	if event.Type != h.factory.TaskType() {
		log.Debug("ignoring event with unsupported type")
		return nil
	}

	task, err := h.factory.NewTask(event.Payload)
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, task); err != nil {
		log.Error("failed to submit task",
			slog.String("task_id", task.ID().String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to submit task: %w", err)
	}

	log.Info("task created and submitted successfully", slog.String("task_id", task.ID().String()))
	return nil
}

// Ensure TaskFactoryEventHandler implements events.EventHandler
var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)
