package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// TaskQueue is a bounded in-memory buffer between Submit and the workers.
// Enqueue never blocks: a full queue is reported to the caller, and the
// task stays pending in the TaskStore until the next recovery.
type TaskQueue struct {
	mu     sync.Mutex
	ch     chan Task
	closed bool
	logger *slog.Logger
}

// NewTaskQueue creates a queue holding at most size tasks (minimum 1).
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskQueue{
		ch:     make(chan Task, max(size, 1)),
		logger: logger,
	}
}

func (q *TaskQueue) Enqueue(t Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ch <- t:
		q.logger.Debug("task queued",
			slog.String("task_id", t.ID().String()),
			slog.String("task_type", t.Type()),
			slog.Int("depth", len(q.ch)))
		return nil
	default:
		return fmt.Errorf("%w (capacity %d)", ErrQueueFull, cap(q.ch))
	}
}

// Close rejects further Enqueue calls. Buffered tasks remain readable and
// the channel returned by Tasks is closed once drained.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// Tasks implements TaskSource.
func (q *TaskQueue) Tasks() <-chan Task {
	return q.ch
}
