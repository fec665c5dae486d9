package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// ProcessFunc runs one task on behalf of a worker.
type ProcessFunc func(ctx context.Context, t Task, workerID int) error

// WorkerPoolConfig configures a WorkerPool.
type WorkerPoolConfig struct {
	// WorkerCount is the number of goroutines; values below 1 mean 1.
	WorkerCount int

	// Process defaults to calling Task.Execute.
	Process ProcessFunc

	// OnError is called after a task returns an error or panics.
	OnError func(t Task, err error)
}

// WorkerPool drains a TaskSource with a fixed number of goroutines.
type WorkerPool struct {
	source  TaskSource
	workers int
	process ProcessFunc
	onError func(t Task, err error)
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorkerPool(source TaskSource, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	process := config.Process
	if process == nil {
		process = func(ctx context.Context, t Task, _ int) error { return t.Execute(ctx) }
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		source:  source,
		workers: max(config.WorkerCount, 1),
		process: process,
		onError: config.OnError,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers. They exit on Stop or when the source closes.
func (p *WorkerPool) Start() {
	p.logger.Info("starting worker pool", slog.Int("workers", p.workers))
	for id := 0; id < p.workers; id++ {
		p.wg.Add(1)
		go p.loop(id)
	}
}

// Stop cancels the context handed to in-flight tasks and waits for every
// worker to return.
func (p *WorkerPool) Stop() {
	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *WorkerPool) loop(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-p.source.Tasks():
			if !ok {
				return
			}
			if err := p.runOne(t, id); err != nil {
				p.logger.Error("task execution failed",
					slog.String("task_id", t.ID().String()),
					slog.String("task_type", t.Type()),
					slog.Int("worker_id", id),
					slog.String("error", err.Error()))
				if p.onError != nil {
					p.onError(t, err)
				}
			}
		}
	}
}

func (p *WorkerPool) runOne(t Task, workerID int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v", r)
		}
	}()
	return p.process(p.ctx, t, workerID)
}
