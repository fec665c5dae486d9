package task

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskQueue_EnqueueUntilFull(t *testing.T) {
	q := NewTaskQueue(2, discardLogger())

	first := NewMockTask(uuid.New(), mockTaskType, nil)
	require.NoError(t, q.Enqueue(first))
	require.NoError(t, q.Enqueue(NewMockTask(uuid.New(), mockTaskType, nil)))

	err := q.Enqueue(NewMockTask(uuid.New(), mockTaskType, nil))
	assert.ErrorIs(t, err, ErrQueueFull)

	got := <-q.Tasks()
	assert.Equal(t, first.ID(), got.ID(), "tasks come out in submission order")
	assert.NoError(t, q.Enqueue(NewMockTask(uuid.New(), mockTaskType, nil)))
}

func TestTaskQueue_MinimumCapacity(t *testing.T) {
	q := NewTaskQueue(0, nil)
	require.NoError(t, q.Enqueue(NewMockTask(uuid.New(), mockTaskType, nil)))
	assert.ErrorIs(t, q.Enqueue(NewMockTask(uuid.New(), mockTaskType, nil)), ErrQueueFull)
}

func TestTaskQueue_CloseDrainsBufferedTasks(t *testing.T) {
	q := NewTaskQueue(4, discardLogger())
	buffered := NewMockTask(uuid.New(), mockTaskType, nil)
	require.NoError(t, q.Enqueue(buffered))

	q.Close()
	q.Close()

	assert.ErrorIs(t, q.Enqueue(NewMockTask(uuid.New(), mockTaskType, nil)), ErrQueueClosed)

	got, ok := <-q.Tasks()
	require.True(t, ok)
	assert.Equal(t, buffered.ID(), got.ID())

	_, ok = <-q.Tasks()
	assert.False(t, ok)
}

func TestTaskQueue_ConcurrentEnqueue(t *testing.T) {
	const producers, perProducer = 8, 25
	q := NewTaskQueue(producers*perProducer, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				assert.NoError(t, q.Enqueue(NewMockTask(uuid.New(), mockTaskType, nil)))
			}
		}()
	}
	wg.Wait()
	q.Close()

	seen := make(map[uuid.UUID]bool)
	for task := range q.Tasks() {
		seen[task.ID()] = true
	}
	assert.Len(t, seen, producers*perProducer)
}
