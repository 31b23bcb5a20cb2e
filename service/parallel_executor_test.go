package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/refakt/domain"
)

func TestExecute_EmptyTaskList(t *testing.T) {
	errs := NewParallelExecutor().Execute(context.Background(), nil)
	assert.Empty(t, errs)
}

func TestExecute_AllTasksRun(t *testing.T) {
	var count int32
	tasks := []domain.ExecutableTask{
		NewSimpleTask("one", func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}),
		NewSimpleTask("two", func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}),
		NewSimpleTask("three", func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}),
	}

	errs := NewParallelExecutor().Execute(context.Background(), tasks)

	require.Len(t, errs, 3)
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&count))
}

func TestExecute_ErrorsAreIndexAligned(t *testing.T) {
	boom := errors.New("boom")
	tasks := []domain.ExecutableTask{
		NewSimpleTask("ok", func(ctx context.Context) error { return nil }),
		NewSimpleTask("broken", func(ctx context.Context) error { return boom }),
		NewSimpleTask("also-ok", func(ctx context.Context) error { return nil }),
	}

	errs := NewParallelExecutor().Execute(context.Background(), tasks)

	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	require.Error(t, errs[1])
	assert.ErrorIs(t, errs[1], boom)
	assert.Contains(t, errs[1].Error(), "broken")
	assert.NoError(t, errs[2])
}

func TestExecute_TaskTimeout(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetTaskTimeout(20 * time.Millisecond)

	tasks := []domain.ExecutableTask{
		NewSimpleTask("slow", func(ctx context.Context) error {
			time.Sleep(500 * time.Millisecond)
			return nil
		}),
	}

	errs := executor.Execute(context.Background(), tasks)

	require.Len(t, errs, 1)
	require.Error(t, errs[0])

	var derr domain.DomainError
	require.ErrorAs(t, errs[0], &derr)
	assert.Equal(t, domain.ErrCodeTimeout, derr.Code)
}

func TestExecute_PanicContained(t *testing.T) {
	tasks := []domain.ExecutableTask{
		NewSimpleTask("panicky", func(ctx context.Context) error {
			panic("unexpected state")
		}),
		NewSimpleTask("steady", func(ctx context.Context) error { return nil }),
	}

	errs := NewParallelExecutor().Execute(context.Background(), tasks)

	require.Len(t, errs, 2)
	require.Error(t, errs[0])
	assert.Contains(t, errs[0].Error(), "panicked")
	assert.NoError(t, errs[1])
}

func TestExecute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tasks := []domain.ExecutableTask{
		NewSimpleTask("never-runs", func(ctx context.Context) error {
			t.Error("task should not execute after cancellation")
			return nil
		}),
	}

	errs := NewParallelExecutor().Execute(ctx, tasks)

	require.Len(t, errs, 1)
	require.Error(t, errs[0])
	assert.Contains(t, errs[0].Error(), "cancelled")
}

func TestExecute_ConcurrencyBound(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(1)

	var running, maxRunning int32
	task := func(ctx context.Context) error {
		now := atomic.AddInt32(&running, 1)
		if now > atomic.LoadInt32(&maxRunning) {
			atomic.StoreInt32(&maxRunning, now)
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil
	}

	errs := executor.Execute(context.Background(), []domain.ExecutableTask{
		NewSimpleTask("a", task),
		NewSimpleTask("b", task),
		NewSimpleTask("c", task),
	})

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning))
}

func TestSimpleTask_NilExecute(t *testing.T) {
	task := NewSimpleTask("empty", nil)

	err := task.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no execute function")
}
