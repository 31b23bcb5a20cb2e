package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/constants"
)

// ParallelExecutorImpl implements the ParallelExecutor interface
type ParallelExecutorImpl struct {
	maxConcurrency int
	taskTimeout    time.Duration
}

// NewParallelExecutor creates a new parallel executor
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: constants.DefaultEnrichmentWorkers,
		taskTimeout:    time.Duration(constants.DefaultEnrichmentTimeoutSeconds) * time.Second,
	}
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (pe *ParallelExecutorImpl) SetMaxConcurrency(n int) {
	if n > 0 {
		pe.maxConcurrency = n
	}
}

// SetTaskTimeout sets the per-task timeout
func (pe *ParallelExecutorImpl) SetTaskTimeout(timeout time.Duration) {
	if timeout > 0 {
		pe.taskTimeout = timeout
	}
}

// Execute runs tasks with bounded concurrency and a per-task timeout. The
// returned slice is index-aligned with the input: errs[i] is nil when task i
// succeeded. One task's failure never stops its siblings.
func (pe *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) []error {
	errs := make([]error, len(tasks))
	if len(tasks) == 0 {
		return errs
	}

	semaphore := make(chan struct{}, pe.maxConcurrency)
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(idx int, t domain.ExecutableTask) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			select {
			case <-ctx.Done():
				errs[idx] = fmt.Errorf("task %s cancelled: %w", t.Name(), ctx.Err())
				return
			default:
			}

			taskCtx, cancel := context.WithTimeout(ctx, pe.taskTimeout)
			defer cancel()

			errs[idx] = pe.runTask(taskCtx, t)
		}(i, task)
	}

	wg.Wait()
	return errs
}

// runTask executes one task and converts a deadline overrun into a domain
// timeout error. A panicking task is contained and reported as its own error.
func (pe *ParallelExecutorImpl) runTask(ctx context.Context, t domain.ExecutableTask) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("task %s panicked: %v", t.Name(), r)
			}
		}()
		done <- t.Execute(ctx)
	}()

	select {
	case execErr := <-done:
		if execErr != nil {
			return fmt.Errorf("task %s failed: %w", t.Name(), execErr)
		}
		return nil
	case <-ctx.Done():
		return domain.NewTimeoutError(t.Name())
	}
}

// SimpleTask is a basic implementation of ExecutableTask
type SimpleTask struct {
	name    string
	execute func(context.Context) error
}

// NewSimpleTask creates a new simple task
func NewSimpleTask(name string, execute func(context.Context) error) domain.ExecutableTask {
	return &SimpleTask{
		name:    name,
		execute: execute,
	}
}

// Name returns the name of the task
func (t *SimpleTask) Name() string {
	return t.name
}

// Execute runs the task
func (t *SimpleTask) Execute(ctx context.Context) error {
	if t.execute == nil {
		return fmt.Errorf("task %s has no execute function", t.name)
	}
	return t.execute(ctx)
}
