package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Task is one named unit of work for the ParallelExecutor
type Task struct {
	Name    string
	Enabled bool
	Run     func(context.Context) error
}

// ParallelExecutor runs independent tasks concurrently and reports every
// failure
type ParallelExecutor struct {
	maxConcurrency int
	timeout        time.Duration
}

// NewParallelExecutor creates an executor without a concurrency limit
func NewParallelExecutor() *ParallelExecutor {
	return &ParallelExecutor{timeout: 30 * time.Minute}
}

// SetMaxConcurrency limits the number of tasks running at once. Zero means no limit.
func (pe *ParallelExecutor) SetMaxConcurrency(max int) {
	pe.maxConcurrency = max
}

// SetTimeout bounds the whole run. Zero disables the timeout.
func (pe *ParallelExecutor) SetTimeout(timeout time.Duration) {
	pe.timeout = timeout
}

// Execute runs the enabled tasks and waits for all of them. Tasks must not
// write to shared state.
func (pe *ParallelExecutor) Execute(ctx context.Context, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if pe.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pe.timeout)
		defer cancel()
	}

	var semaphore chan struct{}
	if pe.maxConcurrency > 0 {
		semaphore = make(chan struct{}, pe.maxConcurrency)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(tasks))
	for i, task := range tasks {
		if !task.Enabled {
			continue
		}
		wg.Add(1)
		go func(i int, t Task) {
			defer wg.Done()
			if semaphore != nil {
				select {
				case semaphore <- struct{}{}:
					defer func() { <-semaphore }()
				case <-ctx.Done():
					errs[i] = fmt.Errorf("task %s cancelled: %w", t.Name, ctx.Err())
					return
				}
			}
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("task %s cancelled: %w", t.Name, err)
				return
			}
			if t.Run == nil {
				errs[i] = fmt.Errorf("task %s has no run function", t.Name)
				return
			}
			if err := t.Run(ctx); err != nil {
				errs[i] = fmt.Errorf("task %s failed: %w", t.Name, err)
			}
		}(i, task)
	}
	wg.Wait()
	return errors.Join(errs...)
}
