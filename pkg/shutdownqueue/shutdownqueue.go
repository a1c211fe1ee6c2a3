// Package shutdownqueue collects named cleanup tasks and runs them in
// reverse registration order when the process stops.
//
// Most callers use the process-wide queue:
//
//	shutdownqueue.Add("http server", srv.Shutdown)
//	...
//	err := shutdownqueue.Shutdown(ctx)
//
// Tasks run once. A panicking task is recorded as an error and the drain
// continues. Shutdown is idempotent and joins task errors with errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is a shutdown function. It should honor ctx.
type Task func(ctx context.Context) error

type namedTask struct {
	name string
	run  Task
}

// Queue is a LIFO list of shutdown tasks. The zero value is ready to use.
type Queue struct {
	mu     sync.Mutex
	tasks  []namedTask
	closed bool
}

func New() *Queue {
	return &Queue{}
}

// Add registers t under name. Nil tasks and tasks added once Shutdown has
// started are ignored.
func (q *Queue) Add(name string, t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		slog.Warn("shutdown task registered after shutdown started", "task", name)
		return
	}

	q.tasks = append(q.tasks, namedTask{name: name, run: t})
}

// Len reports the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.tasks)
}

// Shutdown drains the queue in LIFO order. If ctx ends mid-drain the
// remaining tasks are skipped and the context error is part of the result.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		t := tasks[i]

		err := ctx.Err()
		if err != nil {
			slog.Warn("shutdown interrupted", "skipped", i+1, "error", err)
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", err))

			return errors.Join(errs...)
		}

		err = runTask(ctx, t)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func runTask(ctx context.Context, t namedTask) (err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic in shutdown task: %v", t.name, r)
		}

		if err != nil {
			slog.Error("shutdown task failed", "task", t.name, "error", err)
			return
		}

		slog.Info("shutdown task done", "task", t.name, "took", time.Since(start))
	}()

	err = t.run(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", t.name, err)
	}

	return nil
}

var std = New()

// Add registers t on the process-wide queue.
func Add(name string, t Task) {
	std.Add(name, t)
}

// Shutdown drains the process-wide queue.
func Shutdown(ctx context.Context) error {
	return std.Shutdown(ctx)
}
