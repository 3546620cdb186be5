// Package tasks runs fire-and-forget side effects on a bounded queue,
// decoupled from the request/response lifecycle.
package tasks

import (
	"context"
	"sync"
	"time"

	"storefront/internal/logger"
)

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Runner executes submitted tasks on a fixed worker pool. A task that
// fails is logged and dropped; nothing is retried here — bounded
// retries belong to the storage round trip inside the task itself.
type Runner struct {
	logger  *logger.Logger
	queue   chan task
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRunner starts workers draining a queue of the given size. Each
// task gets its own context bounded by timeout.
func NewRunner(log *logger.Logger, queueSize, workers int, timeout time.Duration) *Runner {
	if workers < 1 {
		workers = 1
	}
	r := &Runner{
		logger:  log,
		queue:   make(chan task, queueSize),
		timeout: timeout,
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.work()
	}
	return r
}

// Submit enqueues a task without blocking. When the queue is full the
// task is dropped and the drop is logged; the caller's response must
// never wait on a side effect.
func (r *Runner) Submit(name string, fn func(ctx context.Context) error) bool {
	select {
	case r.queue <- task{name: name, fn: fn}:
		return true
	default:
		r.logger.Warn("task queue full, dropping %s", name)
		return false
	}
}

func (r *Runner) work() {
	defer r.wg.Done()
	for t := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		if err := t.fn(ctx); err != nil {
			r.logger.Error("background task %s failed: %v", t.name, err)
		}
		cancel()
	}
}

// Close drains the queue and waits for in-flight tasks. Submit must not
// be called after Close.
func (r *Runner) Close() {
	close(r.queue)
	r.wg.Wait()
}
