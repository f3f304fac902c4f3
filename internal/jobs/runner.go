// Package jobs provides the asynchronous dispatch channel between source
// adapters and batch work such as the aggregation recompute. Submission is
// fire-and-forget: a full queue drops the request with a warning and the
// next successful trigger catches up.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"devmap/internal/logging"
)

// Handler executes one kind of background work
type Handler func(ctx context.Context) error

// Runner owns the dispatch queue and the single worker that drains it
type Runner struct {
	handlers map[string]Handler
	queue    chan string
	logger   *logging.Logger

	done chan struct{}
	mu   sync.RWMutex
	wg   sync.WaitGroup

	processedCount int64
	failedCount    int64
	droppedCount   int64
}

// NewRunner creates a runner with the given queue capacity
func NewRunner(queueSize int, logger *logging.Logger) *Runner {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Runner{
		handlers: make(map[string]Handler),
		queue:    make(chan string, queueSize),
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Register registers the handler for a job name
func (r *Runner) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Start begins draining the queue
func (r *Runner) Start() {
	r.wg.Add(1)
	go r.worker()
}

// Stop shuts the runner down, waiting up to timeout for in-flight work
func (r *Runner) Stop(timeout time.Duration) error {
	close(r.done)

	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("job runner shutdown timed out after %v", timeout)
	}
}

// Submit enqueues one dispatch without blocking. A full queue is reported
// as an error; callers log it and move on, they never retry or roll back.
func (r *Runner) Submit(name string) error {
	select {
	case <-r.done:
		return fmt.Errorf("runner is shutting down")
	default:
	}

	select {
	case r.queue <- name:
		return nil
	default:
		r.mu.Lock()
		r.droppedCount++
		r.mu.Unlock()
		return fmt.Errorf("job queue full, dropped %q", name)
	}
}

// Trigger is a Submit handle bound to one job name, handed to components
// that fire it without knowing the runner
type Trigger struct {
	runner *Runner
	name   string
}

// TriggerFor returns a fire-and-forget handle for a registered job name
func (r *Runner) TriggerFor(name string) *Trigger {
	return &Trigger{runner: r, name: name}
}

// Fire submits the bound job
func (t *Trigger) Fire() error {
	return t.runner.Submit(t.name)
}

func (r *Runner) worker() {
	defer r.wg.Done()

	for {
		select {
		case name := <-r.queue:
			r.process(name)
		case <-r.done:
			return
		}
	}
}

func (r *Runner) process(name string) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		r.logger.Error("No handler for job", map[string]interface{}{"job": name})
		return
	}

	start := time.Now()
	err := handler(context.Background())
	duration := time.Since(start)

	r.mu.Lock()
	if err != nil {
		r.failedCount++
	} else {
		r.processedCount++
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("Job failed", map[string]interface{}{
			"job":      name,
			"error":    err.Error(),
			"duration": duration.String(),
		})
		return
	}
	r.logger.Debug("Job completed", map[string]interface{}{
		"job":      name,
		"duration": duration.String(),
	})
}

// Stats reports queue and completion counters
func (r *Runner) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return map[string]interface{}{
		"queueLength":    len(r.queue),
		"queueCapacity":  cap(r.queue),
		"processedTotal": r.processedCount,
		"failedTotal":    r.failedCount,
		"droppedTotal":   r.droppedCount,
	}
}
