package jobs

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"devmap/internal/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Level:  logging.ErrorLevel,
		Format: logging.JSONFormat,
		Output: io.Discard,
	})
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestRunnerProcessesSubmittedJob(t *testing.T) {
	r := NewRunner(4, testLogger())

	var runs int64
	r.Register("tick", func(ctx context.Context) error {
		atomic.AddInt64(&runs, 1)
		return nil
	})

	r.Start()
	defer r.Stop(time.Second)

	if err := r.Submit("tick"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	waitFor(t, func() bool { return atomic.LoadInt64(&runs) == 1 }, "job never ran")
}

func TestRunnerTriggerFires(t *testing.T) {
	r := NewRunner(4, testLogger())

	var runs int64
	r.Register("aggregate", func(ctx context.Context) error {
		atomic.AddInt64(&runs, 1)
		return nil
	})

	r.Start()
	defer r.Stop(time.Second)

	trigger := r.TriggerFor("aggregate")
	if err := trigger.Fire(); err != nil {
		t.Fatalf("Fire failed: %v", err)
	}

	waitFor(t, func() bool { return atomic.LoadInt64(&runs) == 1 }, "trigger never dispatched")
}

func TestRunnerFullQueueDrops(t *testing.T) {
	r := NewRunner(1, testLogger())
	r.Register("slow", func(ctx context.Context) error { return nil })
	// Not started: nothing drains the queue

	if err := r.Submit("slow"); err != nil {
		t.Fatalf("First submit should fit the queue: %v", err)
	}
	if err := r.Submit("slow"); err == nil {
		t.Error("Expected drop error for full queue")
	}

	stats := r.Stats()
	if stats["droppedTotal"].(int64) != 1 {
		t.Errorf("Expected 1 dropped, got %v", stats["droppedTotal"])
	}
}

func TestRunnerFailedJobCounted(t *testing.T) {
	r := NewRunner(4, testLogger())
	r.Register("boom", func(ctx context.Context) error {
		return fmt.Errorf("handler error")
	})

	r.Start()
	defer r.Stop(time.Second)

	if err := r.Submit("boom"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	waitFor(t, func() bool {
		return r.Stats()["failedTotal"].(int64) == 1
	}, "failure never counted")
}

func TestRunnerSubmitAfterStop(t *testing.T) {
	r := NewRunner(4, testLogger())
	r.Register("tick", func(ctx context.Context) error { return nil })
	r.Start()

	if err := r.Stop(time.Second); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := r.Submit("tick"); err == nil {
		t.Error("Expected error submitting after shutdown")
	}
}
