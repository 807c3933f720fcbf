package services

import (
	"context"
	"testing"
	"time"

	"github.com/hopefund/backend/internal/config"
)

func TestTaskTypeImpact_Constant(t *testing.T) {
	if TaskTypeImpact != "impact:analyze" {
		t.Errorf("TaskTypeImpact = %q, expected %q", TaskTypeImpact, "impact:analyze")
	}
}

func TestSyncQueue_DispatchesToProcessor(t *testing.T) {
	q := NewSyncQueue()

	done := make(chan *ImpactTask, 1)
	q.SetProcessor(func(ctx context.Context, task *ImpactTask) error {
		done <- task
		return nil
	})

	task := &ImpactTask{ProjectID: 7, Title: "Clean Water Wells", Description: "wells"}
	if err := q.Enqueue(task); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	select {
	case got := <-done:
		if got.ProjectID != 7 {
			t.Errorf("ProjectID = %d, expected 7", got.ProjectID)
		}
		if got.Title != "Clean Water Wells" {
			t.Errorf("Title = %q", got.Title)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("processor was not invoked")
	}
}

func TestSyncQueue_NoProcessor(t *testing.T) {
	q := NewSyncQueue()

	// Enqueue without a processor drops the task but must not error: the
	// analysis is best-effort.
	if err := q.Enqueue(&ImpactTask{ProjectID: 1}); err != nil {
		t.Errorf("Enqueue() without processor error = %v", err)
	}

	if q.IsAsync() {
		t.Error("SyncQueue.IsAsync() should be false")
	}
	if err := q.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestInitTaskQueue_RedisDisabled(t *testing.T) {
	cfg := &config.Config{}

	q := InitTaskQueue(cfg)
	if q.IsAsync() {
		t.Error("queue should run in sync mode when Redis is disabled")
	}
}
