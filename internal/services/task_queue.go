package services

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/hopefund/backend/internal/config"
	"github.com/hopefund/backend/pkg/logger"
)

const (
	TaskTypeImpact = "impact:analyze"
)

// ImpactTask carries everything the worker needs to score a project. The
// fields are copied rather than re-read so a slow queue never blocks on the
// projects table.
type ImpactTask struct {
	ProjectID   uint   `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskQueue decouples project creation from the impact analysis call. The
// analysis is best-effort: enqueueing must never fail the create flow.
type TaskQueue interface {
	// Enqueue adds a task to the queue
	Enqueue(task *ImpactTask) error
	// IsAsync returns true if the queue processes tasks out of process
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

// InitTaskQueue builds the task queue from config: Redis-backed when enabled
// and reachable, otherwise in-process goroutine dispatch.
func InitTaskQueue(cfg *config.Config) TaskQueue {
	if cfg.Redis.Enabled {
		queue, err := NewAsyncQueue(&cfg.Redis)
		if err != nil {
			logger.Warnf("[TaskQueue] Redis unavailable, falling back to sync mode: %v", err)
			return NewSyncQueue()
		}
		logger.Infof("[TaskQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
		return queue
	}
	logger.Infof("[TaskQueue] Sync queue initialized (Redis disabled)")
	return NewSyncQueue()
}

// AsyncQueue implements TaskQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

// NewAsyncQueue creates a new Redis-based async queue
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	client := asynq.NewClient(redisOpt)

	// Verify the connection before committing to async mode
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

// Enqueue adds an impact task to the async queue
func (q *AsyncQueue) Enqueue(task *ImpactTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeImpact, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Infof("[AsyncQueue] Impact task enqueued: id=%s, project_id=%d", info.ID, task.ProjectID)
	return nil
}

func (q *AsyncQueue) IsAsync() bool {
	return true
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue implements TaskQueue with in-process dispatch (no Redis)
type SyncQueue struct {
	processor func(context.Context, *ImpactTask) error
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

// SetProcessor sets the function that handles tasks
func (q *SyncQueue) SetProcessor(processor func(context.Context, *ImpactTask) error) {
	q.processor = processor
}

// Enqueue dispatches the task on a fresh goroutine so the create-project
// response never waits on the analysis endpoint.
func (q *SyncQueue) Enqueue(task *ImpactTask) error {
	if q.processor == nil {
		logger.Warnf("[SyncQueue] no processor set, impact task dropped for project %d", task.ProjectID)
		return nil
	}

	go func() {
		if err := q.processor(context.Background(), task); err != nil {
			logger.Warnf("[SyncQueue] impact task failed for project %d: %v", task.ProjectID, err)
		}
	}()

	return nil
}

func (q *SyncQueue) IsAsync() bool {
	return false
}

func (q *SyncQueue) Close() error {
	return nil
}
