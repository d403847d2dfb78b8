// Package worker moves notification dispatch onto a Redis-backed task queue
// so that only one process sends mail at a time when several replicas run
// the scheduler.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meetgrid/core/config"
	"meetgrid/core/logger"
	"meetgrid/modules/notification/dto"

	"github.com/hibiken/asynq"
)

const (
	TypeDispatch       = "notification:dispatch"
	QueueNotifications = "notifications"

	// dispatchUniqueTTL bounds how long an enqueued dispatch blocks another.
	dispatchUniqueTTL = time.Minute
)

// Dispatcher is the notification service as seen by the worker.
type Dispatcher interface {
	DispatchPending(ctx context.Context, limit int) (*dto.DispatchResult, error)
}

type dispatchPayload struct {
	Limit int `json:"limit"`
}

func NewDispatchTask(limit int) (*asynq.Task, error) {
	payload, err := json.Marshal(dispatchPayload{Limit: limit})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDispatch, payload), nil
}

// HandleDispatch runs one dispatch pass per task. A malformed payload is not
// retried.
func HandleDispatch(d Dispatcher) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p dispatchPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TypeDispatch, err, asynq.SkipRetry)
		}
		result, err := d.DispatchPending(ctx, p.Limit)
		if err != nil {
			logger.Error("Worker:HandleDispatch:Error:", err)
			return err
		}
		logger.Debug("Worker:HandleDispatch", "sent", result.Sent, "retrying", result.Retrying, "failed", result.Failed)
		return nil
	}
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// Queue enqueues dispatch tasks.
type Queue struct {
	client *asynq.Client
}

func NewQueue(cfg config.RedisConfig) *Queue {
	return &Queue{client: asynq.NewClient(redisOpt(cfg))}
}

// EnqueueDispatch asks some worker to run a dispatch pass. It is a no-op
// while another dispatch is still queued or running.
func (q *Queue) EnqueueDispatch(ctx context.Context, limit int) error {
	task, err := NewDispatchTask(limit)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(0),
		asynq.Unique(dispatchUniqueTTL),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Debug("Worker:EnqueueDispatch:Skipped", "reason", "dispatch already queued")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("Worker:EnqueueDispatch", "task_id", info.ID)
	return nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}

// Worker consumes dispatch tasks one at a time.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(cfg config.RedisConfig, d Dispatcher) *Worker {
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{QueueNotifications: 1},
		LogLevel:    asynq.WarnLevel,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDispatch, HandleDispatch(d))
	return &Worker{server: srv, mux: mux}
}

func (w *Worker) Start() error {
	return w.server.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}
