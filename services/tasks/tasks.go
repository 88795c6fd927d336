package tasks

import (
	"encoding/json"
	"fmt"

	"repairhub/models"

	"github.com/hibiken/asynq"
)

// Task types handled by the worker.
const (
	TypeSendNotification = "notification:send"
	TypeStatsSnapshot    = "stats:snapshot"
)

// Queues.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

func NewNotificationTask(payload models.NotificationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal notification payload: %w", err)
	}
	task := asynq.NewTask(TypeSendNotification, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Queue(QueueCritical)}
	return task, opts, nil
}

// ParseNotificationTask decodes the payload of a TypeSendNotification task.
func ParseNotificationTask(t *asynq.Task) (models.NotificationPayload, error) {
	var p models.NotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("unmarshal notification payload: %w", err)
	}
	if p.ID == "" {
		return p, fmt.Errorf("notification payload has no recipient id")
	}
	return p, nil
}

func NewStatsSnapshotTask() *asynq.Task {
	return asynq.NewTask(TypeStatsSnapshot, nil, asynq.MaxRetry(2), asynq.Queue(QueueDefault))
}

// Enqueuer is the part of *asynq.Client used by services.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueueNotification queues a push message.
func EnqueueNotification(q Enqueuer, payload models.NotificationPayload) error {
	task, opts, err := NewNotificationTask(payload)
	if err != nil {
		return err
	}
	if _, err := q.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeSendNotification, err)
	}
	return nil
}
