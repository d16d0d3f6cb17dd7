package tasks

import (
	"encoding/json"
	"fmt"

	"mindease/models"

	"github.com/hibiken/asynq"
)

// Background task types. All of them are fire-and-forget: their outcome is
// never awaited by, or surfaced to, the request that enqueued them.
const (
	TypeDirectoryWriteBack = "directory:writeback"
	TypeAppointmentSummary = "appointment:summary"
	TypeConfirmationPush   = "push:confirmation"
)

// Queue names. Everything here runs on the bounded background queue.
const QueueBackground = "background"

// WriteBackPayload carries the clinic snapshot for the directory self-heal.
type WriteBackPayload struct {
	Rows []models.ClinicProvider `json:"rows"`
}

// PushPayload carries one FCM push.
type PushPayload struct {
	DeviceToken string            `json:"deviceToken"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Data        map[string]string `json:"data,omitempty"`
}

// Queue enqueues background work. Production uses asynq; tests use a fake.
type Queue interface {
	Enqueue(taskType string, payload any) error
}

// AsynqQueue is the production Queue backed by Redis.
type AsynqQueue struct {
	client *asynq.Client
}

func NewAsynqQueue(client *asynq.Client) *AsynqQueue {
	return &AsynqQueue{client: client}
}

func (q *AsynqQueue) Enqueue(taskType string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	task := asynq.NewTask(taskType, b)
	if _, err := q.client.Enqueue(task, asynq.Queue(QueueBackground), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", taskType, err)
	}
	return nil
}
