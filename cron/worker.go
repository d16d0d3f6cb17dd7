package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mindease/config"
	appointmentRepo "mindease/database/repository/appointment"
	directoryRepo "mindease/database/repository/directory"
	"mindease/models"
	"mindease/services/notification"
	"mindease/tasks"

	"github.com/hibiken/asynq"
)

// InitBackgroundWorker runs the async worker in background. Everything it
// processes is fire-and-forget work: directory write-backs, appointment
// summaries and confirmation pushes. A task that exhausts its retries is
// logged as a dead letter and dropped; nothing here ever reaches a caller.
func InitBackgroundWorker(
	dirRepo directoryRepo.DirectoryRepository,
	apptRepo appointmentRepo.AppointmentRepository,
	notifSvc notification.NotificationService,
) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueBackground: 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				if retried >= maxRetry {
					log.Printf("[BackgroundWorker] dead letter: task %s dropped after %d attempts: %v",
						task.Type(), retried+1, err)
				}
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDirectoryWriteBack, handleDirectoryWriteBack(dirRepo))
	mux.HandleFunc(tasks.TypeAppointmentSummary, handleAppointmentSummary(apptRepo))
	mux.HandleFunc(tasks.TypeConfirmationPush, handleConfirmationPush(notifSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[BackgroundWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[BackgroundWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[BackgroundWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleDirectoryWriteBack(repo directoryRepo.DirectoryRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.WriteBackPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[BackgroundWorker] invalid write-back payload: %v", err)
			return err
		}
		if err := repo.UpsertFromClinic(ctx, p.Rows); err != nil {
			log.Printf("[BackgroundWorker] directory write-back failed: %v", err)
			return err
		}
		return nil
	}
}

func handleAppointmentSummary(repo appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var s models.AppointmentSummary
		if err := json.Unmarshal(task.Payload(), &s); err != nil {
			log.Printf("[BackgroundWorker] invalid summary payload: %v", err)
			return err
		}
		if err := repo.InsertSummary(ctx, &s); err != nil {
			log.Printf("[BackgroundWorker] summary insert failed: %v", err)
			return err
		}
		return nil
	}
}

func handleConfirmationPush(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.PushPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[BackgroundWorker] invalid push payload: %v", err)
			return err
		}
		if err := notifSvc.SendPush(ctx, p.DeviceToken, p.Title, p.Body, p.Data); err != nil {
			log.Printf("[BackgroundWorker] push send failed: %v", err)
			return err
		}
		return nil
	}
}
