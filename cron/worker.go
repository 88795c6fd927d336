package cron

import (
	"context"
	"fmt"
	"time"

	"repairhub/models"
	"repairhub/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Notifier delivers a queued push payload.
type Notifier interface {
	Deliver(ctx context.Context, p models.NotificationPayload) error
}

// Snapshotter stores the current dashboard aggregate.
type Snapshotter interface {
	SaveSnapshot(ctx context.Context) (models.StatsSnapshot, error)
}

// Worker runs the asynq server and the periodic snapshot scheduler.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	logger    *zap.Logger
}

// NewWorker registers the task handlers. snapshotCron is an asynq cron spec
// such as "@every 1h"; an empty spec disables the scheduler.
func NewWorker(opt asynq.RedisClientOpt, notifier Notifier, snapshots Snapshotter, snapshotCron string, logger *zap.Logger) (*Worker, error) {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			tasks.QueueCritical: 6,
			tasks.QueueDefault:  3,
		},
		Logger: logger.Sugar(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendNotification, handleNotificationTask(notifier, logger))
	mux.HandleFunc(tasks.TypeStatsSnapshot, handleSnapshotTask(snapshots, logger))

	w := &Worker{server: srv, mux: mux, logger: logger}
	if snapshotCron != "" {
		w.scheduler = asynq.NewScheduler(opt, &asynq.SchedulerOpts{Logger: logger.Sugar()})
		if _, err := w.scheduler.Register(snapshotCron, tasks.NewStatsSnapshotTask()); err != nil {
			return nil, fmt.Errorf("register %s schedule %q: %w", tasks.TypeStatsSnapshot, snapshotCron, err)
		}
	}
	return w, nil
}

// Start launches the worker, retrying with a growing delay if Redis is not
// reachable yet.
func (w *Worker) Start() {
	go func() {
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.server.Start(w.mux)
			if err == nil {
				w.logger.Info("task worker started")
				return
			}
			w.logger.Error("task worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
		w.logger.Error("task worker gave up after max retry attempts")
	}()

	if w.scheduler != nil {
		go func() {
			if err := w.scheduler.Start(); err != nil {
				w.logger.Error("snapshot scheduler failed to start", zap.Error(err))
			}
		}()
	}
}

// Shutdown stops the scheduler and drains in-flight tasks.
func (w *Worker) Shutdown() {
	if w.scheduler != nil {
		w.scheduler.Shutdown()
	}
	w.server.Shutdown()
}

func handleNotificationTask(notifier Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseNotificationTask(task)
		if err != nil {
			logger.Error("invalid notification payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if p.Target != models.TargetUser && p.Target != models.TargetTechnician {
			logger.Warn("unknown notification target", zap.String("target", p.Target))
			return nil
		}
		if err := notifier.Deliver(ctx, p); err != nil {
			logger.Error("failed to send notification", zap.String("target", p.Target), zap.String("id", p.ID), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleSnapshotTask(snapshots Snapshotter, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		snap, err := snapshots.SaveSnapshot(ctx)
		if err != nil {
			logger.Error("stats snapshot failed", zap.Error(err))
			return err
		}
		logger.Info("stats snapshot stored",
			zap.String("id", snap.ID),
			zap.Int("totalAppointments", snap.Stats.TotalAppointments),
		)
		return nil
	}
}
