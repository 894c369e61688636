package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/pkg/jobs"
)

const runJobType = "schedule_run"

// ScheduleRunRepository persists generation audit records.
type ScheduleRunRepository interface {
	Create(ctx context.Context, run *models.ScheduleRun) error
}

// RunQueue accepts background jobs.
type RunQueue interface {
	Enqueue(job jobs.Job) error
}

// RunRecorder hands generation records to the background queue.
type RunRecorder struct {
	queue  RunQueue
	logger *zap.Logger
}

// NewRunRecorder builds a recorder. A nil queue disables recording.
func NewRunRecorder(queue RunQueue, logger *zap.Logger) *RunRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunRecorder{queue: queue, logger: logger}
}

// Record enqueues run without waiting for it to be stored.
func (r *RunRecorder) Record(run models.ScheduleRun) {
	if r == nil || r.queue == nil {
		return
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := r.queue.Enqueue(jobs.Job{ID: run.ID, Type: runJobType, Payload: run}); err != nil {
		r.logger.Warn("schedule run dropped", zap.String("run_id", run.ID), zap.Error(err))
	}
}

// RunWorker stores queued generation records.
type RunWorker struct {
	repo    ScheduleRunRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewRunWorker constructs the queue handler.
func NewRunWorker(repo ScheduleRunRepository, metrics *MetricsService, logger *zap.Logger) *RunWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunWorker{repo: repo, metrics: metrics, logger: logger}
}

// Handle implements jobs.Handler.
func (w *RunWorker) Handle(ctx context.Context, job jobs.Job) error {
	run, ok := job.Payload.(models.ScheduleRun)
	if !ok {
		w.logger.Error("unexpected run payload", zap.String("job_id", job.ID), zap.String("type", fmt.Sprintf("%T", job.Payload)))
		return nil
	}
	err := w.repo.Create(ctx, &run)
	w.metrics.RecordRunLogWrite(err)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	w.logger.Debug("schedule run stored", zap.String("run_id", run.ID), zap.Int("attempt", job.Attempt))
	return nil
}
