package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/pkg/jobs"
)

type runRepoStub struct {
	err  error
	runs []models.ScheduleRun
}

func (r *runRepoStub) Create(_ context.Context, run *models.ScheduleRun) error {
	if r.err != nil {
		return r.err
	}
	r.runs = append(r.runs, *run)
	return nil
}

type failingQueue struct{}

func (failingQueue) Enqueue(jobs.Job) error { return jobs.ErrQueueFull }

func TestRunRecorderAssignsID(t *testing.T) {
	queue := &queueStub{}
	NewRunRecorder(queue, nil).Record(models.ScheduleRun{RequestKey: "k"})

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, runJobType, queue.jobs[0].Type)
	assert.NotEmpty(t, queue.jobs[0].ID)
	assert.Equal(t, queue.jobs[0].ID, queue.jobs[0].Payload.(models.ScheduleRun).ID)
}

func TestRunRecorderToleratesMissingOrFullQueue(t *testing.T) {
	assert.NotPanics(t, func() {
		var nilRecorder *RunRecorder
		nilRecorder.Record(models.ScheduleRun{})
		NewRunRecorder(nil, nil).Record(models.ScheduleRun{})
		NewRunRecorder(failingQueue{}, nil).Record(models.ScheduleRun{})
	})
}

func TestRunWorkerHandle(t *testing.T) {
	repo := &runRepoStub{}
	metrics := NewMetricsService()
	worker := NewRunWorker(repo, metrics, nil)

	err := worker.Handle(context.Background(), jobs.Job{ID: "run-1", Payload: models.ScheduleRun{ID: "run-1", Found: true}})
	require.NoError(t, err)
	require.Len(t, repo.runs, 1)
	assert.True(t, repo.runs[0].Found)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.runLogWrites.WithLabelValues("ok")))

	// Unknown payloads are dropped rather than retried.
	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "odd", Payload: "nope"}))

	repo.err = errors.New("db down")
	assert.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "run-2", Payload: models.ScheduleRun{ID: "run-2"}}))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.runLogWrites.WithLabelValues("error")))
}

func TestRunWorkerThroughQueue(t *testing.T) {
	repo := &runRepoStub{}
	queue := jobs.NewQueue("schedule-runs", NewRunWorker(repo, nil, nil).Handle, jobs.QueueConfig{Workers: 1, BufferSize: 4})
	queue.Start(context.Background())

	recorder := NewRunRecorder(queue, nil)
	recorder.Record(models.ScheduleRun{RequestKey: "a"})
	recorder.Record(models.ScheduleRun{RequestKey: "b"})
	require.NoError(t, queue.Stop(context.Background()))

	require.Len(t, repo.runs, 2)
	assert.Equal(t, "a", repo.runs[0].RequestKey)
	assert.Equal(t, "b", repo.runs[1].RequestKey)
}
