package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-scheduler-api/internal/models"
)

const scheduleRunColumns = `id, request_key, courses_count, constraints_count, preference, candidates, feasible, found, cache_hit, duration_ms, error_message, created_at`

// ScheduleRunRepository persists schedule generation audit records.
type ScheduleRunRepository struct {
	db *sqlx.DB
}

// NewScheduleRunRepository constructs the repository.
func NewScheduleRunRepository(db *sqlx.DB) *ScheduleRunRepository {
	return &ScheduleRunRepository{db: db}
}

// Create inserts a run, filling in the identifier and timestamp when missing.
func (r *ScheduleRunRepository) Create(ctx context.Context, run *models.ScheduleRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO schedule_runs (` + scheduleRunColumns + `)
VALUES (:id, :request_key, :courses_count, :constraints_count, :preference, :candidates, :feasible, :found, :cache_hit, :duration_ms, :error_message, :created_at)
ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("create schedule run: %w", err)
	}
	return nil
}

// ListRecent returns the newest runs first.
func (r *ScheduleRunRepository) ListRecent(ctx context.Context, limit int) ([]models.ScheduleRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `SELECT ` + scheduleRunColumns + ` FROM schedule_runs ORDER BY created_at DESC LIMIT $1`
	var runs []models.ScheduleRun
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("list schedule runs: %w", err)
	}
	return runs, nil
}
