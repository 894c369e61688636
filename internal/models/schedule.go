package models

import "time"

// ScheduleRun is the audit record of one schedule generation.
type ScheduleRun struct {
	ID               string    `db:"id" json:"id"`
	RequestKey       string    `db:"request_key" json:"request_key"`
	CoursesCount     int       `db:"courses_count" json:"courses_count"`
	ConstraintsCount int       `db:"constraints_count" json:"constraints_count"`
	Preference       string    `db:"preference" json:"preference"`
	Candidates       int       `db:"candidates" json:"candidates"`
	Feasible         int       `db:"feasible" json:"feasible"`
	Found            bool      `db:"found" json:"found"`
	CacheHit         bool      `db:"cache_hit" json:"cache_hit"`
	DurationMs       int64     `db:"duration_ms" json:"duration_ms"`
	ErrorMessage     *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
