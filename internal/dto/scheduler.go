package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
)

// SlotList accepts either a JSON array of slot strings or a single
// comma-separated string.
type SlotList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *SlotList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*l = splitSlots(raw)
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("slots must be a string array or a comma separated string: %w", err)
	}
	*l = values
	return nil
}

func splitSlots(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// CourseRequest describes one course and its candidate slots.
type CourseRequest struct {
	Name     string   `json:"name" validate:"required"`
	Lectures SlotList `json:"lectures" swaggertype:"array,string"`
	TATimes  SlotList `json:"ta_times" swaggertype:"array,string"`
}

// GenerateScheduleRequest is the payload accepted by POST /schedule.
// Constraints is either an array of constraint records, free text, or null.
type GenerateScheduleRequest struct {
	Courses     []CourseRequest `json:"courses" validate:"required,min=1,dive"`
	Preference  string          `json:"preference"`
	Constraints json.RawMessage `json:"constraints,omitempty" swaggertype:"object"`
}

// ConstraintsKind classifies the raw constraints payload.
type ConstraintsKind int

const (
	ConstraintsNone ConstraintsKind = iota
	ConstraintsList
	ConstraintsText
)

// ConstraintsPayload inspects the raw constraints value.
func (r GenerateScheduleRequest) ConstraintsPayload() (ConstraintsKind, []scheduler.ConstraintRecord, string, error) {
	raw := bytes.TrimSpace(r.Constraints)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ConstraintsNone, nil, "", nil
	}
	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return ConstraintsNone, nil, "", err
		}
		if strings.TrimSpace(text) == "" {
			return ConstraintsNone, nil, "", nil
		}
		return ConstraintsText, nil, text, nil
	case '[':
		var records []scheduler.ConstraintRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return ConstraintsNone, nil, "", fmt.Errorf("invalid constraint records: %w", err)
		}
		return ConstraintsList, records, "", nil
	case '{':
		// Extractor output shape: {"constraints": [...]}.
		var wrapped struct {
			Constraints []scheduler.ConstraintRecord `json:"constraints"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return ConstraintsNone, nil, "", fmt.Errorf("invalid constraint object: %w", err)
		}
		return ConstraintsList, wrapped.Constraints, "", nil
	default:
		return ConstraintsNone, nil, "", fmt.Errorf("constraints must be an array, a string or null")
	}
}

// ScheduleEntry is the slot pair chosen for one course.
type ScheduleEntry struct {
	Name    string  `json:"name"`
	Lecture *string `json:"lecture"`
	TA      *string `json:"ta"`
	TAName  string  `json:"ta_name,omitempty"`
}

// ScheduleStats summarises the search and the chosen schedule.
type ScheduleStats struct {
	Candidates         int    `json:"candidates"`
	Feasible           int    `json:"feasible"`
	SkippedConstraints int    `json:"skipped_constraints,omitempty"`
	DaysUsed           int    `json:"days_used"`
	HourGaps           int    `json:"hour_gaps"`
	Preference         string `json:"preference"`
}

// GenerateScheduleResponse is either a schedule or the infeasibility marker.
type GenerateScheduleResponse struct {
	Schedule        []ScheduleEntry              `json:"schedule,omitempty"`
	NoScheduleFound bool                         `json:"no_schedule_found,omitempty"`
	Constraints     []scheduler.ConstraintRecord `json:"constraints"`
	Stats           ScheduleStats                `json:"stats"`
}

// ExtractConstraintsResponse lists the constraints found in free text.
type ExtractConstraintsResponse struct {
	Constraints []scheduler.ConstraintRecord `json:"constraints"`
}
