package service

import (
	"bytes"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

func strPtr(s string) *string { return &s }

func sampleSchedule() *dto.GenerateScheduleResponse {
	return &dto.GenerateScheduleResponse{
		Schedule: []dto.ScheduleEntry{
			{Name: "CS101", Lecture: strPtr("Mon 9-11"), TA: strPtr("Tue 10-11"), TAName: "Dana"},
			{Name: "MATH200", Lecture: strPtr("Mon 11-13")},
		},
		Stats: dto.ScheduleStats{Candidates: 4, Feasible: 3, DaysUsed: 2, HourGaps: 0, Preference: "crammed", SkippedConstraints: 1},
	}
}

func TestScheduleDataset(t *testing.T) {
	data := ScheduleDataset(sampleSchedule())
	require.NoError(t, data.Validate())
	assert.Equal(t, [][]string{
		{"CS101", "Mon 9-11", "Tue 10-11", "Dana"},
		{"MATH200", "Mon 11-13", "-", ""},
	}, data.Rows)
	assert.Equal(t, []string{
		"Preference: crammed",
		"Days used: 2, idle hours: 0",
		"Candidates examined: 4, feasible: 3",
		"Ignored constraints: 1",
	}, data.Notes)
}

func TestScheduleDatasetInfeasible(t *testing.T) {
	data := ScheduleDataset(&dto.GenerateScheduleResponse{NoScheduleFound: true, Stats: dto.ScheduleStats{Candidates: 2}})
	assert.Empty(t, data.Rows)
	assert.Equal(t, []string{"No schedule satisfies every constraint.", "Candidates examined: 2, feasible: 0"}, data.Notes)
}

func TestExportServiceRender(t *testing.T) {
	svc := NewExportService()

	file, err := svc.Render(sampleSchedule(), " CSV ")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "csv", file.Extension)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("Course,Lecture,TA session,TA\n")))

	file, err = svc.Render(sampleSchedule(), "")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, file.Format)
	assert.Contains(t, string(file.Body), `"name": "CS101"`)

	file, err = svc.Render(sampleSchedule(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))

	file, err = svc.Render(sampleSchedule(), FormatTable)
	require.NoError(t, err)
	assert.Contains(t, string(file.Body), "MATH200")
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	_, err := NewExportService().Render(sampleSchedule(), "xml")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	_, err = NewExportService().Render(nil, FormatCSV)
	require.Error(t, err)
}
