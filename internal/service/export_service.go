package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/pkg/export"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

// Supported export formats.
const (
	FormatJSON  = "json"
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatPDF   = "pdf"
)

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered schedule.
type ExportFile struct {
	Format      string
	ContentType string
	Extension   string
	Body        []byte
}

// ExportService renders generated schedules into downloadable formats.
type ExportService struct {
	renderers map[string]datasetRenderer
}

// NewExportService constructs an ExportService with the csv, pdf and table renderers.
func NewExportService() *ExportService {
	return &ExportService{renderers: map[string]datasetRenderer{
		FormatCSV:   export.NewCSVExporter(),
		FormatPDF:   export.NewPDFExporter(),
		FormatTable: export.NewTableExporter(),
	}}
}

// Render converts resp into the requested format. Unknown formats are a validation error.
func (s *ExportService) Render(resp *dto.GenerateScheduleResponse, format string) (*ExportFile, error) {
	if resp == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to export")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}

	if format == FormatJSON {
		body, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule")
		}
		return &ExportFile{Format: format, ContentType: "application/json", Extension: "json", Body: append(body, '\n')}, nil
	}

	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	body, err := renderer.Render(ScheduleDataset(resp))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule")
	}

	file := &ExportFile{Format: format, Body: body}
	switch format {
	case FormatCSV:
		file.ContentType, file.Extension = "text/csv", "csv"
	case FormatPDF:
		file.ContentType, file.Extension = "application/pdf", "pdf"
	default:
		file.ContentType, file.Extension = "text/plain; charset=utf-8", "txt"
	}
	return file, nil
}

// ScheduleDataset lays out one row per course followed by summary notes.
func ScheduleDataset(resp *dto.GenerateScheduleResponse) export.Dataset {
	data := export.Dataset{
		Title:   "Course schedule",
		Headers: []string{"Course", "Lecture", "TA session", "TA"},
		Rows:    make([][]string, 0, len(resp.Schedule)),
	}
	for _, entry := range resp.Schedule {
		data.Rows = append(data.Rows, []string{entry.Name, orDash(entry.Lecture), orDash(entry.TA), entry.TAName})
	}

	stats := resp.Stats
	if resp.NoScheduleFound {
		data.Notes = append(data.Notes, "No schedule satisfies every constraint.")
	} else {
		data.Notes = append(data.Notes,
			fmt.Sprintf("Preference: %s", stats.Preference),
			fmt.Sprintf("Days used: %d, idle hours: %d", stats.DaysUsed, stats.HourGaps),
		)
	}
	data.Notes = append(data.Notes, fmt.Sprintf("Candidates examined: %d, feasible: %d", stats.Candidates, stats.Feasible))
	if stats.SkippedConstraints > 0 {
		data.Notes = append(data.Notes, fmt.Sprintf("Ignored constraints: %d", stats.SkippedConstraints))
	}
	return data
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
