package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	internalmiddleware "github.com/noah-isme/course-scheduler-api/internal/middleware"
	"github.com/noah-isme/course-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/response"
)

type scheduleExporter interface {
	Render(resp *dto.GenerateScheduleResponse, format string) (*service.ExportFile, error)
}

// ScheduleExportHandler generates a schedule and returns it as a file.
type ScheduleExportHandler struct {
	service  scheduleGenerator
	exporter scheduleExporter
}

// NewScheduleExportHandler constructs the handler.
func NewScheduleExportHandler(svc scheduleGenerator, exporter scheduleExporter) *ScheduleExportHandler {
	return &ScheduleExportHandler{service: svc, exporter: exporter}
}

// Export godoc
// @Summary Generate a schedule and download it
// @Tags Scheduler
// @Accept json
// @Produce application/pdf,text/csv,text/plain,application/json
// @Param format query string false "csv, pdf, table or json (default csv)"
// @Param payload body dto.GenerateScheduleRequest true "Courses, preference and constraints"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 504 {object} response.Envelope
// @Router /schedule/export [post]
func (h *ScheduleExportHandler) Export(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxScheduleBody)

	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	resp, cacheHit, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.exporter.Render(resp, c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}

	internalmiddleware.SetCacheHit(c, cacheHit)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "schedule."+file.Extension))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
