package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	internalmiddleware "github.com/noah-isme/course-scheduler-api/internal/middleware"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
	"github.com/noah-isme/course-scheduler-api/pkg/response"
)

const maxScheduleBody = 1 << 20

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, bool, error)
}

type scheduleRunLister interface {
	ListRecent(ctx context.Context, limit int) ([]models.ScheduleRun, error)
}

// ScheduleHandler exposes the scheduling endpoint.
type ScheduleHandler struct {
	service scheduleGenerator
	runs    scheduleRunLister
}

// NewScheduleHandler constructs the handler. runs may be nil when no database
// is configured.
func NewScheduleHandler(svc scheduleGenerator, runs scheduleRunLister) *ScheduleHandler {
	return &ScheduleHandler{service: svc, runs: runs}
}

// Generate godoc
// @Summary Generate the best course schedule
// @Description Picks one lecture and one TA session per course without overlaps, honouring the constraints and the crammed/spaced preference. An infeasible request returns 200 with no_schedule_found.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Courses, preference and constraints"
// @Success 200 {object} response.Envelope{data=dto.GenerateScheduleResponse}
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 504 {object} response.Envelope
// @Router /schedule [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
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

	internalmiddleware.SetCacheHit(c, cacheHit)
	response.OK(c, resp, internalmiddleware.ResponseMeta(c))
}

// ListRuns godoc
// @Summary List recent schedule generations
// @Tags Scheduler
// @Produce json
// @Param limit query int false "Maximum rows (1-100, default 20)"
// @Success 200 {object} response.Envelope{data=[]models.ScheduleRun}
// @Failure 503 {object} response.Envelope
// @Router /schedule/runs [get]
func (h *ScheduleHandler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnavailable, "run history requires a database"))
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be between 1 and 100"))
			return
		}
		limit = parsed
	}

	runs, err := h.runs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule runs"))
		return
	}
	if runs == nil {
		runs = []models.ScheduleRun{}
	}
	response.OK(c, runs, internalmiddleware.ResponseMeta(c))
}
