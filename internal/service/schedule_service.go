package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduler-api/internal/dto"
	"github.com/noah-isme/course-scheduler-api/internal/models"
	"github.com/noah-isme/course-scheduler-api/internal/scheduler"
	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

// ScheduleSolver runs the scheduling search.
type ScheduleSolver interface {
	Solve(ctx context.Context, req scheduler.Request) (*scheduler.Result, error)
}

// ConstraintExtractor turns free text into constraint records.
type ConstraintExtractor interface {
	Extract(ctx context.Context, text string) ([]scheduler.ConstraintRecord, error)
}

// ScheduleServiceConfig bounds a single generation.
type ScheduleServiceConfig struct {
	Timeout time.Duration
}

// ScheduleService validates scheduling requests, runs the engine and shapes the
// response. Results are cached and every run is recorded in the background.
type ScheduleService struct {
	engine    ScheduleSolver
	extractor ConstraintExtractor
	cache     *ScheduleCache
	recorder  *RunRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	timeout   time.Duration
}

// NewScheduleService wires the service. cache, recorder, metrics and extractor may be nil.
func NewScheduleService(
	engine ScheduleSolver,
	extractor ConstraintExtractor,
	cache *ScheduleCache,
	recorder *RunRecorder,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleServiceConfig,
) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		engine:    engine,
		extractor: extractor,
		cache:     cache,
		recorder:  recorder,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		timeout:   cfg.Timeout,
	}
}

type cacheCourse struct {
	Name     string   `json:"name"`
	Lectures []string `json:"lectures"`
	TATimes  []string `json:"ta_times"`
}

type cacheInput struct {
	Courses     []cacheCourse                `json:"courses"`
	Preference  string                       `json:"preference"`
	Constraints []scheduler.ConstraintRecord `json:"constraints"`
}

// Generate produces the best schedule for req. The boolean reports a cache hit.
// An infeasible request is not an error: the response carries NoScheduleFound.
func (s *ScheduleService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, bool, error) {
	start := time.Now()
	run := models.ScheduleRun{CoursesCount: len(req.Courses)}

	if err := s.validator.Struct(req); err != nil {
		s.metrics.ObserveGeneration(OutcomeInvalid, 0, 0, time.Since(start))
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	courses := s.parseCourses(req.Courses)

	constraints, skipped, err := s.resolveConstraints(ctx, req)
	if err != nil {
		s.metrics.ObserveGeneration(OutcomeInvalid, 0, 0, time.Since(start))
		return nil, false, err
	}
	s.metrics.AddSkippedConstraints(skipped)

	pref := scheduler.ParsePreference(req.Preference)
	records := constraintRecords(constraints)
	run.ConstraintsCount = len(constraints)
	run.Preference = pref.String()

	key, err := s.cache.Key(newCacheInput(courses, pref, records))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive cache key")
	}
	run.RequestKey = key

	if cached, ok := s.cache.Get(ctx, key); ok {
		run.Found = !cached.NoScheduleFound
		run.Candidates = cached.Stats.Candidates
		run.Feasible = cached.Stats.Feasible
		run.CacheHit = true
		run.DurationMs = time.Since(start).Milliseconds()
		s.recorder.Record(run)
		return cached, true, nil
	}

	solveCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	solveStart := time.Now()
	result, err := s.engine.Solve(solveCtx, scheduler.Request{Courses: courses, Preference: pref, Constraints: constraints})
	solveDuration := time.Since(solveStart)
	if err != nil {
		outcome, appErr := s.mapSolveError(err)
		s.metrics.ObserveGeneration(outcome, 0, 0, solveDuration)
		msg := appErr.Error()
		run.ErrorMessage = &msg
		run.DurationMs = time.Since(start).Milliseconds()
		s.recorder.Record(run)
		return nil, false, appErr
	}

	resp := buildResponse(courses, result, pref, records, skipped)
	outcome := OutcomeFound
	if resp.NoScheduleFound {
		outcome = OutcomeInfeasible
	}
	s.metrics.ObserveGeneration(outcome, result.Stats.Candidates, result.Stats.Feasible, solveDuration)
	s.logger.Debug("schedule generated",
		zap.String("outcome", outcome),
		zap.Int("courses", len(courses)),
		zap.Int("constraints", len(constraints)),
		zap.Int("candidates", result.Stats.Candidates),
		zap.Int("feasible", result.Stats.Feasible),
		zap.Duration("duration", solveDuration),
	)

	s.cache.Set(ctx, key, resp)

	run.Found = result.Feasible()
	run.Candidates = result.Stats.Candidates
	run.Feasible = result.Stats.Feasible
	run.DurationMs = time.Since(start).Milliseconds()
	s.recorder.Record(run)

	return resp, false, nil
}

// ExtractConstraints exposes the configured extractor.
func (s *ScheduleService) ExtractConstraints(ctx context.Context, text string) (*dto.ExtractConstraintsResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "text is required")
	}
	if s.extractor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "constraint extraction is not configured")
	}
	records, err := s.extractor.Extract(ctx, text)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extract constraints")
	}
	if records == nil {
		records = []scheduler.ConstraintRecord{}
	}
	return &dto.ExtractConstraintsResponse{Constraints: records}, nil
}

func (s *ScheduleService) parseCourses(in []dto.CourseRequest) []scheduler.Course {
	courses := make([]scheduler.Course, len(in))
	for i, c := range in {
		lectures, badLectures := scheduler.ParseSlots(c.Lectures)
		tas, badTAs := scheduler.ParseSlots(c.TATimes)
		if len(badLectures) > 0 || len(badTAs) > 0 {
			s.logger.Debug("dropping malformed slots",
				zap.String("course", c.Name),
				zap.Strings("lectures", badLectures),
				zap.Strings("ta_times", badTAs),
			)
		}
		courses[i] = scheduler.Course{Name: strings.TrimSpace(c.Name), Lectures: lectures, TATimes: tas}
	}
	return courses
}

func (s *ScheduleService) resolveConstraints(ctx context.Context, req dto.GenerateScheduleRequest) ([]scheduler.Constraint, int, error) {
	kind, records, text, err := req.ConstraintsPayload()
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid constraints")
	}

	switch kind {
	case dto.ConstraintsNone:
		return nil, 0, nil
	case dto.ConstraintsText:
		if s.extractor == nil {
			return nil, 0, appErrors.Clone(appErrors.ErrValidation, "free text constraints are not supported")
		}
		records, err = s.extractor.Extract(ctx, text)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extract constraints")
		}
	}

	constraints := make([]scheduler.Constraint, 0, len(records))
	skipped := 0
	for _, rec := range records {
		c, err := scheduler.DecodeConstraint(rec)
		if err != nil {
			skipped++
			s.logger.Warn("skipping constraint", zap.String("type", rec.Type), zap.Error(err))
			continue
		}
		constraints = append(constraints, c)
	}
	return constraints, skipped, nil
}

func (s *ScheduleService) mapSolveError(err error) (string, *appErrors.Error) {
	switch {
	case errors.Is(err, scheduler.ErrCandidateLimit):
		return OutcomeTooLarge, appErrors.Wrap(err, appErrors.ErrScheduleTooLarge.Code, appErrors.ErrScheduleTooLarge.Status, appErrors.ErrScheduleTooLarge.Message)
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout, appErrors.Wrap(err, appErrors.ErrScheduleTimeout.Code, appErrors.ErrScheduleTimeout.Status,
			fmt.Sprintf("%s after %s", appErrors.ErrScheduleTimeout.Message, s.timeout))
	case errors.Is(err, scheduler.ErrNoCourses), errors.Is(err, scheduler.ErrInvalidSlot), errors.Is(err, scheduler.ErrInvalidDay):
		return OutcomeInvalid, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	default:
		s.logger.Error("schedule generation failed", zap.Error(err))
		return OutcomeError, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate schedule")
	}
}

func newCacheInput(courses []scheduler.Course, pref scheduler.Preference, records []scheduler.ConstraintRecord) cacheInput {
	input := cacheInput{
		Courses:     make([]cacheCourse, len(courses)),
		Preference:  pref.String(),
		Constraints: records,
	}
	for i, c := range courses {
		input.Courses[i] = cacheCourse{Name: c.Name, Lectures: slotLabels(c.Lectures), TATimes: slotLabels(c.TATimes)}
	}
	return input
}

func slotLabels(slots []scheduler.TimeSlot) []string {
	labels := make([]string, len(slots))
	for i, slot := range slots {
		labels[i] = slot.Label()
	}
	return labels
}

func constraintRecords(constraints []scheduler.Constraint) []scheduler.ConstraintRecord {
	records := make([]scheduler.ConstraintRecord, len(constraints))
	for i, c := range constraints {
		records[i] = c.Record()
	}
	return records
}

func buildResponse(courses []scheduler.Course, result *scheduler.Result, pref scheduler.Preference, records []scheduler.ConstraintRecord, skipped int) *dto.GenerateScheduleResponse {
	resp := &dto.GenerateScheduleResponse{
		Constraints: records,
		Stats: dto.ScheduleStats{
			Candidates:         result.Stats.Candidates,
			Feasible:           result.Stats.Feasible,
			SkippedConstraints: skipped,
			Preference:         pref.String(),
		},
	}
	if !result.Feasible() {
		resp.NoScheduleFound = true
		return resp
	}

	assignment := result.Assignment
	resp.Stats.DaysUsed = assignment.DaysUsed
	resp.Stats.HourGaps = assignment.HourGaps
	resp.Schedule = make([]dto.ScheduleEntry, len(courses))
	for i, choice := range assignment.Choices {
		entry := dto.ScheduleEntry{Name: choice.Course}
		if choice.Lecture != nil {
			label := choice.Lecture.String()
			entry.Lecture = &label
		}
		if choice.TA != nil {
			label := choice.TA.String()
			entry.TA = &label
			entry.TAName = choice.TA.TA
		}
		resp.Schedule[i] = entry
	}
	return resp
}
