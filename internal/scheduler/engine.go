// Package scheduler assigns every course one lecture slot and one TA session so
// that nothing overlaps, the supplied constraints hold, and the week matches the
// requested day distribution.
//
// The search is exhaustive: every combination of per-course choices is checked
// and the best feasible one is selected after ranking all of them. Callers bound
// the input size through Options.MaxCandidates and the context deadline.
package scheduler

import (
	"context"
	"errors"
	"fmt"
)

// Engine errors. An infeasible input is not an error: Solve returns a Result
// without an assignment instead.
var (
	ErrNoCourses      = errors.New("at least one course is required")
	ErrCandidateLimit = errors.New("candidate space exceeds configured limit")
)

// cancelCheckInterval is how many candidates are examined between context checks.
const cancelCheckInterval = 1024

// Course lists the acceptable lecture slots and TA session slots for one course.
// Either list may be empty, in which case that component is left unassigned.
type Course struct {
	Name     string
	Lectures []TimeSlot
	TATimes  []TimeSlot
}

// Choice is the slot pair picked for a course. A nil field means none.
type Choice struct {
	Course  string
	Lecture *TimeSlot
	TA      *TimeSlot
}

// Assignment is a full candidate schedule together with its ranking keys.
type Assignment struct {
	Choices  []Choice
	Slots    []TimeSlot
	DaysUsed int
	HourGaps int
}

// Stats describes the search that produced a Result.
type Stats struct {
	Candidates int
	Feasible   int
}

// Result holds the best assignment, or nil when no feasible schedule exists.
type Result struct {
	Assignment *Assignment
	Stats      Stats
}

// Feasible reports whether a schedule was found.
func (r *Result) Feasible() bool {
	return r != nil && r.Assignment != nil
}

// Request bundles the engine inputs.
type Request struct {
	Courses     []Course
	Preference  Preference
	Constraints []Constraint
}

// Options tunes the engine.
type Options struct {
	// MaxCandidates rejects inputs whose candidate space is larger. Zero disables the cap.
	MaxCandidates int
}

// Engine runs schedule searches. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	maxCandidates int
}

// NewEngine constructs an engine.
func NewEngine(opts Options) *Engine {
	if opts.MaxCandidates < 0 {
		opts.MaxCandidates = 0
	}
	return &Engine{maxCandidates: opts.MaxCandidates}
}

// Solve searches the full candidate space and returns the best feasible assignment.
func (e *Engine) Solve(ctx context.Context, req Request) (*Result, error) {
	if len(req.Courses) == 0 {
		return nil, ErrNoCourses
	}
	if err := validateCourses(req.Courses); err != nil {
		return nil, err
	}
	if e.maxCandidates > 0 {
		if total := CandidateCount(req.Courses); total > e.maxCandidates {
			return nil, fmt.Errorf("%w: %d candidates, limit %d", ErrCandidateLimit, total, e.maxCandidates)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	options := make([][]option, len(req.Courses))
	sizes := make([]int, len(req.Courses))
	for i, course := range req.Courses {
		options[i] = courseOptions(course)
		sizes[i] = len(options[i])
	}

	check := newChecker(options, req.Constraints)
	iter := newProduct(sizes)
	result := &Result{}
	var feasible []*Assignment

	for iter.Next() {
		result.Stats.Candidates++
		if result.Stats.Candidates%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !check.feasible(iter.Indices()) {
			continue
		}
		feasible = append(feasible, buildAssignment(req.Courses, options, iter.Indices(), check.occupied()))
	}

	result.Stats.Feasible = len(feasible)
	if len(feasible) == 0 {
		return result, nil
	}
	Rank(feasible, req.Preference)
	result.Assignment = feasible[0]
	return result, nil
}

func validateCourses(courses []Course) error {
	for _, course := range courses {
		for _, slots := range [][]TimeSlot{course.Lectures, course.TATimes} {
			for _, slot := range slots {
				if err := slot.Validate(); err != nil {
					return fmt.Errorf("course %q: %w", course.Name, err)
				}
			}
		}
	}
	return nil
}

func buildAssignment(courses []Course, options [][]option, indices []int, occupied []TimeSlot) *Assignment {
	choices := make([]Choice, len(indices))
	for i, idx := range indices {
		opt := options[i][idx]
		choices[i] = Choice{Course: courses[i].Name, Lecture: opt.lecture, TA: opt.ta}
	}
	slots := make([]TimeSlot, len(occupied))
	copy(slots, occupied)
	return &Assignment{
		Choices:  choices,
		Slots:    slots,
		DaysUsed: DaysUsed(slots),
		HourGaps: HourGaps(slots),
	}
}
