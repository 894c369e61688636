package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlots(t *testing.T, raw ...string) []TimeSlot {
	t.Helper()
	slots := make([]TimeSlot, 0, len(raw))
	for _, value := range raw {
		s, err := ParseTimeSlot(value)
		require.NoError(t, err, value)
		slots = append(slots, s)
	}
	return slots
}

func solve(t *testing.T, courses []Course, pref Preference, constraints ...Constraint) *Result {
	t.Helper()
	result, err := NewEngine(Options{}).Solve(context.Background(), Request{
		Courses:     courses,
		Preference:  pref,
		Constraints: constraints,
	})
	require.NoError(t, err)
	return result
}

func render(s *TimeSlot) string {
	if s == nil {
		return ""
	}
	return s.String()
}

func TestSolveDisjointCourses(t *testing.T) {
	courses := []Course{
		{Name: "Algebra", Lectures: mustSlots(t, "Mon 9-11"), TATimes: mustSlots(t, "Tue 12-13")},
		{Name: "Physics", Lectures: mustSlots(t, "Wed 9-11"), TATimes: mustSlots(t, "Thu 14-15")},
	}

	result := solve(t, courses, PreferenceCrammed)

	require.True(t, result.Feasible())
	choices := result.Assignment.Choices
	require.Len(t, choices, 2)
	assert.Equal(t, "Algebra", choices[0].Course)
	assert.Equal(t, "Mon 9-11", render(choices[0].Lecture))
	assert.Equal(t, "Tue 12-13", render(choices[0].TA))
	assert.Equal(t, "Physics", choices[1].Course)
	assert.Equal(t, "Wed 9-11", render(choices[1].Lecture))
	assert.Equal(t, "Thu 14-15", render(choices[1].TA))
	assert.Equal(t, Stats{Candidates: 1, Feasible: 1}, result.Stats)
}

func TestSolveInternalConflictIsInfeasible(t *testing.T) {
	courses := []Course{
		{Name: "Algebra", Lectures: mustSlots(t, "Mon 9-11"), TATimes: mustSlots(t, "Mon 10-12")},
	}

	result := solve(t, courses, PreferenceCrammed)

	assert.False(t, result.Feasible())
	assert.Nil(t, result.Assignment)
	assert.Equal(t, 1, result.Stats.Candidates)
	assert.Equal(t, 0, result.Stats.Feasible)
}

func TestSolveNoClassDay(t *testing.T) {
	courses := []Course{
		{Name: "A", Lectures: mustSlots(t, "Mon 9-11", "Tue 9-11"), TATimes: mustSlots(t, "Mon 11-13")},
	}

	// The only TA session is on Monday, so the ban leaves nothing.
	result := solve(t, courses, PreferenceCrammed, NoClassDay{Day: Monday})
	assert.False(t, result.Feasible())

	courses[0].TATimes = mustSlots(t, "Mon 11-13", "Wed 11-13")
	result = solve(t, courses, PreferenceCrammed, NoClassDay{Day: Monday})
	require.True(t, result.Feasible())
	assert.Equal(t, "Tue 9-11", render(result.Assignment.Choices[0].Lecture))
	assert.Equal(t, "Wed 11-13", render(result.Assignment.Choices[0].TA))
}

func preferenceFixture(t *testing.T) []Course {
	return []Course{
		{Name: "A", Lectures: mustSlots(t, "Mon 9-11")},
		{Name: "B", Lectures: mustSlots(t, "Mon 11-13", "Tue 11-13")},
	}
}

func TestSolveCrammedPicksFewestDays(t *testing.T) {
	result := solve(t, preferenceFixture(t), PreferenceCrammed)

	require.True(t, result.Feasible())
	assert.Equal(t, 1, result.Assignment.DaysUsed)
	assert.Equal(t, "Mon 11-13", render(result.Assignment.Choices[1].Lecture))
}

func TestSolveSpacedPicksMostDays(t *testing.T) {
	result := solve(t, preferenceFixture(t), PreferenceSpaced)

	require.True(t, result.Feasible())
	assert.Equal(t, 2, result.Assignment.DaysUsed)
	assert.Equal(t, "Tue 11-13", render(result.Assignment.Choices[1].Lecture))
}

func TestSolveAvoidTAUnrelatedNameHasNoEffect(t *testing.T) {
	courses := []Course{
		{Name: "A", Lectures: mustSlots(t, "Mon 9-11"), TATimes: mustSlots(t, "Tue 9-10 Cohen")},
	}

	result := solve(t, courses, PreferenceCrammed, AvoidTA{Name: "Smith"})

	require.True(t, result.Feasible())
	assert.Equal(t, "Tue 9-10", render(result.Assignment.Choices[0].TA))
}

func TestSolveAvoidTAMatchesNameCaseInsensitive(t *testing.T) {
	courses := []Course{
		{Name: "A", TATimes: mustSlots(t, "Tue 9-10 John Smith", "Wed 9-10 Dana Cohen")},
	}

	result := solve(t, courses, PreferenceCrammed, AvoidTA{Name: "smith"})

	require.True(t, result.Feasible())
	assert.Equal(t, "Dana Cohen", result.Assignment.Choices[0].TA.TA)
}

func TestSolveTimeWindowConstraints(t *testing.T) {
	courses := []Course{
		{Name: "A", Lectures: mustSlots(t, "Mon 8-10", "Mon 10-12", "Mon 16-18")},
	}

	result := solve(t, courses, PreferenceCrammed, NoClassBefore{Hour: 9}, NoClassAfter{Hour: 17})

	require.True(t, result.Feasible())
	assert.Equal(t, "Mon 10-12", render(result.Assignment.Choices[0].Lecture))
	assert.Equal(t, 1, result.Stats.Feasible)
}

func TestSolveNoClassAfterAllowsEndingExactlyAtLimit(t *testing.T) {
	courses := []Course{{Name: "A", Lectures: mustSlots(t, "Mon 15-17")}}

	result := solve(t, courses, PreferenceCrammed, NoClassAfter{Hour: 17}, NoClassBefore{Hour: 15})

	assert.True(t, result.Feasible())
}

func TestSolveEmptySlotListsUseNone(t *testing.T) {
	courses := []Course{
		{Name: "Seminar", Lectures: mustSlots(t, "Mon 9-11")},
		{Name: "Lab", TATimes: mustSlots(t, "Tue 9-11")},
		{Name: "Reading"},
	}

	result := solve(t, courses, PreferenceCrammed)

	require.True(t, result.Feasible())
	choices := result.Assignment.Choices
	require.Len(t, choices, 3)
	assert.NotNil(t, choices[0].Lecture)
	assert.Nil(t, choices[0].TA)
	assert.Nil(t, choices[1].Lecture)
	assert.NotNil(t, choices[1].TA)
	assert.Nil(t, choices[2].Lecture)
	assert.Nil(t, choices[2].TA)
	assert.Len(t, result.Assignment.Slots, 2)
}

func TestSolveCrossCourseConflict(t *testing.T) {
	courses := []Course{
		{Name: "A", Lectures: mustSlots(t, "Mon 9-11")},
		{Name: "B", Lectures: mustSlots(t, "Mon 10-12")},
	}

	result := solve(t, courses, PreferenceCrammed)

	assert.False(t, result.Feasible())
}

func TestSolveCrammedBreaksDayTiesOnGaps(t *testing.T) {
	courses := []Course{
		{Name: "A", Lectures: mustSlots(t, "Mon 9-10")},
		{Name: "B", Lectures: mustSlots(t, "Mon 14-15", "Mon 10-11")},
	}

	crammed := solve(t, courses, PreferenceCrammed)
	require.True(t, crammed.Feasible())
	assert.Equal(t, "Mon 10-11", render(crammed.Assignment.Choices[1].Lecture))
	assert.Equal(t, 0, crammed.Assignment.HourGaps)

	spaced := solve(t, courses, PreferenceSpaced)
	require.True(t, spaced.Feasible())
	assert.Equal(t, "Mon 14-15", render(spaced.Assignment.Choices[1].Lecture))
	assert.Equal(t, 4, spaced.Assignment.HourGaps)
}

func TestSolveNoPreferenceKeepsEnumerationOrder(t *testing.T) {
	courses := []Course{
		{Name: "A", Lectures: mustSlots(t, "Fri 9-10", "Mon 9-10")},
		{Name: "B", Lectures: mustSlots(t, "Mon 10-11")},
	}

	result := solve(t, courses, PreferenceNone)

	require.True(t, result.Feasible())
	assert.Equal(t, "Fri 9-10", render(result.Assignment.Choices[0].Lecture))
}

func TestSolveTiesKeepEnumerationOrder(t *testing.T) {
	courses := []Course{
		{Name: "A", Lectures: mustSlots(t, "Tue 9-10", "Mon 9-10", "Wed 9-10")},
	}

	for _, pref := range []Preference{PreferenceCrammed, PreferenceSpaced} {
		first := solve(t, courses, pref)
		second := solve(t, courses, pref)
		require.True(t, first.Feasible())
		assert.Equal(t, "Tue 9-10", render(first.Assignment.Choices[0].Lecture), pref.String())
		assert.Equal(t, first.Assignment, second.Assignment)
	}
}

func TestSolveIsCompleteAndSound(t *testing.T) {
	courses := []Course{
		{Name: "A", Lectures: mustSlots(t, "Mon 9-11", "Tue 9-11", "Wed 9-11"), TATimes: mustSlots(t, "Mon 11-12", "Tue 10-11")},
		{Name: "B", Lectures: mustSlots(t, "Mon 10-12", "Tue 11-13"), TATimes: mustSlots(t, "Wed 9-10", "Thu 9-10")},
		{Name: "C", Lectures: mustSlots(t, "Mon 12-14", "Wed 10-12"), TATimes: mustSlots(t, "Tue 9-10")},
	}
	constraints := []Constraint{NoClassBefore{Hour: 9}, NoClassDay{Day: Thursday}}

	for _, pref := range []Preference{PreferenceCrammed, PreferenceSpaced, PreferenceNone} {
		result := solve(t, courses, pref, constraints...)
		require.True(t, result.Feasible(), pref.String())
		assert.Equal(t, CandidateCount(courses), result.Stats.Candidates)

		slots := result.Assignment.Slots
		for i := range slots {
			for j := i + 1; j < len(slots); j++ {
				assert.False(t, Conflicts(slots[i], slots[j]), "%s conflicts with %s", slots[i], slots[j])
			}
			assert.NotEqual(t, Thursday, slots[i].Day)
			assert.GreaterOrEqual(t, slots[i].Start, 9)
		}
	}
}

func TestSolvePreferenceMonotonicity(t *testing.T) {
	courses := []Course{
		{Name: "A", Lectures: mustSlots(t, "Mon 9-10", "Tue 9-10", "Wed 9-10")},
		{Name: "B", Lectures: mustSlots(t, "Mon 10-11", "Thu 10-11")},
		{Name: "C", TATimes: mustSlots(t, "Mon 11-12", "Fri 11-12")},
	}

	crammed := solve(t, courses, PreferenceCrammed)
	spaced := solve(t, courses, PreferenceSpaced)

	require.True(t, crammed.Feasible())
	require.True(t, spaced.Feasible())
	assert.Equal(t, 1, crammed.Assignment.DaysUsed)
	assert.Equal(t, 3, spaced.Assignment.DaysUsed)
}

func TestSolveRejectsEmptyCourseList(t *testing.T) {
	_, err := NewEngine(Options{}).Solve(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNoCourses)
}

func TestSolveRejectsInvalidSlot(t *testing.T) {
	_, err := NewEngine(Options{}).Solve(context.Background(), Request{
		Courses: []Course{{Name: "A", Lectures: []TimeSlot{{Day: Monday, Start: 11, End: 9}}}},
	})
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestSolveEnforcesCandidateLimit(t *testing.T) {
	courses := []Course{
		{Name: "A", Lectures: mustSlots(t, "Mon 9-10", "Tue 9-10"), TATimes: mustSlots(t, "Wed 9-10", "Thu 9-10")},
		{Name: "B", Lectures: mustSlots(t, "Mon 10-11", "Tue 10-11")},
	}

	_, err := NewEngine(Options{MaxCandidates: 7}).Solve(context.Background(), Request{Courses: courses})
	assert.ErrorIs(t, err, ErrCandidateLimit)

	result, err := NewEngine(Options{MaxCandidates: 8}).Solve(context.Background(), Request{Courses: courses})
	require.NoError(t, err)
	assert.Equal(t, 8, result.Stats.Candidates)
}

func TestSolveHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(Options{}).Solve(ctx, Request{
		Courses: []Course{{Name: "A", Lectures: mustSlots(t, "Mon 9-10")}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}
