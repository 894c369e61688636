package scheduler

import (
	"fmt"
	"sort"
	"strings"
)

// Preference selects how feasible assignments are ordered.
type Preference int

const (
	// PreferenceNone keeps enumeration order.
	PreferenceNone Preference = iota
	// PreferenceCrammed favours fewer days, then fewer idle hours.
	PreferenceCrammed
	// PreferenceSpaced favours more days, then more idle hours.
	PreferenceSpaced
)

// ParsePreference maps the wire value to a Preference. An empty value means
// crammed; anything unrecognised disables reordering.
func ParsePreference(raw string) Preference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "crammed":
		return PreferenceCrammed
	case "spaced":
		return PreferenceSpaced
	default:
		return PreferenceNone
	}
}

func (p Preference) String() string {
	switch p {
	case PreferenceCrammed:
		return "crammed"
	case PreferenceSpaced:
		return "spaced"
	default:
		return "none"
	}
}

// DaysUsed counts distinct days among the slots.
func DaysUsed(slots []TimeSlot) int {
	var seen [7]bool
	count := 0
	for _, slot := range slots {
		mustValidDay(slot)
		if !seen[slot.Day] {
			seen[slot.Day] = true
			count++
		}
	}
	return count
}

// HourGaps sums idle hours between consecutive slots on the same day after
// ordering by (day, start).
func HourGaps(slots []TimeSlot) int {
	ordered := make([]TimeSlot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Day != ordered[j].Day {
			return ordered[i].Day < ordered[j].Day
		}
		return ordered[i].Start < ordered[j].Start
	})

	gaps := 0
	for i, slot := range ordered {
		mustValidDay(slot)
		if i == 0 {
			continue
		}
		prev := ordered[i-1]
		if slot.Day == prev.Day && slot.Start > prev.End {
			gaps += slot.Start - prev.End
		}
	}
	return gaps
}

// mustValidDay guards the ranking keys: a slot with an unknown day can only come
// from a broken enumeration and must not be ranked silently.
func mustValidDay(slot TimeSlot) {
	if !slot.Day.Valid() {
		panic(fmt.Sprintf("scheduler: ranking slot with invalid day %d", int(slot.Day)))
	}
}

// less orders a before b under the preference.
func (p Preference) less(a, b *Assignment) bool {
	switch p {
	case PreferenceCrammed:
		if a.DaysUsed != b.DaysUsed {
			return a.DaysUsed < b.DaysUsed
		}
		return a.HourGaps < b.HourGaps
	case PreferenceSpaced:
		if a.DaysUsed != b.DaysUsed {
			return a.DaysUsed > b.DaysUsed
		}
		return a.HourGaps > b.HourGaps
	default:
		return false
	}
}

// Rank stably sorts assignments best first. Ties keep enumeration order.
func Rank(assignments []*Assignment, pref Preference) {
	if pref == PreferenceNone {
		return
	}
	sort.SliceStable(assignments, func(i, j int) bool {
		return pref.less(assignments[i], assignments[j])
	})
}
