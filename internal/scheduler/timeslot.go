package scheduler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Day is a day of the week. The ordering Sun..Sat drives gap ranking.
type Day int

const (
	Sunday Day = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayAbbreviations = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var dayLookup = map[string]Day{
	"sun": Sunday, "sunday": Sunday,
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
	"sat": Saturday, "saturday": Saturday,
}

// Valid reports whether d is one of the seven known days.
func (d Day) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// String returns the three letter abbreviation, e.g. "Mon".
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayAbbreviations[d]
}

// ParseDay accepts full day names or three letter abbreviations in any case.
func ParseDay(raw string) (Day, error) {
	day, ok := dayLookup[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDay, raw)
	}
	return day, nil
}

// Parsing errors.
var (
	ErrInvalidDay  = errors.New("invalid day")
	ErrInvalidSlot = errors.New("invalid time slot")
)

// MaxHour bounds slot hours on the 24-hour scale.
const MaxHour = 24

// TimeSlot is a weekly interval [Start, End) in whole hours. TA optionally names the
// teaching assistant running a TA session and does not take part in conflict checks.
type TimeSlot struct {
	Day   Day
	Start int
	End   int
	TA    string
}

// Validate checks the slot invariants.
func (s TimeSlot) Validate() error {
	if !s.Day.Valid() {
		return fmt.Errorf("%w: unknown day %d", ErrInvalidSlot, int(s.Day))
	}
	if s.Start < 0 || s.End > MaxHour {
		return fmt.Errorf("%w: hours must be within 0-%d", ErrInvalidSlot, MaxHour)
	}
	if s.Start >= s.End {
		return fmt.Errorf("%w: start %d must be before end %d", ErrInvalidSlot, s.Start, s.End)
	}
	return nil
}

// String renders the canonical "<Day> <start>-<end>" form.
func (s TimeSlot) String() string {
	return fmt.Sprintf("%s %d-%d", s.Day, s.Start, s.End)
}

// Label renders the slot including the TA name when one is attached.
func (s TimeSlot) Label() string {
	if s.TA == "" {
		return s.String()
	}
	return s.String() + " " + s.TA
}

// Conflicts reports whether two slots overlap. Slots are half-open so touching
// endpoints never conflict, and slots on different days never conflict.
func Conflicts(a, b TimeSlot) bool {
	return a.Day == b.Day && !(a.End <= b.Start || b.End <= a.Start)
}

var slotPattern = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2})\s*-\s*(\d{1,2})(?:\s+(.*))?$`)

// ParseTimeSlot parses strings such as "Mon 9-11", "monday 14-16" or
// "Tue 10-12 (Smith)". Anything after the hour range is kept as the TA name.
func ParseTimeSlot(raw string) (TimeSlot, error) {
	match := slotPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, raw)
	}
	day, err := ParseDay(match[1])
	if err != nil {
		return TimeSlot{}, err
	}
	start, _ := strconv.Atoi(match[2])
	end, _ := strconv.Atoi(match[3])

	slot := TimeSlot{Day: day, Start: start, End: end, TA: cleanTAName(match[4])}
	if err := slot.Validate(); err != nil {
		return TimeSlot{}, err
	}
	return slot, nil
}

// ParseSlots parses every value and returns the rejected inputs separately.
func ParseSlots(values []string) ([]TimeSlot, []string) {
	slots := make([]TimeSlot, 0, len(values))
	var rejected []string
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		slot, err := ParseTimeSlot(value)
		if err != nil {
			rejected = append(rejected, value)
			continue
		}
		slots = append(slots, slot)
	}
	return slots, rejected
}

func cleanTAName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimSpace(strings.Trim(name, "()[]"))
	lower := strings.ToLower(name)
	for _, prefix := range []string{"ta:", "ta ", "with "} {
		if strings.HasPrefix(lower, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			lower = strings.ToLower(name)
		}
	}
	return name
}
