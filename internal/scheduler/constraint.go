package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

// ConstraintKind names a constraint variant on the wire.
type ConstraintKind string

const (
	KindNoClassDay    ConstraintKind = "No Class Day"
	KindNoClassBefore ConstraintKind = "No Class Before"
	KindNoClassAfter  ConstraintKind = "No Class After"
	KindAvoidTA       ConstraintKind = "Avoid TA"
)

// Default hours used when a record omits its time.
const (
	DefaultEarliestHour = 9
	DefaultLatestHour   = 17
)

// Constraint decoding errors.
var (
	ErrUnknownConstraint = errors.New("unknown constraint type")
	ErrInvalidConstraint = errors.New("invalid constraint")
)

// Constraint is a restriction every feasible assignment must satisfy. The set of
// variants is closed: NoClassDay, NoClassBefore, NoClassAfter and AvoidTA.
type Constraint interface {
	Kind() ConstraintKind
	Record() ConstraintRecord
	constraint()
}

// NoClassDay forbids any chosen slot on Day.
type NoClassDay struct {
	Day Day
}

// NoClassBefore forbids chosen slots starting before Hour.
type NoClassBefore struct {
	Hour int
}

// NoClassAfter forbids chosen slots ending after Hour.
type NoClassAfter struct {
	Hour int
}

// AvoidTA rejects TA sessions whose label contains Name, case-insensitively.
type AvoidTA struct {
	Name string
}

func (NoClassDay) constraint()    {}
func (NoClassBefore) constraint() {}
func (NoClassAfter) constraint()  {}
func (AvoidTA) constraint()       {}

func (NoClassDay) Kind() ConstraintKind    { return KindNoClassDay }
func (NoClassBefore) Kind() ConstraintKind { return KindNoClassBefore }
func (NoClassAfter) Kind() ConstraintKind  { return KindNoClassAfter }
func (AvoidTA) Kind() ConstraintKind       { return KindAvoidTA }

func (c NoClassDay) Record() ConstraintRecord {
	return ConstraintRecord{Type: string(KindNoClassDay), Day: c.Day.String()}
}

func (c NoClassBefore) Record() ConstraintRecord {
	hour := c.Hour
	return ConstraintRecord{Type: string(KindNoClassBefore), Time: &hour}
}

func (c NoClassAfter) Record() ConstraintRecord {
	hour := c.Hour
	return ConstraintRecord{Type: string(KindNoClassAfter), Time: &hour}
}

func (c AvoidTA) Record() ConstraintRecord {
	return ConstraintRecord{Type: string(KindAvoidTA), Name: c.Name}
}

// ConstraintRecord is the loosely typed form produced by extractors and API clients.
type ConstraintRecord struct {
	Type string `json:"type"`
	Day  string `json:"day,omitempty"`
	Time *int   `json:"time,omitempty"`
	Name string `json:"name,omitempty"`
}

// DecodeConstraint converts a record into its typed variant. Type names are matched
// ignoring case, spaces and underscores; the legacy "no_day", "no_early_classes",
// "no_classes_before" and "no_classes_after" names are accepted as well.
func DecodeConstraint(rec ConstraintRecord) (Constraint, error) {
	switch normalizeKind(rec.Type) {
	case "noclassday", "noday":
		day, err := ParseDay(rec.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConstraint, KindNoClassDay, err)
		}
		return NoClassDay{Day: day}, nil
	case "noclassbefore", "noclassesbefore", "noearlyclasses":
		hour, err := recordHour(rec, DefaultEarliestHour)
		if err != nil {
			return nil, err
		}
		return NoClassBefore{Hour: hour}, nil
	case "noclassafter", "noclassesafter":
		hour, err := recordHour(rec, DefaultLatestHour)
		if err != nil {
			return nil, err
		}
		return NoClassAfter{Hour: hour}, nil
	case "avoidta":
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: %s requires a name", ErrInvalidConstraint, KindAvoidTA)
		}
		return AvoidTA{Name: name}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConstraint, rec.Type)
	}
}

func normalizeKind(raw string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
}

func recordHour(rec ConstraintRecord, fallback int) (int, error) {
	if rec.Time == nil {
		return fallback, nil
	}
	if *rec.Time < 0 || *rec.Time > MaxHour {
		return 0, fmt.Errorf("%w: %s hour %d out of range", ErrInvalidConstraint, rec.Type, *rec.Time)
	}
	return *rec.Time, nil
}

// satisfied evaluates c against the occupied slots and the chosen TA sessions.
func satisfied(c Constraint, slots []TimeSlot, tas []*TimeSlot) bool {
	switch v := c.(type) {
	case NoClassDay:
		for _, slot := range slots {
			if slot.Day == v.Day {
				return false
			}
		}
	case NoClassBefore:
		for _, slot := range slots {
			if slot.Start < v.Hour {
				return false
			}
		}
	case NoClassAfter:
		for _, slot := range slots {
			if slot.End > v.Hour {
				return false
			}
		}
	case AvoidTA:
		needle := strings.ToLower(v.Name)
		for _, ta := range tas {
			if ta != nil && strings.Contains(strings.ToLower(ta.Label()), needle) {
				return false
			}
		}
	default:
		panic(fmt.Sprintf("scheduler: unhandled constraint %T", c))
	}
	return true
}
