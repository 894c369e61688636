package scheduler

import "math"

// option is one (lecture, TA) pair for a single course. A nil side means the course
// has no slot of that kind.
type option struct {
	lecture *TimeSlot
	ta      *TimeSlot
}

// courseOptions expands a course into lectures x TA sessions, TA varying fastest.
// An empty side contributes a single nil placeholder so every course yields at
// least one option.
func courseOptions(c Course) []option {
	lectures := slotRefs(c.Lectures)
	tas := slotRefs(c.TATimes)
	options := make([]option, 0, len(lectures)*len(tas))
	for _, lecture := range lectures {
		for _, ta := range tas {
			options = append(options, option{lecture: lecture, ta: ta})
		}
	}
	return options
}

func slotRefs(slots []TimeSlot) []*TimeSlot {
	if len(slots) == 0 {
		return []*TimeSlot{nil}
	}
	refs := make([]*TimeSlot, len(slots))
	for i := range slots {
		slot := slots[i]
		refs[i] = &slot
	}
	return refs
}

// CandidateCount returns the size of the full candidate space, saturating at
// math.MaxInt.
func CandidateCount(courses []Course) int {
	if len(courses) == 0 {
		return 0
	}
	total := 1
	for _, c := range courses {
		for _, n := range []int{len(c.Lectures), len(c.TATimes)} {
			if n == 0 {
				continue
			}
			if total > math.MaxInt/n {
				return math.MaxInt
			}
			total *= n
		}
	}
	return total
}

// product walks the cartesian product of option indices like an odometer: the
// last position turns fastest, matching lexicographic enumeration order.
type product struct {
	sizes   []int
	current []int
	started bool
	done    bool
}

func newProduct(sizes []int) *product {
	p := &product{sizes: sizes, current: make([]int, len(sizes))}
	for _, size := range sizes {
		if size <= 0 {
			p.done = true
		}
	}
	if len(sizes) == 0 {
		p.done = true
	}
	return p
}

// Next advances to the next index vector and reports whether one exists.
func (p *product) Next() bool {
	if p.done {
		return false
	}
	if !p.started {
		p.started = true
		return true
	}
	for i := len(p.sizes) - 1; i >= 0; i-- {
		p.current[i]++
		if p.current[i] < p.sizes[i] {
			return true
		}
		p.current[i] = 0
	}
	p.done = true
	return false
}

// Indices returns the current index vector. It is reused between calls.
func (p *product) Indices() []int {
	return p.current
}
