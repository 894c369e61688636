package scheduler

// checker evaluates candidates against the conflict rules and the constraints.
// It reuses its buffers, so it must not be shared between goroutines.
type checker struct {
	options     [][]option
	constraints []Constraint

	slots []TimeSlot
	tas   []*TimeSlot
}

func newChecker(options [][]option, constraints []Constraint) *checker {
	return &checker{
		options:     options,
		constraints: constraints,
		slots:       make([]TimeSlot, 0, 2*len(options)),
		tas:         make([]*TimeSlot, 0, len(options)),
	}
}

// feasible places the candidate course by course and reports whether it survives.
// On success the occupied slots are available through occupied until the next call.
func (c *checker) feasible(indices []int) bool {
	c.slots = c.slots[:0]
	c.tas = c.tas[:0]

	for course, idx := range indices {
		opt := c.options[course][idx]
		if opt.lecture != nil && opt.ta != nil && Conflicts(*opt.lecture, *opt.ta) {
			return false
		}
		for _, placed := range c.slots {
			if opt.lecture != nil && Conflicts(*opt.lecture, placed) {
				return false
			}
			if opt.ta != nil && Conflicts(*opt.ta, placed) {
				return false
			}
		}
		if opt.lecture != nil {
			c.slots = append(c.slots, *opt.lecture)
		}
		if opt.ta != nil {
			c.slots = append(c.slots, *opt.ta)
		}
		c.tas = append(c.tas, opt.ta)
	}

	for _, constraint := range c.constraints {
		if !satisfied(constraint, c.slots, c.tas) {
			return false
		}
	}
	return true
}

func (c *checker) occupied() []TimeSlot {
	return c.slots
}
