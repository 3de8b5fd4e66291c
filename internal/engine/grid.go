package engine

// Grid holds the discretized weekly time grid. Slots are identified by their
// start minute; a long lecture occupies two consecutive slots.
type Grid struct {
	DayStart     int
	DayEnd       int
	SlotMinutes  int
	BreakMinutes int
	days         []Day
	slots        []int
}

// GridConfig carries the tunables for building a grid.
type GridConfig struct {
	DayStartMinutes int
	DayEndMinutes   int
	SlotMinutes     int
	BreakMinutes    int
}

// DefaultGridConfig mirrors the standard academic day: 08:00-17:00 with
// 50-minute slots and a 10-minute minimum break.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		DayStartMinutes: 8 * 60,
		DayEndMinutes:   17 * 60,
		SlotMinutes:     50,
		BreakMinutes:    10,
	}
}

// NewGrid builds the fixed ordered slot list for the working week.
func NewGrid(cfg GridConfig) Grid {
	if cfg.SlotMinutes <= 0 {
		cfg.SlotMinutes = 50
	}
	g := Grid{
		DayStart:     cfg.DayStartMinutes,
		DayEnd:       cfg.DayEndMinutes,
		SlotMinutes:  cfg.SlotMinutes,
		BreakMinutes: cfg.BreakMinutes,
		days:         WorkingDays(),
	}
	for t := g.DayStart; t+g.SlotMinutes <= g.DayEnd; t += g.SlotMinutes {
		g.slots = append(g.slots, t)
	}
	return g
}

// Days returns the ordered working days.
func (g Grid) Days() []Day {
	out := make([]Day, len(g.days))
	copy(out, g.days)
	return out
}

// Slots returns the ordered slot start minutes.
func (g Grid) Slots() []int {
	out := make([]int, len(g.slots))
	copy(out, g.slots)
	return out
}

// ShortMinutes is the duration of a one-slot lecture.
func (g Grid) ShortMinutes() int {
	return g.SlotMinutes
}

// LongMinutes is the duration of a two-slot lecture.
func (g Grid) LongMinutes() int {
	return 2 * g.SlotMinutes
}

// SlotsFor returns how many consecutive slots a duration consumes.
func (g Grid) SlotsFor(duration int) int {
	if duration <= 0 {
		return 0
	}
	return (duration + g.SlotMinutes - 1) / g.SlotMinutes
}

// ValidStart reports whether start lies on the slot boundary of the grid.
func (g Grid) ValidStart(start int) bool {
	if start < g.DayStart || start >= g.DayEnd {
		return false
	}
	return (start-g.DayStart)%g.SlotMinutes == 0
}

// InBounds reports whether the interval [start, start+duration] fits the day.
func (g Grid) InBounds(start, duration int) bool {
	return start >= g.DayStart && start+duration <= g.DayEnd
}

// SlotStarts expands an interval into the slot start minutes it covers.
func (g Grid) SlotStarts(start, duration int) []int {
	n := g.SlotsFor(duration)
	starts := make([]int, 0, n)
	for i := 0; i < n; i++ {
		starts = append(starts, start+i*g.SlotMinutes)
	}
	return starts
}
