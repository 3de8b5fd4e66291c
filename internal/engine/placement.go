package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Input bundles the entity records one placement run consumes.
type Input struct {
	Doctors  []Doctor
	Courses  []Course
	Sections []Section
	Rooms    []Room
}

// RunReport summarises a placement run for the caller.
type RunReport struct {
	ScheduledCount int      `json:"scheduledCount"`
	FailedCount    int      `json:"failedCount"`
	Unscheduled    []string `json:"unscheduledDescriptions"`
}

// Result carries the outcome of a placement run as explicit deltas. The
// engine never mutates the caller's entity records; callers apply
// AssignedMinutes and SectionScheduled to their own store.
type Result struct {
	Lectures         []ScheduledLecture
	AssignedMinutes  map[string]int
	SectionScheduled map[string]bool
	Report           RunReport
	State            *State
}

// Engine places lecture units onto the weekly grid using a greedy randomized
// single-pass search. Randomness drives tie-breaking only and comes from an
// injected source so fixed seeds reproduce identical timetables.
type Engine struct {
	grid   Grid
	rng    *rand.Rand
	logger *zap.Logger
}

// New builds a placement engine. A nil rng falls back to an entropy-seeded
// source and a nil logger to a no-op logger.
func New(grid Grid, rng *rand.Rand, logger *zap.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{grid: grid, rng: rng, logger: logger}
}

// Grid exposes the engine's time grid.
func (e *Engine) Grid() Grid {
	return e.grid
}

// Place assigns every schedulable lecture unit to a (day, time, room)
// combination. Unplaceable units are recorded in the report and never abort
// the run. Structurally empty input yields a trivial empty schedule.
func (e *Engine) Place(in Input) *Result {
	state := NewState(e.grid, in.Doctors, in.Rooms)
	result := &Result{
		AssignedMinutes:  make(map[string]int, len(in.Doctors)),
		SectionScheduled: make(map[string]bool, len(in.Sections)),
		State:            state,
	}
	failures := newFailureSet()

	courses := make(map[string]Course, len(in.Courses))
	for _, c := range in.Courses {
		courses[c.ID] = c
	}
	doctors := make(map[string]Doctor, len(in.Doctors))
	for _, d := range in.Doctors {
		doctors[d.ID] = d
	}

	if len(in.Doctors) == 0 || len(in.Rooms) == 0 {
		e.logger.Warn("no doctors or rooms available, producing empty schedule",
			zap.Int("doctors", len(in.Doctors)), zap.Int("rooms", len(in.Rooms)))
		for _, section := range in.Sections {
			result.SectionScheduled[section.ID] = false
		}
		result.Report = failures.report(0)
		return result
	}

	units, sectionUnits := e.decomposeAll(in.Sections, courses, doctors, failures, result)

	// Long units first, then larger sections: the hardest-to-fit pieces claim
	// contiguous slots before fragmentation sets in.
	sort.SliceStable(units, func(i, j int) bool {
		if units[i].Duration != units[j].Duration {
			return units[i].Duration > units[j].Duration
		}
		return units[i].Students > units[j].Students
	})

	for _, unit := range units {
		doctor := doctors[unit.DoctorID]
		if doctor.WeeklyHours*60-state.Assigned[doctor.ID] < unit.Duration {
			e.logger.Warn("doctor weekly capacity exhausted",
				zap.String("doctor", doctor.ID),
				zap.String("section", unit.SectionID),
				zap.Int("lecture", unit.Index))
			failures.add(unit)
			continue
		}

		if !e.placeUnit(state, doctor, unit, in.Rooms) {
			failures.add(unit)
		}
	}

	e.finish(state, result, in.Sections, sectionUnits)
	result.Report = failures.report(len(result.Lectures))
	return result
}

// decomposeAll expands every section, skipping sections with broken entity
// references and recording them as failures.
func (e *Engine) decomposeAll(
	sections []Section,
	courses map[string]Course,
	doctors map[string]Doctor,
	failures *failureSet,
	result *Result,
) ([]LectureUnit, map[string][]LectureUnit) {
	var units []LectureUnit
	sectionUnits := make(map[string][]LectureUnit, len(sections))

	for _, section := range sections {
		course, hasCourse := courses[section.CourseID]
		if !hasCourse {
			e.logger.Warn("section references missing course, skipping",
				zap.String("section", section.ID), zap.String("course", section.CourseID))
			failures.addBroken(section, "missing course")
			result.SectionScheduled[section.ID] = false
			continue
		}
		if _, hasDoctor := doctors[section.DoctorID]; !hasDoctor {
			e.logger.Warn("section references missing doctor, skipping",
				zap.String("section", section.ID), zap.String("doctor", section.DoctorID))
			failures.addBroken(section, "missing doctor")
			result.SectionScheduled[section.ID] = false
			continue
		}
		expanded := Decompose(e.grid, section, course)
		units = append(units, expanded...)
		sectionUnits[section.ID] = expanded
	}
	return units, sectionUnits
}

// placeUnit searches days ordered by ascending doctor load, then rooms and
// start times in random order, committing the first feasible combination.
func (e *Engine) placeUnit(state *State, doctor Doctor, unit LectureUnit, rooms []Room) bool {
	days := e.grid.Days()
	e.rng.Shuffle(len(days), func(i, j int) { days[i], days[j] = days[j], days[i] })
	sort.SliceStable(days, func(i, j int) bool {
		return state.DayLoad(doctor.ID, days[i]) < state.DayLoad(doctor.ID, days[j])
	})

	candidates := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		if RoomFits(room, unit) {
			candidates = append(candidates, room)
		}
	}

	for _, day := range days {
		e.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		starts := e.grid.Slots()
		e.rng.Shuffle(len(starts), func(i, j int) { starts[i], starts[j] = starts[j], starts[i] })

		for _, room := range candidates {
			for _, start := range starts {
				if !DoctorAvailable(e.grid, doctor, day, start, unit.Duration, state.Doctors[doctor.ID]) {
					continue
				}
				if !RoomAvailable(e.grid, room, day, start, unit.Duration, state.Rooms[room.ID]) {
					continue
				}
				if !state.RoomSlotsFree(room.ID, day, start, unit.Duration) {
					continue
				}
				state.Apply(&ScheduledLecture{
					ID:        uuid.NewString(),
					SectionID: unit.SectionID,
					CourseID:  unit.CourseID,
					DoctorID:  unit.DoctorID,
					RoomID:    room.ID,
					Day:       day,
					Start:     start,
					Duration:  unit.Duration,
					Slots:     e.grid.SlotsFor(unit.Duration),
					Index:     unit.Index,
				})
				return true
			}
		}
	}
	return false
}

// finish recomputes section completeness and extracts the run deltas.
func (e *Engine) finish(state *State, result *Result, sections []Section, sectionUnits map[string][]LectureUnit) {
	placed := make(map[string]map[int]bool)
	for _, lec := range state.Lectures {
		result.Lectures = append(result.Lectures, *lec)
		key := lec.SectionID + "|" + lec.CourseID
		if placed[key] == nil {
			placed[key] = make(map[int]bool)
		}
		placed[key][lec.Index] = true
	}
	sort.Slice(result.Lectures, func(i, j int) bool {
		a, b := result.Lectures[i], result.Lectures[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.RoomID < b.RoomID
	})

	for _, section := range sections {
		units, ok := sectionUnits[section.ID]
		if !ok {
			continue
		}
		complete := true
		for _, unit := range units {
			if !placed[unit.SectionID+"|"+unit.CourseID][unit.Index] {
				complete = false
				break
			}
		}
		result.SectionScheduled[section.ID] = complete
	}

	for id, minutes := range state.Assigned {
		result.AssignedMinutes[id] = minutes
	}
}

// failureSet accumulates de-duplicated, human-readable placement failures.
type failureSet struct {
	seen  map[string]struct{}
	items []string
	count int
}

func newFailureSet() *failureSet {
	return &failureSet{seen: make(map[string]struct{})}
}

func (f *failureSet) add(unit LectureUnit) {
	f.count++
	desc := fmt.Sprintf("section %s (%s %s) lecture %d [%s] could not be placed",
		unit.SectionName, unit.CourseCode, unit.CourseName, unit.Index+1, unit.Type)
	f.push(desc)
}

func (f *failureSet) addBroken(section Section, reason string) {
	f.count++
	f.push(fmt.Sprintf("section %s skipped: %s", section.Name, reason))
}

func (f *failureSet) push(desc string) {
	if _, dup := f.seen[desc]; dup {
		return
	}
	f.seen[desc] = struct{}{}
	f.items = append(f.items, desc)
}

func (f *failureSet) report(scheduled int) RunReport {
	items := f.items
	if items == nil {
		items = []string{}
	}
	return RunReport{
		ScheduledCount: scheduled,
		FailedCount:    f.count,
		Unscheduled:    items,
	}
}
