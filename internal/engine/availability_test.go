package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fullWindows(grid Grid) map[Day]Window {
	windows := make(map[Day]Window, len(grid.Days()))
	for _, day := range grid.Days() {
		windows[day] = Window{Start: grid.DayStart, End: grid.DayEnd}
	}
	return windows
}

func TestDoctorAvailableWindowChecks(t *testing.T) {
	grid := NewGrid(DefaultGridConfig())
	doctor := Doctor{
		ID:          "doc-1",
		WeeklyHours: 10,
		Windows: map[Day]Window{
			Monday: {Start: 9 * 60, End: 12 * 60},
		},
	}
	sched := make(DoctorGrid)

	// No window on Tuesday at all.
	require.False(t, DoctorAvailable(grid, doctor, Tuesday, 9*60+40, 50, sched))
	// Before the Monday window opens.
	require.False(t, DoctorAvailable(grid, doctor, Monday, 8*60, 50, sched))
	// Inside the window, on a slot boundary (08:00 + 2*50 = 09:40).
	require.True(t, DoctorAvailable(grid, doctor, Monday, 9*60+40, 50, sched))
	// Lecture would run past the window's end.
	require.False(t, DoctorAvailable(grid, doctor, Monday, 11*60+20, 100, sched))
	// Off the slot boundary.
	require.False(t, DoctorAvailable(grid, doctor, Monday, 10*60, 50, sched))
}

func TestDoctorAvailableUnavailableRanges(t *testing.T) {
	grid := NewGrid(DefaultGridConfig())
	doctor := Doctor{
		ID:          "doc-1",
		WeeklyHours: 10,
		Windows:     fullWindows(grid),
		Unavailable: []TimeRange{{Day: Sunday, Start: 10 * 60, End: 12 * 60}},
	}
	sched := make(DoctorGrid)

	// 09:40-10:30 clips the blocked 10:00-12:00 range.
	require.False(t, DoctorAvailable(grid, doctor, Sunday, 9*60+40, 50, sched))
	// 08:50-09:40 ends before the blocked range starts.
	require.True(t, DoctorAvailable(grid, doctor, Sunday, 8*60+50, 50, sched))
	// Same clock time on another day is fine.
	require.True(t, DoctorAvailable(grid, doctor, Monday, 9*60+40, 50, sched))
}

func TestDoctorAvailableBreakSpacing(t *testing.T) {
	grid := NewGrid(DefaultGridConfig())
	doctor := Doctor{ID: "doc-1", WeeklyHours: 10, Windows: fullWindows(grid)}

	existing := &ScheduledLecture{
		ID: "lec-1", DoctorID: "doc-1", Day: Sunday,
		Start: 8 * 60, Duration: 50, Slots: 1,
	}
	sched := DoctorGrid{{Day: Sunday, Start: 8 * 60}: existing}

	// Back to back: previous ends 08:50, next slot starts 08:50. Zero gap.
	require.False(t, DoctorAvailable(grid, doctor, Sunday, 8*60+50, 50, sched))
	// Skipping one slot leaves a 50-minute gap, well past the minimum break.
	require.True(t, DoctorAvailable(grid, doctor, Sunday, 9*60+40, 50, sched))
	// First lecture of a different day needs no preceding break.
	require.True(t, DoctorAvailable(grid, doctor, Monday, 8*60, 50, sched))
	// Occupied slot is rejected outright.
	require.False(t, DoctorAvailable(grid, doctor, Sunday, 8*60, 50, sched))

	// The break also applies in the forward direction: a lecture ending
	// exactly when an existing one starts is rejected.
	later := &ScheduledLecture{
		ID: "lec-2", DoctorID: "doc-1", Day: Monday,
		Start: 9*60 + 40, Duration: 50, Slots: 1,
	}
	sched = DoctorGrid{{Day: Monday, Start: 9*60 + 40}: later}
	require.False(t, DoctorAvailable(grid, doctor, Monday, 8*60+50, 50, sched))
	require.True(t, DoctorAvailable(grid, doctor, Monday, 8*60, 50, sched))
}

func TestRoomAvailableLabBlocks(t *testing.T) {
	grid := NewGrid(DefaultGridConfig())
	blocked := []TimeRange{{Day: Wednesday, Start: 8 * 60, End: 10 * 60}}
	lab := Room{ID: "room-lab", Capacity: 30, Type: RoomLab, Blocked: blocked}
	classroom := Room{ID: "room-cls", Capacity: 30, Type: RoomClassroom, Blocked: blocked}

	free := make(RoomGrid)
	for _, day := range grid.Days() {
		for _, slot := range grid.Slots() {
			free[SlotKey{Day: day, Start: slot}] = true
		}
	}

	require.False(t, RoomAvailable(grid, lab, Wednesday, 8*60+50, 50, free))
	require.True(t, RoomAvailable(grid, lab, Thursday, 8*60+50, 50, free))
	// Blocked ranges are ignored for non-lab rooms.
	require.True(t, RoomAvailable(grid, classroom, Wednesday, 8*60+50, 50, free))

	free[SlotKey{Day: Thursday, Start: 8*60 + 50}] = false
	require.False(t, RoomAvailable(grid, lab, Thursday, 8*60+50, 50, free))
}

func TestRoomFits(t *testing.T) {
	lab := Room{ID: "lab", Capacity: 25, Type: RoomLab}
	classroom := Room{ID: "cls", Capacity: 40, Type: RoomClassroom}
	training := Room{ID: "trn", Capacity: 40, Type: RoomTraining}

	labUnit := LectureUnit{Students: 20, RequiresLab: true}
	theoryUnit := LectureUnit{Students: 20, RequiresLab: false}

	require.True(t, RoomFits(lab, labUnit))
	require.False(t, RoomFits(classroom, labUnit))
	require.False(t, RoomFits(lab, theoryUnit))
	require.True(t, RoomFits(classroom, theoryUnit))
	require.True(t, RoomFits(training, theoryUnit))
	// Capacity dominates everything else.
	require.False(t, RoomFits(lab, LectureUnit{Students: 30, RequiresLab: true}))
}
