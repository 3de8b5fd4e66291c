package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func placedState(t *testing.T) (*Result, Input) {
	t.Helper()
	in := testInput()
	result := New(testGrid(), rand.New(rand.NewSource(11)), nil).Place(in)
	require.Equal(t, 4, result.Report.ScheduledCount)
	return result, in
}

func findLecture(t *testing.T, result *Result, sectionID string, index int) ScheduledLecture {
	t.Helper()
	for _, lec := range result.Lectures {
		if lec.SectionID == sectionID && lec.Index == index {
			return lec
		}
	}
	t.Fatalf("no lecture for section %s index %d", sectionID, index)
	return ScheduledLecture{}
}

func snapshotState(s *State) map[string]ScheduledLecture {
	out := make(map[string]ScheduledLecture, len(s.Lectures))
	for id, lec := range s.Lectures {
		out[id] = *lec
	}
	return out
}

func freeStart(t *testing.T, s *State, doctor Doctor, roomID string, duration int) (Day, int) {
	t.Helper()
	for _, day := range s.Grid.Days() {
		for _, start := range s.Grid.Slots() {
			if !DoctorAvailable(s.Grid, doctor, day, start, duration, s.Doctors[doctor.ID]) {
				continue
			}
			if !s.RoomSlotsFree(roomID, day, start, duration) {
				continue
			}
			return day, start
		}
	}
	t.Fatal("no free placement found")
	return Sunday, 0
}

func TestRelocatorCommitsValidMove(t *testing.T) {
	result, in := placedState(t)
	state := result.State
	lec := findLecture(t, result, "sec-1", 1)

	day, start := freeStart(t, state, in.Doctors[0], lec.RoomID, lec.Duration)

	r := NewRelocator(state, in.Doctors, in.Rooms, nil)
	require.Equal(t, PhaseIdle, r.Phase())
	require.NoError(t, r.Select(lec.ID))
	require.Equal(t, PhaseLectureSelected, r.Phase())

	outcome := r.Propose(MoveTarget{DoctorID: lec.DoctorID, Day: day, Start: start})
	require.True(t, outcome.Accepted)
	require.Equal(t, PhaseMoveCommitted, outcome.Phase)
	require.Equal(t, PhaseIdle, r.Phase())
	require.Equal(t, day, outcome.Lecture.Day)
	require.Equal(t, start, outcome.Lecture.Start)

	moved := state.Lectures[lec.ID]
	require.Equal(t, day, moved.Day)
	require.Equal(t, start, moved.Start)
	// The vacated slots are free again.
	require.True(t, state.RoomSlotsFree(lec.RoomID, lec.Day, lec.Start, lec.Duration))
}

func TestRelocatorAllowsMoveOntoOwnSlots(t *testing.T) {
	result, in := placedState(t)
	state := result.State
	lec := findLecture(t, result, "sec-1", 0) // the long unit

	// Re-proposing the exact current placement must pass: the dry run removes
	// the lecture before checking, so its own slots do not count as occupied.
	r := NewRelocator(state, in.Doctors, in.Rooms, nil)
	require.NoError(t, r.Select(lec.ID))
	outcome := r.Propose(MoveTarget{DoctorID: lec.DoctorID, Day: lec.Day, Start: lec.Start})
	require.True(t, outcome.Accepted, "reason %s: %s", outcome.Reason, outcome.Message)
}

func TestRelocatorRejectsOccupiedTarget(t *testing.T) {
	result, in := placedState(t)
	state := result.State
	mover := findLecture(t, result, "sec-1", 1)

	// Target the first slot of another lecture in the same room.
	other := findLecture(t, result, "sec-1", 0)

	before := snapshotState(state)

	r := NewRelocator(state, in.Doctors, in.Rooms, nil)
	require.NoError(t, r.Select(mover.ID))
	outcome := r.Propose(MoveTarget{DoctorID: mover.DoctorID, Day: other.Day, Start: other.Start})

	require.False(t, outcome.Accepted)
	require.Equal(t, ReasonTargetOccupied, outcome.Reason)
	require.Equal(t, PhaseMoveRejected, outcome.Phase)
	require.Equal(t, PhaseIdle, r.Phase())
	// A rejection leaves the schedule untouched.
	require.Equal(t, before, snapshotState(state))
}

func TestRelocatorRejectsInvalidTarget(t *testing.T) {
	result, in := placedState(t)
	lec := findLecture(t, result, "sec-2", 0)

	r := NewRelocator(result.State, in.Doctors, in.Rooms, nil)
	require.NoError(t, r.Select(lec.ID))
	outcome := r.Propose(MoveTarget{DoctorID: "doc-unknown", Day: Sunday, Start: 8 * 60})
	require.False(t, outcome.Accepted)
	require.Equal(t, ReasonInvalidTarget, outcome.Reason)

	require.NoError(t, r.Select(lec.ID))
	outcome = r.Propose(MoveTarget{DoctorID: lec.DoctorID, Day: Day(9), Start: 8 * 60})
	require.False(t, outcome.Accepted)
	require.Equal(t, ReasonInvalidTarget, outcome.Reason)
}

func TestRelocatorRejectsEndOfDayOverflow(t *testing.T) {
	result, in := placedState(t)
	state := result.State
	lec := findLecture(t, result, "sec-1", 0) // long unit, two slots

	slots := state.Grid.Slots()
	last := slots[len(slots)-1]

	r := NewRelocator(state, in.Doctors, in.Rooms, nil)
	require.NoError(t, r.Select(lec.ID))
	outcome := r.Propose(MoveTarget{DoctorID: lec.DoctorID, Day: lec.Day, Start: last})
	require.False(t, outcome.Accepted)
	require.Equal(t, ReasonInsufficientSlots, outcome.Reason)
}

func TestRelocatorRejectsCapacityExceeded(t *testing.T) {
	result, in := placedState(t)
	state := result.State
	lec := findLecture(t, result, "sec-1", 1)

	// doc-2 already carries 100 assigned minutes; shrink the weekly budget so
	// nothing remains for a transferred lecture.
	doctors := make([]Doctor, len(in.Doctors))
	copy(doctors, in.Doctors)
	doctors[1].WeeklyHours = 2

	target := doctors[1]
	day, start := freeStart(t, state, target, lec.RoomID, lec.Duration)

	r := NewRelocator(state, doctors, in.Rooms, nil)
	require.NoError(t, r.Select(lec.ID))
	outcome := r.Propose(MoveTarget{DoctorID: target.ID, Day: day, Start: start})
	require.False(t, outcome.Accepted)
	require.Equal(t, ReasonCapacityExceeded, outcome.Reason)
}

func TestRelocatorTransfersBetweenDoctors(t *testing.T) {
	result, in := placedState(t)
	state := result.State
	lec := findLecture(t, result, "sec-1", 1)

	target := in.Doctors[1]
	day, start := freeStart(t, state, target, lec.RoomID, lec.Duration)

	assignedBefore := state.Assigned["doc-1"]

	r := NewRelocator(state, in.Doctors, in.Rooms, nil)
	require.NoError(t, r.Select(lec.ID))
	outcome := r.Propose(MoveTarget{DoctorID: target.ID, Day: day, Start: start})
	require.True(t, outcome.Accepted, "reason %s: %s", outcome.Reason, outcome.Message)

	require.Equal(t, assignedBefore-lec.Duration, state.Assigned["doc-1"])
	require.Equal(t, 100+lec.Duration, state.Assigned["doc-2"])
	require.Equal(t, target.ID, state.Lectures[lec.ID].DoctorID)
}

func TestRelocatorSelectRequiresPlacedLecture(t *testing.T) {
	result, in := placedState(t)
	r := NewRelocator(result.State, in.Doctors, in.Rooms, nil)
	require.Error(t, r.Select("lec-missing"))
	require.Equal(t, PhaseIdle, r.Phase())
}
