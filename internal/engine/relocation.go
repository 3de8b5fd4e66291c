package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// MovePhase tracks the relocation state machine:
// Idle -> LectureSelected -> (MoveCommitted | MoveRejected) -> Idle.
type MovePhase int

const (
	PhaseIdle MovePhase = iota
	PhaseLectureSelected
	PhaseMoveCommitted
	PhaseMoveRejected
)

// RejectReason identifies why a proposed move was refused.
type RejectReason string

const (
	ReasonTargetOccupied    RejectReason = "TARGET_OCCUPIED"
	ReasonInsufficientSlots RejectReason = "INSUFFICIENT_SLOTS"
	ReasonDoctorUnavailable RejectReason = "DOCTOR_UNAVAILABLE"
	ReasonRoomUnavailable   RejectReason = "ROOM_UNAVAILABLE"
	ReasonCapacityExceeded  RejectReason = "CAPACITY_EXCEEDED"
	ReasonInvalidTarget     RejectReason = "INVALID_TARGET"
)

// MoveTarget is the cell a selected lecture should move to. The room and
// duration of the lecture are preserved; the owning doctor may change.
type MoveTarget struct {
	DoctorID string
	Day      Day
	Start    int
}

// MoveOutcome reports the result of a proposed move. Phase records the
// terminal state the proposal reached before the relocator returned to Idle.
type MoveOutcome struct {
	Accepted bool
	Phase    MovePhase
	Reason   RejectReason
	Message  string
	Lecture  *ScheduledLecture
}

// Relocator moves one already-placed lecture at a time. Validation runs
// against scratch copies of the affected grids; live state is only touched
// after the dry run succeeds, so a rejection never leaves partial mutations.
type Relocator struct {
	grid     Grid
	state    *State
	doctors  map[string]Doctor
	rooms    map[string]Room
	phase    MovePhase
	selected *ScheduledLecture
	logger   *zap.Logger
}

// NewRelocator wraps a live schedule state for interactive moves.
func NewRelocator(state *State, doctors []Doctor, rooms []Room, logger *zap.Logger) *Relocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	doctorMap := make(map[string]Doctor, len(doctors))
	for _, d := range doctors {
		doctorMap[d.ID] = d
	}
	roomMap := make(map[string]Room, len(rooms))
	for _, r := range rooms {
		roomMap[r.ID] = r
	}
	return &Relocator{
		grid:    state.Grid,
		state:   state,
		doctors: doctorMap,
		rooms:   roomMap,
		phase:   PhaseIdle,
		logger:  logger,
	}
}

// Phase exposes the current state-machine phase.
func (r *Relocator) Phase() MovePhase {
	return r.phase
}

// Select captures the full current placement of an existing lecture,
// transitioning Idle -> LectureSelected.
func (r *Relocator) Select(lectureID string) error {
	if r.phase != PhaseIdle {
		return fmt.Errorf("relocation already in progress")
	}
	lec, ok := r.state.Lectures[lectureID]
	if !ok {
		return fmt.Errorf("lecture %s is not placed", lectureID)
	}
	r.selected = lec
	r.phase = PhaseLectureSelected
	return nil
}

// Propose validates the move against scratch state and, on success, replays
// the remove/re-add sequence against the live schedule. The relocator always
// returns to Idle afterwards.
func (r *Relocator) Propose(target MoveTarget) MoveOutcome {
	if r.phase != PhaseLectureSelected || r.selected == nil {
		return r.reject(ReasonInvalidTarget, "no lecture selected")
	}
	lec := r.selected

	outcome := r.validate(lec, target)
	if !outcome.Accepted {
		r.selected = nil
		r.phase = PhaseIdle
		return outcome
	}

	// Dry run passed: replay against live state.
	moved := *lec
	moved.DoctorID = target.DoctorID
	moved.Day = target.Day
	moved.Start = target.Start

	r.state.Remove(lec)
	r.state.Apply(&moved)

	r.logger.Info("lecture relocated",
		zap.String("lecture", moved.ID),
		zap.String("doctor", moved.DoctorID),
		zap.String("day", moved.Day.String()),
		zap.Int("start", moved.Start))

	r.selected = nil
	r.phase = PhaseIdle
	return MoveOutcome{Accepted: true, Phase: PhaseMoveCommitted, Lecture: &moved}
}

// validate performs the dry run: scratch copies of the affected doctor and
// room grids, the selected lecture logically removed first, then the
// availability predicates against the target placement. Removing before
// checking lets a lecture move into slots that overlap its own vacated
// position.
func (r *Relocator) validate(lec *ScheduledLecture, target MoveTarget) MoveOutcome {
	targetDoctor, ok := r.doctors[target.DoctorID]
	if !ok {
		return r.reject(ReasonInvalidTarget, fmt.Sprintf("doctor %s not found", target.DoctorID))
	}
	room, ok := r.rooms[lec.RoomID]
	if !ok {
		return r.reject(ReasonInvalidTarget, fmt.Sprintf("room %s not found", lec.RoomID))
	}
	if !target.Day.Valid() || !r.grid.ValidStart(target.Start) {
		return r.reject(ReasonInvalidTarget, "target day or start time is off the grid")
	}
	if !r.grid.InBounds(target.Start, lec.Duration) {
		return r.reject(ReasonInsufficientSlots, "not enough slots remain before the end of day")
	}

	scratch := r.state.scratchFor([]string{lec.DoctorID, target.DoctorID}, []string{lec.RoomID})
	scratch.Remove(lec)

	slots := r.grid.SlotStarts(target.Start, lec.Duration)
	for i, slot := range slots {
		key := PlacementKey{Day: target.Day, Start: slot, RoomID: lec.RoomID}
		if other, taken := scratch.Schedule[key]; taken && other.ID != lec.ID {
			if i == 0 {
				return r.reject(ReasonTargetOccupied, "target cell is already occupied")
			}
			return r.reject(ReasonInsufficientSlots, "following slots are taken by another lecture")
		}
	}

	if targetDoctor.WeeklyHours*60-scratch.Assigned[target.DoctorID] < lec.Duration {
		return r.reject(ReasonCapacityExceeded,
			fmt.Sprintf("doctor %s has no remaining weekly capacity", target.DoctorID))
	}
	if !DoctorAvailable(r.grid, targetDoctor, target.Day, target.Start, lec.Duration, scratch.Doctors[target.DoctorID]) {
		return r.reject(ReasonDoctorUnavailable,
			fmt.Sprintf("doctor %s is unavailable at the target time", target.DoctorID))
	}
	if !RoomAvailable(r.grid, room, target.Day, target.Start, lec.Duration, scratch.Rooms[lec.RoomID]) {
		return r.reject(ReasonRoomUnavailable,
			fmt.Sprintf("room %s is unavailable at the target time", lec.RoomID))
	}

	return MoveOutcome{Accepted: true}
}

func (r *Relocator) reject(reason RejectReason, message string) MoveOutcome {
	return MoveOutcome{Accepted: false, Phase: PhaseMoveRejected, Reason: reason, Message: message}
}
