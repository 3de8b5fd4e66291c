package engine

// SlotKey addresses one cell of a per-day slot grid.
type SlotKey struct {
	Day   Day
	Start int
}

// DoctorGrid maps occupied slots to the lecture occupying them. A long
// lecture appears once per covered slot, pointing at the same record.
type DoctorGrid map[SlotKey]*ScheduledLecture

// RoomGrid is a boolean availability grid, true meaning the slot is free.
type RoomGrid map[SlotKey]bool

// PlacementKey addresses one cell of the room-indexed weekly schedule.
type PlacementKey struct {
	Day    Day
	Start  int
	RoomID string
}

// State is the mutable scheduling state for a single run: the room-indexed
// schedule, per-doctor grids, per-room free grids, and assigned minutes.
// It is exclusively owned by one engine operation at a time.
type State struct {
	Grid     Grid
	Schedule map[PlacementKey]*ScheduledLecture
	Doctors  map[string]DoctorGrid
	Rooms    map[string]RoomGrid
	Assigned map[string]int
	Lectures map[string]*ScheduledLecture
}

// NewState allocates empty schedule structures for the given doctors and
// rooms. Every room slot starts out free and every doctor starts at zero
// assigned minutes.
func NewState(grid Grid, doctors []Doctor, rooms []Room) *State {
	s := &State{
		Grid:     grid,
		Schedule: make(map[PlacementKey]*ScheduledLecture),
		Doctors:  make(map[string]DoctorGrid, len(doctors)),
		Rooms:    make(map[string]RoomGrid, len(rooms)),
		Assigned: make(map[string]int, len(doctors)),
		Lectures: make(map[string]*ScheduledLecture),
	}
	for _, d := range doctors {
		s.Doctors[d.ID] = make(DoctorGrid)
		s.Assigned[d.ID] = 0
	}
	for _, r := range rooms {
		free := make(RoomGrid)
		for _, day := range grid.Days() {
			for _, slot := range grid.Slots() {
				free[SlotKey{Day: day, Start: slot}] = true
			}
		}
		s.Rooms[r.ID] = free
	}
	return s
}

// Apply writes a lecture into every structure, marking its covered slots.
func (s *State) Apply(lec *ScheduledLecture) {
	doctorGrid := s.Doctors[lec.DoctorID]
	if doctorGrid == nil {
		doctorGrid = make(DoctorGrid)
		s.Doctors[lec.DoctorID] = doctorGrid
	}
	roomGrid := s.Rooms[lec.RoomID]
	for _, slot := range s.Grid.SlotStarts(lec.Start, lec.Duration) {
		key := SlotKey{Day: lec.Day, Start: slot}
		s.Schedule[PlacementKey{Day: lec.Day, Start: slot, RoomID: lec.RoomID}] = lec
		doctorGrid[key] = lec
		if roomGrid != nil {
			roomGrid[key] = false
		}
	}
	s.Assigned[lec.DoctorID] += lec.Duration
	s.Lectures[lec.ID] = lec
}

// Remove erases a lecture from every structure, freeing its slots.
func (s *State) Remove(lec *ScheduledLecture) {
	doctorGrid := s.Doctors[lec.DoctorID]
	roomGrid := s.Rooms[lec.RoomID]
	for _, slot := range s.Grid.SlotStarts(lec.Start, lec.Duration) {
		key := SlotKey{Day: lec.Day, Start: slot}
		delete(s.Schedule, PlacementKey{Day: lec.Day, Start: slot, RoomID: lec.RoomID})
		if doctorGrid != nil {
			delete(doctorGrid, key)
		}
		if roomGrid != nil {
			roomGrid[key] = true
		}
	}
	if s.Assigned[lec.DoctorID] >= lec.Duration {
		s.Assigned[lec.DoctorID] -= lec.Duration
	} else {
		s.Assigned[lec.DoctorID] = 0
	}
	delete(s.Lectures, lec.ID)
}

// RoomSlotsFree reports whether every slot the interval covers is free for
// the room in both the schedule and the room grid.
func (s *State) RoomSlotsFree(roomID string, day Day, start, duration int) bool {
	free, ok := s.Rooms[roomID]
	if !ok {
		return false
	}
	for _, slot := range s.Grid.SlotStarts(start, duration) {
		key := SlotKey{Day: day, Start: slot}
		if !free[key] {
			return false
		}
		if _, taken := s.Schedule[PlacementKey{Day: day, Start: slot, RoomID: roomID}]; taken {
			return false
		}
	}
	return true
}

// DayLoad counts lecture starts for a doctor on a day, used by the placement
// engine's load-balancing day ordering.
func (s *State) DayLoad(doctorID string, day Day) int {
	count := 0
	seen := make(map[string]struct{})
	for key, lec := range s.Doctors[doctorID] {
		if key.Day != day {
			continue
		}
		if _, dup := seen[lec.ID]; dup {
			continue
		}
		seen[lec.ID] = struct{}{}
		count++
	}
	return count
}

// scratchFor builds a scoped copy of the state covering only the doctors and
// rooms a relocation touches. Copying the affected grids instead of the whole
// state keeps dry-run validation cheap while preserving isolation.
func (s *State) scratchFor(doctorIDs []string, roomIDs []string) *State {
	scratch := &State{
		Grid:     s.Grid,
		Schedule: make(map[PlacementKey]*ScheduledLecture, len(s.Schedule)),
		Doctors:  make(map[string]DoctorGrid, len(doctorIDs)),
		Rooms:    make(map[string]RoomGrid, len(roomIDs)),
		Assigned: make(map[string]int, len(s.Assigned)),
		Lectures: make(map[string]*ScheduledLecture, len(s.Lectures)),
	}
	for key, lec := range s.Schedule {
		scratch.Schedule[key] = lec
	}
	for id, lec := range s.Lectures {
		scratch.Lectures[id] = lec
	}
	for id, minutes := range s.Assigned {
		scratch.Assigned[id] = minutes
	}
	for _, id := range doctorIDs {
		grid := make(DoctorGrid, len(s.Doctors[id]))
		for key, lec := range s.Doctors[id] {
			grid[key] = lec
		}
		scratch.Doctors[id] = grid
	}
	for _, id := range roomIDs {
		free := make(RoomGrid, len(s.Rooms[id]))
		for key, val := range s.Rooms[id] {
			free[key] = val
		}
		scratch.Rooms[id] = free
	}
	return scratch
}
