package engine

// DoctorAvailable reports whether a doctor can host a lecture of the given
// duration starting at start on the given day. The doctor schedule is passed
// as an explicit snapshot so callers can validate against scratch copies
// without touching live state.
func DoctorAvailable(grid Grid, doctor Doctor, day Day, start, duration int, sched DoctorGrid) bool {
	if !day.Valid() || !grid.ValidStart(start) || !grid.InBounds(start, duration) {
		return false
	}

	window, teaches := doctor.Windows[day]
	if !teaches {
		return false
	}
	if start < window.Start || start+duration > window.End {
		return false
	}

	end := start + duration
	for _, blocked := range doctor.Unavailable {
		if blocked.Overlaps(day, start, end) {
			return false
		}
	}

	for _, slot := range grid.SlotStarts(start, duration) {
		if _, taken := sched[SlotKey{Day: day, Start: slot}]; taken {
			return false
		}
	}

	// Minimum break on both sides. The first and last lectures of the day
	// have no neighbour on that side; overlaps are already caught above.
	if prevEnd, ok := latestEndBefore(sched, day, start); ok {
		if start-prevEnd < grid.BreakMinutes {
			return false
		}
	}
	if nextStart, ok := earliestStartAfter(sched, day, end); ok {
		if nextStart-end < grid.BreakMinutes {
			return false
		}
	}

	return true
}

// RoomAvailable reports whether a room can host a lecture of the given
// duration starting at start on the given day. The free grid is passed as an
// explicit snapshot for the same reason as DoctorAvailable.
func RoomAvailable(grid Grid, room Room, day Day, start, duration int, free RoomGrid) bool {
	if !day.Valid() || !grid.ValidStart(start) || !grid.InBounds(start, duration) {
		return false
	}

	end := start + duration
	if room.Type == RoomLab {
		for _, blocked := range room.Blocked {
			if blocked.Overlaps(day, start, end) {
				return false
			}
		}
	}

	for _, slot := range grid.SlotStarts(start, duration) {
		if !free[SlotKey{Day: day, Start: slot}] {
			return false
		}
	}

	return true
}

// RoomFits checks the static room constraints: capacity for the section size
// and lab-requirement match. Lab courses need lab rooms and vice versa.
func RoomFits(room Room, unit LectureUnit) bool {
	if room.Capacity < unit.Students {
		return false
	}
	if unit.RequiresLab {
		return room.Type == RoomLab
	}
	return room.Type != RoomLab
}

// latestEndBefore finds the end minute of the occupied slot immediately
// preceding start on the given day.
func latestEndBefore(sched DoctorGrid, day Day, start int) (int, bool) {
	best := -1
	for key, lec := range sched {
		if key.Day != day {
			continue
		}
		end := lec.End()
		if end <= start && end > best {
			best = end
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// earliestStartAfter finds the start minute of the occupied slot immediately
// following end on the given day.
func earliestStartAfter(sched DoctorGrid, day Day, end int) (int, bool) {
	best := -1
	for key, lec := range sched {
		if key.Day != day {
			continue
		}
		if lec.Start >= end && (best < 0 || lec.Start < best) {
			best = lec.Start
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
