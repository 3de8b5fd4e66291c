package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func testGrid() Grid {
	return NewGrid(DefaultGridConfig())
}

func testDoctor(id string, weeklyHours int) Doctor {
	return Doctor{
		ID:          id,
		Name:        "Dr " + id,
		WeeklyHours: weeklyHours,
		Windows:     fullWindows(testGrid()),
	}
}

func testInput() Input {
	return Input{
		Doctors: []Doctor{testDoctor("doc-1", 12), testDoctor("doc-2", 12)},
		Courses: []Course{
			{ID: "crs-1", Name: "Algorithms", Code: "CS301", WeeklyHours: 3},
			{ID: "crs-2", Name: "Networks Lab", Code: "CS352", WeeklyHours: 2, RequiresLab: true},
		},
		Sections: []Section{
			{ID: "sec-1", Name: "A1", Students: 30, CourseID: "crs-1", DoctorID: "doc-1"},
			{ID: "sec-2", Name: "A2", Students: 20, CourseID: "crs-2", DoctorID: "doc-2"},
		},
		Rooms: []Room{
			{ID: "room-1", Name: "C101", Capacity: 40, Type: RoomClassroom},
			{ID: "room-2", Name: "L201", Capacity: 25, Type: RoomLab},
		},
	}
}

func TestPlaceSchedulesEverySection(t *testing.T) {
	eng := New(testGrid(), rand.New(rand.NewSource(1)), nil)
	result := eng.Place(testInput())

	require.Equal(t, 4, result.Report.ScheduledCount)
	require.Equal(t, 0, result.Report.FailedCount)
	require.Empty(t, result.Report.Unscheduled)
	require.True(t, result.SectionScheduled["sec-1"])
	require.True(t, result.SectionScheduled["sec-2"])

	// 3 hours -> 100 + 50 minutes, 2 hours -> 2 * 50 minutes.
	require.Equal(t, 150, result.AssignedMinutes["doc-1"])
	require.Equal(t, 100, result.AssignedMinutes["doc-2"])

	for _, lec := range result.Lectures {
		if lec.CourseID == "crs-2" {
			require.Equal(t, "room-2", lec.RoomID)
		} else {
			require.Equal(t, "room-1", lec.RoomID)
		}
	}
}

func TestPlaceNeverDoubleBooks(t *testing.T) {
	grid := testGrid()
	in := Input{
		Doctors: []Doctor{testDoctor("doc-1", 20), testDoctor("doc-2", 20), testDoctor("doc-3", 20)},
		Rooms: []Room{
			{ID: "room-1", Name: "C101", Capacity: 50, Type: RoomClassroom},
			{ID: "room-2", Name: "C102", Capacity: 50, Type: RoomClassroom},
		},
	}
	for i, doctorID := range []string{"doc-1", "doc-1", "doc-2", "doc-2", "doc-3", "doc-3"} {
		courseID := "crs-" + string(rune('a'+i))
		in.Courses = append(in.Courses, Course{ID: courseID, Code: courseID, WeeklyHours: 3})
		in.Sections = append(in.Sections, Section{
			ID: "sec-" + string(rune('a'+i)), Name: "S" + string(rune('A'+i)),
			Students: 30, CourseID: courseID, DoctorID: doctorID,
		})
	}

	result := New(grid, rand.New(rand.NewSource(7)), nil).Place(in)
	require.Equal(t, 12, result.Report.ScheduledCount)

	doctorSlots := make(map[SlotKey]map[string]string)
	roomSlots := make(map[PlacementKey]string)
	byDoctorDay := make(map[string]map[Day][]ScheduledLecture)
	for _, lec := range result.Lectures {
		for _, slot := range grid.SlotStarts(lec.Start, lec.Duration) {
			key := SlotKey{Day: lec.Day, Start: slot}
			if doctorSlots[key] == nil {
				doctorSlots[key] = make(map[string]string)
			}
			prev, clash := doctorSlots[key][lec.DoctorID]
			require.Falsef(t, clash, "doctor %s booked twice at %v (%s vs %s)", lec.DoctorID, key, prev, lec.ID)
			doctorSlots[key][lec.DoctorID] = lec.ID

			pkey := PlacementKey{Day: lec.Day, Start: slot, RoomID: lec.RoomID}
			prevRoom, roomClash := roomSlots[pkey]
			require.Falsef(t, roomClash, "room %s booked twice at %v (%s vs %s)", lec.RoomID, pkey, prevRoom, lec.ID)
			roomSlots[pkey] = lec.ID
		}
		if byDoctorDay[lec.DoctorID] == nil {
			byDoctorDay[lec.DoctorID] = make(map[Day][]ScheduledLecture)
		}
		byDoctorDay[lec.DoctorID][lec.Day] = append(byDoctorDay[lec.DoctorID][lec.Day], lec)
	}

	// Consecutive lectures of one doctor keep the minimum break.
	for doctorID, days := range byDoctorDay {
		for _, lectures := range days {
			for _, a := range lectures {
				for _, b := range lectures {
					if a.ID == b.ID || a.End() > b.Start {
						continue
					}
					require.GreaterOrEqualf(t, b.Start-a.End(), grid.BreakMinutes,
						"doctor %s has lectures %d minutes apart", doctorID, b.Start-a.End())
				}
			}
		}
	}
}

func TestPlaceDeterministicUnderFixedSeed(t *testing.T) {
	type placement struct {
		SectionID string
		Index     int
		DoctorID  string
		RoomID    string
		Day       Day
		Start     int
	}
	run := func(seed int64) []placement {
		result := New(testGrid(), rand.New(rand.NewSource(seed)), nil).Place(testInput())
		out := make([]placement, 0, len(result.Lectures))
		for _, lec := range result.Lectures {
			out = append(out, placement{lec.SectionID, lec.Index, lec.DoctorID, lec.RoomID, lec.Day, lec.Start})
		}
		return out
	}

	require.Equal(t, run(42), run(42))
}

func TestPlaceReportsCapacityExhaustion(t *testing.T) {
	in := testInput()
	// One weekly hour covers the short unit but not the long one.
	in.Doctors[0].WeeklyHours = 1

	result := New(testGrid(), rand.New(rand.NewSource(3)), nil).Place(in)
	require.Equal(t, 1, result.Report.FailedCount)
	require.False(t, result.SectionScheduled["sec-1"])
	require.True(t, result.SectionScheduled["sec-2"])
	require.NotEmpty(t, result.Report.Unscheduled)
	require.Contains(t, result.Report.Unscheduled[0], "A1")
}

func TestPlaceFailsWhenNoRoomFitsSection(t *testing.T) {
	in := Input{
		Doctors: []Doctor{testDoctor("doc-1", 12)},
		Courses: []Course{{ID: "crs-1", Name: "Algorithms", Code: "CS301", WeeklyHours: 3}},
		Sections: []Section{
			{ID: "sec-1", Name: "A1", Students: 30, CourseID: "crs-1", DoctorID: "doc-1"},
		},
		Rooms: []Room{{ID: "room-1", Name: "C101", Capacity: 20, Type: RoomClassroom}},
	}

	result := New(testGrid(), rand.New(rand.NewSource(13)), nil).Place(in)

	// Every unit of the section fails: the only room is too small.
	require.Equal(t, 0, result.Report.ScheduledCount)
	require.Equal(t, 2, result.Report.FailedCount)
	require.False(t, result.SectionScheduled["sec-1"])
	require.Empty(t, result.Lectures)
	require.Equal(t, 0, result.AssignedMinutes["doc-1"])
	require.Len(t, result.Report.Unscheduled, 2)
	for _, desc := range result.Report.Unscheduled {
		require.Contains(t, desc, "A1")
	}
}

func TestPlaceSkipsBrokenReferences(t *testing.T) {
	in := testInput()
	in.Sections = append(in.Sections, Section{
		ID: "sec-ghost", Name: "G1", Students: 10, CourseID: "crs-missing", DoctorID: "doc-1",
	})

	result := New(testGrid(), rand.New(rand.NewSource(5)), nil).Place(in)
	require.False(t, result.SectionScheduled["sec-ghost"])
	require.Equal(t, 1, result.Report.FailedCount)
	require.Contains(t, result.Report.Unscheduled, "section G1 skipped: missing course")
}

func TestPlaceEmptyInputYieldsEmptySchedule(t *testing.T) {
	in := testInput()
	in.Doctors = nil

	result := New(testGrid(), rand.New(rand.NewSource(9)), nil).Place(in)
	require.Empty(t, result.Lectures)
	require.Equal(t, 0, result.Report.ScheduledCount)
	require.False(t, result.SectionScheduled["sec-1"])
	require.False(t, result.SectionScheduled["sec-2"])
}
