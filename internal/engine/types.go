package engine

// Day identifies one of the five working days, Sunday through Thursday.
type Day int

const (
	Sunday Day = iota
	Monday
	Tuesday
	Wednesday
	Thursday
)

var dayNames = [...]string{"SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY"}

// String returns the canonical upper-case day name.
func (d Day) String() string {
	if d < Sunday || d > Thursday {
		return "UNKNOWN"
	}
	return dayNames[d]
}

// Valid reports whether d is one of the working days.
func (d Day) Valid() bool {
	return d >= Sunday && d <= Thursday
}

// WorkingDays returns the fixed ordered working week.
func WorkingDays() []Day {
	return []Day{Sunday, Monday, Tuesday, Wednesday, Thursday}
}

// RoomType classifies rooms for lab-requirement matching.
type RoomType string

const (
	RoomClassroom RoomType = "classroom"
	RoomLab       RoomType = "lab"
	RoomTraining  RoomType = "training"
)

// LectureType distinguishes one-slot from two-slot lecture units.
type LectureType string

const (
	LectureShort LectureType = "short"
	LectureLong  LectureType = "long"
)

// Window is an available interval within a single day, minutes from midnight.
type Window struct {
	Start int
	End   int
}

// TimeRange is a blocked interval on a specific day.
type TimeRange struct {
	Day   Day
	Start int
	End   int
}

// Overlaps reports whether the range intersects [start, end) on the given day.
func (r TimeRange) Overlaps(day Day, start, end int) bool {
	return r.Day == day && start < r.End && r.Start < end
}

// Doctor is the engine's view of an instructor record.
type Doctor struct {
	ID              string
	Name            string
	WeeklyHours     int
	AssignedMinutes int
	Windows         map[Day]Window
	Unavailable     []TimeRange
}

// RemainingMinutes returns the unassigned share of the weekly capacity.
func (d Doctor) RemainingMinutes() int {
	return d.WeeklyHours*60 - d.AssignedMinutes
}

// Course is the engine's view of a course record.
type Course struct {
	ID          string
	Name        string
	Code        string
	WeeklyHours int
	Type        LectureType
	RequiresLab bool
}

// Section is the engine's view of a course section.
type Section struct {
	ID       string
	Name     string
	Students int
	CourseID string
	DoctorID string
}

// Room is the engine's view of a room record. Blocked ranges only apply to labs.
type Room struct {
	ID       string
	Name     string
	Capacity int
	Type     RoomType
	Blocked  []TimeRange
}

// LectureUnit is one atomic schedulable piece derived from a section's course
// hours. Units are ephemeral: they exist between decomposition and placement.
type LectureUnit struct {
	SectionID   string
	SectionName string
	CourseID    string
	CourseCode  string
	CourseName  string
	DoctorID    string
	Students    int
	RequiresLab bool
	Type        LectureType
	Duration    int
	Index       int
}

// ScheduledLecture is a committed placement of a lecture unit.
type ScheduledLecture struct {
	ID        string
	SectionID string
	CourseID  string
	DoctorID  string
	RoomID    string
	Day       Day
	Start     int
	Duration  int
	Slots     int
	Index     int
}

// End returns the minute the lecture finishes.
func (l ScheduledLecture) End() int {
	return l.Start + l.Duration
}
