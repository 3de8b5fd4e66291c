package models

import "time"

// ScheduledLecture represents a committed placement of one lecture unit.
type ScheduledLecture struct {
	ID              string    `db:"id" json:"id"`
	SectionID       string    `db:"section_id" json:"section_id"`
	CourseID        string    `db:"course_id" json:"course_id"`
	DoctorID        string    `db:"doctor_id" json:"doctor_id"`
	RoomID          string    `db:"room_id" json:"room_id"`
	DayOfWeek       string    `db:"day_of_week" json:"day_of_week"`
	StartMinutes    int       `db:"start_minutes" json:"start_minutes"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Slots           int       `db:"slots" json:"slots"`
	LectureIndex    int       `db:"lecture_index" json:"lecture_index"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// TimetableSnapshot is the JSON payload stored at the persistence boundary
// after each run: the committed lectures plus the run report.
type TimetableSnapshot struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Seed        int64              `json:"seed"`
	Lectures    []ScheduledLecture `json:"lectures"`
	Report      RunReport          `json:"report"`
}

// RunReport is the persisted summary of a placement run.
type RunReport struct {
	ScheduledCount int      `json:"scheduledCount"`
	FailedCount    int      `json:"failedCount"`
	Unscheduled    []string `json:"unscheduledDescriptions"`
}
