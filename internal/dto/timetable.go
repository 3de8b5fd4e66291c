package dto

import "time"

// GenerateTimetableRequest triggers a full placement run. The optional seed
// overrides the configured random source so runs can be reproduced.
type GenerateTimetableRequest struct {
	Seed *int64 `json:"seed" validate:"omitempty"`
}

// RunReport summarises a placement run.
type RunReport struct {
	ScheduledCount int      `json:"scheduledCount"`
	FailedCount    int      `json:"failedCount"`
	Unscheduled    []string `json:"unscheduledDescriptions"`
}

// LectureView is the presentation shape of one committed lecture.
type LectureView struct {
	ID              string `json:"id"`
	SectionID       string `json:"sectionId"`
	SectionName     string `json:"sectionName,omitempty"`
	CourseID        string `json:"courseId"`
	CourseCode      string `json:"courseCode,omitempty"`
	CourseName      string `json:"courseName,omitempty"`
	DoctorID        string `json:"doctorId"`
	DoctorName      string `json:"doctorName,omitempty"`
	RoomID          string `json:"roomId"`
	RoomName        string `json:"roomName,omitempty"`
	Day             string `json:"day"`
	StartTime       string `json:"startTime"`
	StartMinutes    int    `json:"startMinutes"`
	DurationMinutes int    `json:"durationMinutes"`
	LectureIndex    int    `json:"lectureIndex"`
}

// GenerateTimetableResponse returns the committed timetable and run report.
type GenerateTimetableResponse struct {
	RunID       string        `json:"runId"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Seed        int64         `json:"seed"`
	Report      RunReport     `json:"report"`
	Lectures    []LectureView `json:"lectures"`
}

// TimetableResponse returns the latest committed timetable.
type TimetableResponse struct {
	RunID       string        `json:"runId,omitempty"`
	GeneratedAt *time.Time    `json:"generatedAt,omitempty"`
	Lectures    []LectureView `json:"lectures"`
}

// MoveLectureRequest proposes relocating one placed lecture to a new
// (doctor, day, start time) cell. Room and duration are preserved.
type MoveLectureRequest struct {
	LectureID string `json:"lectureId" validate:"required"`
	DoctorID  string `json:"doctorId" validate:"required"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
}

// MoveLectureResponse reports the outcome of a proposed move.
type MoveLectureResponse struct {
	Accepted bool         `json:"accepted"`
	Reason   string       `json:"reason,omitempty"`
	Message  string       `json:"message,omitempty"`
	Lecture  *LectureView `json:"lecture,omitempty"`
}
