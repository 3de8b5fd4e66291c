package models

import "time"

// Course represents a course record.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	WeeklyHours int       `db:"weekly_hours" json:"weekly_hours"`
	LectureType string    `db:"lecture_type" json:"lecture_type"`
	RequiresLab bool      `db:"requires_lab" json:"requires_lab"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
