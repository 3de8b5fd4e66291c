package models

import "time"

// Section represents one enrolled group of a course, taught by one doctor.
type Section struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Students    int       `db:"students" json:"students"`
	CourseID    string    `db:"course_id" json:"course_id"`
	DoctorID    string    `db:"doctor_id" json:"doctor_id"`
	IsScheduled bool      `db:"is_scheduled" json:"is_scheduled"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
