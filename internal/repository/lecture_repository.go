package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/uniplan/timetable-api/internal/models"
)

// LectureRepository persists committed lecture placements.
type LectureRepository struct {
	db *sqlx.DB
}

// NewLectureRepository creates a new lecture repository.
func NewLectureRepository(db *sqlx.DB) *LectureRepository {
	return &LectureRepository{db: db}
}

const lectureColumns = "id, section_id, course_id, doctor_id, room_id, day_of_week, start_minutes, duration_minutes, slots, lecture_index, created_at"

// List returns every committed lecture ordered by day and start time.
func (r *LectureRepository) List(ctx context.Context) ([]models.ScheduledLecture, error) {
	var lectures []models.ScheduledLecture
	query := "SELECT " + lectureColumns + " FROM scheduled_lectures ORDER BY day_of_week, start_minutes, room_id"
	if err := r.db.SelectContext(ctx, &lectures, query); err != nil {
		return nil, err
	}
	return lectures, nil
}

// ReplaceAll swaps the committed timetable for a new run's output inside the
// caller's transaction.
func (r *LectureRepository) ReplaceAll(ctx context.Context, tx *sqlx.Tx, lectures []models.ScheduledLecture) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM scheduled_lectures"); err != nil {
		return err
	}
	if len(lectures) == 0 {
		return nil
	}
	query := `INSERT INTO scheduled_lectures
		(id, section_id, course_id, doctor_id, room_id, day_of_week, start_minutes, duration_minutes, slots, lecture_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	now := time.Now().UTC()
	for _, lec := range lectures {
		createdAt := lec.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := tx.ExecContext(ctx, query,
			lec.ID, lec.SectionID, lec.CourseID, lec.DoctorID, lec.RoomID,
			lec.DayOfWeek, lec.StartMinutes, lec.DurationMinutes, lec.Slots, lec.LectureIndex, createdAt,
		); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePlacement moves one lecture to its new doctor/day/start cell.
func (r *LectureRepository) UpdatePlacement(ctx context.Context, exec sqlx.ExtContext, lec models.ScheduledLecture) error {
	query := `UPDATE scheduled_lectures
		SET doctor_id = $2, day_of_week = $3, start_minutes = $4
		WHERE id = $1`
	_, err := exec.ExecContext(ctx, query, lec.ID, lec.DoctorID, lec.DayOfWeek, lec.StartMinutes)
	return err
}

// DeleteAll clears the committed timetable.
func (r *LectureRepository) DeleteAll(ctx context.Context, exec sqlx.ExtContext) error {
	_, err := exec.ExecContext(ctx, "DELETE FROM scheduled_lectures")
	return err
}
