package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/uniplan/timetable-api/internal/models"
)

// SectionRepository provides persistence for section records.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository creates a new section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

const sectionColumns = "id, name, students, course_id, doctor_id, is_scheduled, created_at, updated_at"

// List returns all section records ordered by name.
func (r *SectionRepository) List(ctx context.Context) ([]models.Section, error) {
	var sections []models.Section
	query := "SELECT " + sectionColumns + " FROM sections ORDER BY name"
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, err
	}
	return sections, nil
}

// SetScheduled writes back a section's completeness flag.
func (r *SectionRepository) SetScheduled(ctx context.Context, exec sqlx.ExtContext, id string, scheduled bool) error {
	query := "UPDATE sections SET is_scheduled = $2, updated_at = $3 WHERE id = $1"
	_, err := exec.ExecContext(ctx, query, id, scheduled, time.Now().UTC())
	return err
}

// ResetScheduled clears every section's completeness flag.
func (r *SectionRepository) ResetScheduled(ctx context.Context, exec sqlx.ExtContext) error {
	query := "UPDATE sections SET is_scheduled = FALSE, updated_at = $1"
	_, err := exec.ExecContext(ctx, query, time.Now().UTC())
	return err
}
