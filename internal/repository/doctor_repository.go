package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/uniplan/timetable-api/internal/models"
)

// DoctorRepository provides persistence for doctor records.
type DoctorRepository struct {
	db *sqlx.DB
}

// NewDoctorRepository creates a new doctor repository.
func NewDoctorRepository(db *sqlx.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

const doctorColumns = "id, full_name, weekly_hours, assigned_minutes, windows, unavailable, created_at, updated_at"

// List returns all doctor records ordered by name.
func (r *DoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	query := "SELECT " + doctorColumns + " FROM doctors ORDER BY full_name"
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, err
	}
	return doctors, nil
}

// UpdateAssignedMinutes writes back one doctor's accumulated teaching load.
func (r *DoctorRepository) UpdateAssignedMinutes(ctx context.Context, exec sqlx.ExtContext, id string, minutes int) error {
	query := "UPDATE doctors SET assigned_minutes = $2, updated_at = $3 WHERE id = $1"
	_, err := exec.ExecContext(ctx, query, id, minutes, time.Now().UTC())
	return err
}

// ResetAssignedMinutes zeroes every doctor's accumulated load.
func (r *DoctorRepository) ResetAssignedMinutes(ctx context.Context, exec sqlx.ExtContext) error {
	query := "UPDATE doctors SET assigned_minutes = 0, updated_at = $1"
	_, err := exec.ExecContext(ctx, query, time.Now().UTC())
	return err
}
