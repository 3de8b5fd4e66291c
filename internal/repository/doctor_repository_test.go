package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoctorRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDoctorRepositoryList(t *testing.T) {
	db, mock, cleanup := newDoctorRepoMock(t)
	defer cleanup()
	repo := NewDoctorRepository(db)

	windows := []byte(`[{"day":"SUNDAY","start_minutes":480,"end_minutes":720}]`)
	unavailable := []byte(`"sunday 10:00-12:00"`)
	rows := sqlmock.NewRows([]string{"id", "full_name", "weekly_hours", "assigned_minutes", "windows", "unavailable", "created_at", "updated_at"}).
		AddRow("doc-1", "Dr Salem", 12, 0, windows, unavailable, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, full_name, weekly_hours, assigned_minutes, windows, unavailable, created_at, updated_at FROM doctors ORDER BY full_name")).
		WillReturnRows(rows)

	doctors, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr Salem", doctors[0].FullName)
	assert.Equal(t, 12, doctors[0].WeeklyHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepositoryUpdateAssignedMinutes(t *testing.T) {
	db, mock, cleanup := newDoctorRepoMock(t)
	defer cleanup()
	repo := NewDoctorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE doctors SET assigned_minutes = $2")).
		WithArgs("doc-1", 150, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateAssignedMinutes(context.Background(), db, "doc-1", 150))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorRepositoryResetAssignedMinutes(t *testing.T) {
	db, mock, cleanup := newDoctorRepoMock(t)
	defer cleanup()
	repo := NewDoctorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE doctors SET assigned_minutes = 0")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, repo.ResetAssignedMinutes(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
