package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

func newCatalogRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCatalogRepositoryListTimeSlots(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{"id", "start_time", "end_time"}).
		AddRow(1, "09:00:00", "10:00:00").
		AddRow(2, "10:00:00", "11:00:00")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, start_time, end_time FROM time_slots ORDER BY start_time")).
		WillReturnRows(rows)

	slots, err := repo.ListTimeSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00:00", slots[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryProgramExists(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM programs WHERE id = $1)")).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	found, err := repo.ProgramExists(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryUpdateDepartment(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE departments SET name = $1 WHERE id = $2")).
		WithArgs("Applied Physics", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateDepartment(context.Background(), &models.Department{ID: 4, Name: "Applied Physics"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryUpdateMissingRowIsNoRows(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE departments SET name = $1 WHERE id = $2")).
		WithArgs("Ghost", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateDepartment(context.Background(), &models.Department{ID: 99, Name: "Ghost"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryDeleteFaculty(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM faculty WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteFaculty(context.Background(), 7))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM faculty WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteFaculty(context.Background(), 7), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryDashboardCounts(t *testing.T) {
	db, mock, cleanup := newCatalogRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{"programs", "rooms", "sessions"}).AddRow(4, 12, 3)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	counts, err := repo.DashboardCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, counts.Rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}
