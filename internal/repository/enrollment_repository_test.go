package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryFindEnrollments(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "program_id", "semester_id"}).
		AddRow(10, 1, 3).
		AddRow(10, 2, 5)
	mock.ExpectQuery("SELECT DISTINCT sca.student_id, sca.program_id, cs.semester_id").
		WithArgs(int64(10)).
		WillReturnRows(rows)

	enrollments, err := repo.FindEnrollments(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Equal(t, int64(1), enrollments[0].ProgramID)
	assert.Equal(t, int64(5), enrollments[1].SemesterID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryFindEnrollmentsEmpty(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("SELECT DISTINCT sca.student_id, sca.program_id, cs.semester_id").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "program_id", "semester_id"}))

	enrollments, err := repo.FindEnrollments(context.Background(), 404)
	require.NoError(t, err)
	assert.Empty(t, enrollments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateStudentCourse(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO student_course_assignments")).
		WithArgs(int64(10), int64(1), int64(2), int64(3), int64(4), true, false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(55))

	sca := &models.StudentCourseAssignment{
		StudentID: 10, ProgramID: 1, SessionID: 2, CurrentSemesterID: 3, CourseID: 4,
		Allowed: true, IsRepeater: false,
	}
	require.NoError(t, repo.CreateStudentCourse(context.Background(), sca))
	assert.Equal(t, int64(55), sca.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
