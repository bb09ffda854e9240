package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

// mockCatalogRepo records writes; with missing set, updates and deletes
// behave as if the row does not exist.
type mockCatalogRepo struct {
	missing bool
	updated []string
	deleted []string
}

func (m *mockCatalogRepo) write(kind string) error {
	if m.missing {
		return sql.ErrNoRows
	}
	m.updated = append(m.updated, kind)
	return nil
}

func (m *mockCatalogRepo) remove(kind string) error {
	if m.missing {
		return sql.ErrNoRows
	}
	m.deleted = append(m.deleted, kind)
	return nil
}

func (m *mockCatalogRepo) ListDepartments(context.Context) ([]models.Department, error) {
	return nil, nil
}
func (m *mockCatalogRepo) ListRooms(context.Context) ([]models.Room, error)       { return nil, nil }
func (m *mockCatalogRepo) ListFaculty(context.Context) ([]models.Faculty, error)  { return nil, nil }
func (m *mockCatalogRepo) ListCourses(context.Context, int64) ([]models.Course, error) {
	return nil, nil
}
func (m *mockCatalogRepo) ListTimeSlots(context.Context) ([]models.TimeSlot, error) { return nil, nil }
func (m *mockCatalogRepo) ListSessions(context.Context) ([]models.Session, error)   { return nil, nil }
func (m *mockCatalogRepo) ListPrograms(context.Context, int64) ([]models.Program, error) {
	return nil, nil
}
func (m *mockCatalogRepo) ListSemesters(context.Context) ([]models.Semester, error) { return nil, nil }
func (m *mockCatalogRepo) ListStudents(context.Context, int64) ([]models.Student, error) {
	return nil, nil
}
func (m *mockCatalogRepo) CurrentSemesterForProgram(context.Context, int64) (*models.CurrentSemester, error) {
	return nil, sql.ErrNoRows
}

func (m *mockCatalogRepo) CreateDepartment(_ context.Context, d *models.Department) error {
	d.ID = 1
	return nil
}
func (m *mockCatalogRepo) UpdateDepartment(_ context.Context, _ *models.Department) error {
	return m.write("department")
}
func (m *mockCatalogRepo) DeleteDepartment(context.Context, int64) error {
	return m.remove("department")
}
func (m *mockCatalogRepo) CreateRoom(_ context.Context, r *models.Room) error { r.ID = 1; return nil }
func (m *mockCatalogRepo) UpdateRoom(_ context.Context, _ *models.Room) error {
	return m.write("room")
}
func (m *mockCatalogRepo) DeleteRoom(context.Context, int64) error { return m.remove("room") }
func (m *mockCatalogRepo) CreateTimeSlot(_ context.Context, s *models.TimeSlot) error {
	s.ID = 1
	return nil
}
func (m *mockCatalogRepo) UpdateTimeSlot(_ context.Context, _ *models.TimeSlot) error {
	return m.write("time slot")
}
func (m *mockCatalogRepo) DeleteTimeSlot(context.Context, int64) error { return m.remove("time slot") }
func (m *mockCatalogRepo) CreateSession(_ context.Context, s *models.Session) error {
	s.ID = 1
	return nil
}
func (m *mockCatalogRepo) UpdateSession(_ context.Context, _ *models.Session) error {
	return m.write("session")
}
func (m *mockCatalogRepo) DeleteSession(context.Context, int64) error { return m.remove("session") }
func (m *mockCatalogRepo) CreateProgram(_ context.Context, p *models.Program) error {
	p.ID = 1
	return nil
}
func (m *mockCatalogRepo) UpdateProgram(_ context.Context, _ *models.Program) error {
	return m.write("program")
}
func (m *mockCatalogRepo) DeleteProgram(context.Context, int64) error { return m.remove("program") }
func (m *mockCatalogRepo) CreateCourse(_ context.Context, c *models.Course) error {
	c.ID = 1
	return nil
}
func (m *mockCatalogRepo) UpdateCourse(_ context.Context, _ *models.Course) error {
	return m.write("course")
}
func (m *mockCatalogRepo) DeleteCourse(context.Context, int64) error { return m.remove("course") }
func (m *mockCatalogRepo) CreateFaculty(_ context.Context, f *models.Faculty) error {
	f.ID = 1
	return nil
}
func (m *mockCatalogRepo) UpdateFaculty(_ context.Context, _ *models.Faculty) error {
	return m.write("faculty")
}
func (m *mockCatalogRepo) DeleteFaculty(context.Context, int64) error { return m.remove("faculty") }
func (m *mockCatalogRepo) CreateStudent(_ context.Context, s *models.Student) error {
	s.ID = 1
	return nil
}
func (m *mockCatalogRepo) UpdateStudent(_ context.Context, _ *models.Student) error {
	return m.write("student")
}
func (m *mockCatalogRepo) DeleteStudent(context.Context, int64) error { return m.remove("student") }
func (m *mockCatalogRepo) CreateSemester(_ context.Context, s *models.Semester) error {
	s.ID = 1
	return nil
}
func (m *mockCatalogRepo) UpdateSemester(_ context.Context, _ *models.Semester) error {
	return m.write("semester")
}
func (m *mockCatalogRepo) DeleteSemester(context.Context, int64) error { return m.remove("semester") }
func (m *mockCatalogRepo) UpsertCurrentSemester(context.Context, *models.CurrentSemester) error {
	return nil
}

func TestCatalogDepartmentLifecycle(t *testing.T) {
	repo := &mockCatalogRepo{}
	svc := NewCatalogService(repo, nil, zap.NewNop())

	created, err := svc.CreateDepartment(context.Background(), CreateDepartmentRequest{Name: "Physics"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	renamed, err := svc.UpdateDepartment(context.Background(), created.ID, CreateDepartmentRequest{Name: "Applied Physics"})
	require.NoError(t, err)
	assert.Equal(t, "Applied Physics", renamed.Name)

	require.NoError(t, svc.DeleteDepartment(context.Background(), created.ID))
	assert.Equal(t, []string{"department"}, repo.updated)
	assert.Equal(t, []string{"department"}, repo.deleted)
}

func TestCatalogSemesterLifecycle(t *testing.T) {
	repo := &mockCatalogRepo{}
	svc := NewCatalogService(repo, nil, zap.NewNop())

	_, err := svc.CreateSemester(context.Background(), CreateSemesterRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	sem, err := svc.CreateSemester(context.Background(), CreateSemesterRequest{Name: "Semester 5"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sem.ID)

	renamed, err := svc.UpdateSemester(context.Background(), sem.ID, CreateSemesterRequest{Name: "Semester 6"})
	require.NoError(t, err)
	assert.Equal(t, "Semester 6", renamed.Name)

	require.NoError(t, svc.DeleteSemester(context.Background(), sem.ID))
}

func TestCatalogUpdateMissingRow(t *testing.T) {
	svc := NewCatalogService(&mockCatalogRepo{missing: true}, nil, zap.NewNop())

	_, err := svc.UpdateRoom(context.Background(), 99, CreateRoomRequest{Number: "B-204"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.UpdateCourse(context.Background(), 99, CreateCourseRequest{Name: "Databases", DepartmentID: 1, FacultyID: 2})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCatalogDeleteMissingRow(t *testing.T) {
	svc := NewCatalogService(&mockCatalogRepo{missing: true}, nil, zap.NewNop())

	err := svc.DeleteFaculty(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.DeleteProgram(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCatalogUpdateTimeSlotValidatesClock(t *testing.T) {
	repo := &mockCatalogRepo{}
	svc := NewCatalogService(repo, nil, zap.NewNop())

	_, err := svc.UpdateTimeSlot(context.Background(), 3, CreateTimeSlotRequest{StartTime: "quarter past", EndTime: "10:00"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.UpdateTimeSlot(context.Background(), 3, CreateTimeSlotRequest{StartTime: "10:00", EndTime: "09:00"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	slot, err := svc.UpdateTimeSlot(context.Background(), 3, CreateTimeSlotRequest{StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), slot.ID)
	assert.Equal(t, []string{"time slot"}, repo.updated)
}

func TestCatalogUpdateStudentCarriesAllFields(t *testing.T) {
	repo := &mockCatalogRepo{}
	svc := NewCatalogService(repo, nil, zap.NewNop())

	st, err := svc.UpdateStudent(context.Background(), 12, CreateStudentRequest{
		FirstName:    "Grace",
		LastName:     "Hopper",
		EnrollmentNo: "EN-0042",
		Email:        "grace@example.edu",
		DepartmentID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), st.ID)
	assert.Equal(t, "EN-0042", st.EnrollmentNo)
	assert.Equal(t, []string{"student"}, repo.updated)
}
