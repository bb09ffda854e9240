package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/export"
)

type stubCatalog struct {
	rooms     []models.Room
	slots     []models.TimeSlot
	faculty   []models.Faculty
	semesters []models.Semester
	counts    models.DashboardCounts
}

func (s *stubCatalog) ListRooms(context.Context) ([]models.Room, error)         { return s.rooms, nil }
func (s *stubCatalog) ListTimeSlots(context.Context) ([]models.TimeSlot, error) { return s.slots, nil }
func (s *stubCatalog) ListFaculty(context.Context) ([]models.Faculty, error)    { return s.faculty, nil }
func (s *stubCatalog) ListSemesters(context.Context) ([]models.Semester, error) {
	return s.semesters, nil
}
func (s *stubCatalog) FindFaculty(_ context.Context, id int64) (*models.Faculty, error) {
	for _, f := range s.faculty {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, sql.ErrNoRows
}
func (s *stubCatalog) DashboardCounts(context.Context) (*models.DashboardCounts, error) {
	return &s.counts, nil
}

type stubResolver struct {
	enrollment *models.Enrollment
	err        error
}

func (s *stubResolver) Resolve(context.Context, int64) (*models.Enrollment, error) {
	return s.enrollment, s.err
}

func timetableFixture() (*TimetableService, *fakeAssignmentStore, *stubCatalog) {
	store := newFakeAssignmentStore()
	catalog := &stubCatalog{
		rooms: []models.Room{{ID: 100, Number: "101"}, {ID: 101, Number: "102"}},
		slots: []models.TimeSlot{
			{ID: 1000, StartTime: "09:00:00", EndTime: "10:00:00"},
			{ID: 1001, StartTime: "10:00:00", EndTime: "11:00:00"},
			{ID: 1002, StartTime: "12:00:00", EndTime: "17:00:00"}, // exam block, too long for grids
		},
		faculty: []models.Faculty{
			{ID: 10, FirstName: "Ada", LastName: "Lovelace"},
			{ID: 11, FirstName: "Alan", LastName: "Turing"},
		},
		semesters: []models.Semester{{ID: 3, Name: "Semester 3"}, {ID: 4, Name: "Semester 4"}},
		counts:    models.DashboardCounts{Programs: 2, Rooms: 2, Sessions: 1},
	}
	svc := NewTimetableService(store, catalog, &stubResolver{}, export.NewPDFExporter(), 3*time.Hour, "Campus Timetable", zap.NewNop())
	return svc, store, catalog
}

func TestRoomGridCompleteAxes(t *testing.T) {
	svc, store, _ := timetableFixture()
	store.add(baseCandidate())

	grid, err := svc.RoomGrid(context.Background(), models.Monday)
	require.NoError(t, err)

	// Both rooms appear even though only one is booked; the over-long
	// slot is not a grid column.
	assert.Len(t, grid.Rooms, 2)
	require.Len(t, grid.Slots, 2)
	assert.Equal(t, int64(1000), grid.Slots[0].ID)

	cell, ok := grid.Cells[100][1000]
	require.True(t, ok)
	assert.Equal(t, int64(1), cell.ID)
	_, ok = grid.Cells[101]
	assert.False(t, ok, "empty room has no cells")
}

func TestRoomGridRejectsBadDay(t *testing.T) {
	svc, _, _ := timetableFixture()

	_, err := svc.RoomGrid(context.Background(), models.DayOfWeek("Sunday"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFacultyWeeksIncludesIdleFaculty(t *testing.T) {
	svc, store, _ := timetableFixture()
	store.add(baseCandidate()) // taught by faculty 10

	weeks, err := svc.FacultyWeeks(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Len(t, weeks[0].Assignments, 1)
	assert.Empty(t, weeks[1].Assignments, "idle faculty still listed")
}

func TestFacultyWeeksDayFilter(t *testing.T) {
	svc, store, _ := timetableFixture()
	store.add(baseCandidate()) // Monday
	tuesday := baseCandidate()
	tuesday.CourseID = 2
	tuesday.DayOfWeek = models.Tuesday
	store.add(tuesday)

	weeks, err := svc.FacultyWeeks(context.Background(), models.Tuesday)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	require.Len(t, weeks[0].Assignments, 1)
	assert.Equal(t, models.Tuesday, weeks[0].Assignments[0].DayOfWeek)

	_, err = svc.FacultyWeeks(context.Background(), models.DayOfWeek("Funday"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFacultyWeekAuthorization(t *testing.T) {
	svc, store, _ := timetableFixture()
	store.add(baseCandidate())

	self := int64(10)
	other := int64(11)

	// A teacher sees their own week.
	week, err := svc.FacultyWeek(context.Background(), 10, "", models.Actor{Role: models.RoleTeacher, FacultyID: &self})
	require.NoError(t, err)
	assert.Len(t, week.Assignments, 1)

	// But not a colleague's.
	_, err = svc.FacultyWeek(context.Background(), 10, "", models.Actor{Role: models.RoleTeacher, FacultyID: &other})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	// Admins see anyone's.
	_, err = svc.FacultyWeek(context.Background(), 10, "", models.Actor{Role: models.RoleAdmin})
	require.NoError(t, err)
}

func TestProgramWeekProjection(t *testing.T) {
	svc, store, _ := timetableFixture()
	first := baseCandidate()
	store.add(first)
	second := baseCandidate()
	second.CourseID = 2
	second.SlotID = 1001
	second.DayOfWeek = models.Wednesday
	store.add(second)
	foreign := baseCandidate()
	foreign.ProgramID = 99
	foreign.RoomID = 101
	store.add(foreign)

	grid, err := svc.ProgramWeek(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, models.Days, grid.Days)
	assert.Len(t, grid.Slots, 2)

	assert.Equal(t, int64(1), grid.Cells[models.Monday][1000].ID)
	assert.Equal(t, int64(2), grid.Cells[models.Wednesday][1001].ID)
	assert.Len(t, grid.Cells, 2, "other programs' bookings are invisible")
}

func TestStudentWeekResolvesEnrollment(t *testing.T) {
	svc, store, _ := timetableFixture()
	store.add(baseCandidate())
	studentID := int64(50)
	actor := models.Actor{Role: models.RoleStudent, StudentID: &studentID}

	resolver := &stubResolver{enrollment: &models.Enrollment{StudentID: 50, ProgramID: 7, SemesterID: 3}}
	svc.enrollments = resolver

	grid, err := svc.StudentWeek(context.Background(), 50, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(7), grid.ProgramID)
	assert.Len(t, grid.Cells[models.Monday], 1)
}

func TestStudentWeekNotEnrolled(t *testing.T) {
	svc, _, _ := timetableFixture()
	studentID := int64(50)
	actor := models.Actor{Role: models.RoleStudent, StudentID: &studentID}
	svc.enrollments = &stubResolver{err: appErrors.ErrNotEnrolled}

	_, err := svc.StudentWeek(context.Background(), 50, actor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotEnrolled.Code, appErrors.FromError(err).Code)
}

func TestStudentWeekForbiddenForOtherStudent(t *testing.T) {
	svc, _, _ := timetableFixture()
	studentID := int64(51)
	actor := models.Actor{Role: models.RoleStudent, StudentID: &studentID}

	_, err := svc.StudentWeek(context.Background(), 50, actor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestWeeklyReportGroupsBySemester(t *testing.T) {
	svc, store, _ := timetableFixture()
	store.add(baseCandidate()) // semester 3
	other := baseCandidate()
	other.SemesterID = 4
	other.SlotID = 1001
	other.RoomID = 101
	other.CourseID = 2
	store.add(other)

	report, err := svc.WeeklyReport(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, int64(1), report[0].Cells[models.Monday][1000].ID)
	assert.Equal(t, int64(2), report[1].Cells[models.Monday][1001].ID)
}

func TestFacultyWeekPDF(t *testing.T) {
	svc, store, _ := timetableFixture()
	d := baseCandidate()
	store.add(d)

	content, filename, err := svc.FacultyWeekPDF(context.Background(), 10, models.Actor{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "timetable-faculty-10.pdf", filename)
	assert.True(t, len(content) > 0)
	assert.Equal(t, "%PDF", string(content[:4]))
}

func TestDashboardCounts(t *testing.T) {
	svc, _, _ := timetableFixture()

	counts, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Rooms)
}
