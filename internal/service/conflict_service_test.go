package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

// fakeAssignmentStore keeps assignments in memory and answers the same
// probe queries the SQL repository would.
type fakeAssignmentStore struct {
	rows      []models.AssignmentDetail
	nextID    int64
	createErr error
	updateErr error
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{nextID: 1}
}

func (f *fakeAssignmentStore) add(a models.Assignment) models.AssignmentDetail {
	a.ID = f.nextID
	f.nextID++
	d := models.AssignmentDetail{Assignment: a}
	f.rows = append(f.rows, d)
	return d
}

func (f *fakeAssignmentStore) FindRoomOccupant(_ context.Context, roomID, slotID int64, day models.DayOfWeek, excludeID int64) (*models.AssignmentDetail, error) {
	for i := range f.rows {
		r := f.rows[i]
		if r.ID != excludeID && r.RoomID == roomID && r.SlotID == slotID && r.DayOfWeek == day {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeAssignmentStore) FindFacultyOccupant(_ context.Context, facultyID, slotID int64, day models.DayOfWeek, scope models.FacultyConflictScope, programID, excludeID int64) (*models.AssignmentDetail, error) {
	for i := range f.rows {
		r := f.rows[i]
		if r.ID == excludeID || r.FacultyID != facultyID || r.SlotID != slotID || r.DayOfWeek != day {
			continue
		}
		if scope == models.FacultyScopeProgram && r.ProgramID != programID {
			continue
		}
		return &r, nil
	}
	return nil, nil
}

func (f *fakeAssignmentStore) FindCourseRepeat(_ context.Context, programID int64, day models.DayOfWeek, courseID, excludeID int64) (*models.AssignmentDetail, error) {
	for i := range f.rows {
		r := f.rows[i]
		if r.ID != excludeID && r.ProgramID == programID && r.DayOfWeek == day && r.CourseID == courseID {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeAssignmentStore) List(_ context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	var out []models.AssignmentDetail
	for _, r := range f.rows {
		if filter.ProgramID != 0 && r.ProgramID != filter.ProgramID {
			continue
		}
		if filter.SemesterID != 0 && r.SemesterID != filter.SemesterID {
			continue
		}
		if filter.FacultyID != 0 && r.FacultyID != filter.FacultyID {
			continue
		}
		if filter.RoomID != 0 && r.RoomID != filter.RoomID {
			continue
		}
		if filter.Day != "" && r.DayOfWeek != filter.Day {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeAssignmentStore) FindByID(_ context.Context, id int64) (*models.Assignment, error) {
	for _, r := range f.rows {
		if r.ID == id {
			a := r.Assignment
			return &a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssignmentStore) Create(_ context.Context, a *models.Assignment) error {
	if f.createErr != nil {
		return f.createErr
	}
	d := f.add(*a)
	a.ID = d.ID
	return nil
}

func (f *fakeAssignmentStore) Update(_ context.Context, a *models.Assignment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.rows {
		if f.rows[i].ID == a.ID {
			f.rows[i].Assignment = *a
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeAssignmentStore) Delete(_ context.Context, id int64) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func baseCandidate() models.Assignment {
	return models.Assignment{
		CourseID:   1,
		FacultyID:  10,
		RoomID:     100,
		SlotID:     1000,
		DayOfWeek:  models.Monday,
		SemesterID: 3,
		ProgramID:  7,
	}
}

func TestConflictCheckerClearSchedule(t *testing.T) {
	store := newFakeAssignmentStore()
	checker := NewConflictChecker(store, nil, zap.NewNop())

	conflict, err := checker.Check(context.Background(), baseCandidate(), 0, models.FacultyScopeGlobal)
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestConflictCheckerRoomTaken(t *testing.T) {
	store := newFakeAssignmentStore()
	existing := baseCandidate()
	store.add(existing)

	// Different course, faculty and program; same room, slot and day.
	candidate := baseCandidate()
	candidate.CourseID = 2
	candidate.FacultyID = 11
	candidate.ProgramID = 8

	checker := NewConflictChecker(store, nil, zap.NewNop())
	conflict, err := checker.Check(context.Background(), candidate, 0, models.FacultyScopeGlobal)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictRoom, conflict.Kind)
	assert.Equal(t, existing.RoomID, conflict.Existing.RoomID)
}

func TestConflictCheckerDifferentSlotSameRoom(t *testing.T) {
	store := newFakeAssignmentStore()
	store.add(baseCandidate())

	// Same room and day, adjacent slot: no collision on slot id.
	candidate := baseCandidate()
	candidate.CourseID = 2
	candidate.SlotID = 1001

	checker := NewConflictChecker(store, nil, zap.NewNop())
	conflict, err := checker.Check(context.Background(), candidate, 0, models.FacultyScopeGlobal)
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestConflictCheckerFacultyScopeGlobal(t *testing.T) {
	store := newFakeAssignmentStore()
	store.add(baseCandidate())

	// Same faculty and slot, different program and room.
	candidate := baseCandidate()
	candidate.CourseID = 2
	candidate.RoomID = 101
	candidate.ProgramID = 8

	checker := NewConflictChecker(store, nil, zap.NewNop())
	conflict, err := checker.Check(context.Background(), candidate, 0, models.FacultyScopeGlobal)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictFaculty, conflict.Kind)
	assert.Equal(t, models.FacultyScopeGlobal, conflict.Scope)
}

func TestConflictCheckerFacultyScopeProgram(t *testing.T) {
	store := newFakeAssignmentStore()
	store.add(baseCandidate())

	// The identical booking allowed under the program scope, because the
	// occupied row belongs to another program.
	candidate := baseCandidate()
	candidate.CourseID = 2
	candidate.RoomID = 101
	candidate.ProgramID = 8

	checker := NewConflictChecker(store, nil, zap.NewNop())
	conflict, err := checker.Check(context.Background(), candidate, 0, models.FacultyScopeProgram)
	require.NoError(t, err)
	assert.Nil(t, conflict)

	// Inside the same program the double booking is still rejected.
	candidate.ProgramID = 7
	candidate.CourseID = 2
	conflict, err = checker.Check(context.Background(), candidate, 0, models.FacultyScopeProgram)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictFaculty, conflict.Kind)
	assert.Equal(t, models.FacultyScopeProgram, conflict.Scope)
}

func TestConflictCheckerCourseRepeat(t *testing.T) {
	store := newFakeAssignmentStore()
	store.add(baseCandidate())

	// Same course, program and day at a different slot with different
	// room and faculty.
	candidate := baseCandidate()
	candidate.FacultyID = 11
	candidate.RoomID = 101
	candidate.SlotID = 1001

	checker := NewConflictChecker(store, nil, zap.NewNop())
	conflict, err := checker.Check(context.Background(), candidate, 0, models.FacultyScopeGlobal)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictCourseRepeat, conflict.Kind)
}

func TestConflictCheckerRoomWinsOverFaculty(t *testing.T) {
	store := newFakeAssignmentStore()
	store.add(baseCandidate())

	// Candidate violates the room rule and the faculty rule at once;
	// the room conflict is reported because probes run in fixed order.
	candidate := baseCandidate()
	candidate.CourseID = 2
	candidate.ProgramID = 8

	checker := NewConflictChecker(store, nil, zap.NewNop())
	conflict, err := checker.Check(context.Background(), candidate, 0, models.FacultyScopeGlobal)
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, models.ConflictRoom, conflict.Kind)
}

type countingConflictRecorder struct {
	kinds map[string]int
}

func (r *countingConflictRecorder) RecordConflict(kind string) {
	if r.kinds == nil {
		r.kinds = map[string]int{}
	}
	r.kinds[kind]++
}

func TestConflictCheckerCountsRejections(t *testing.T) {
	store := newFakeAssignmentStore()
	store.add(baseCandidate())
	recorder := &countingConflictRecorder{}
	checker := NewConflictChecker(store, recorder, zap.NewNop())

	// Room collision.
	candidate := baseCandidate()
	candidate.CourseID = 2
	candidate.FacultyID = 11
	candidate.ProgramID = 8
	_, err := checker.Check(context.Background(), candidate, 0, models.FacultyScopeGlobal)
	require.NoError(t, err)

	// Clear candidate: nothing recorded.
	free := baseCandidate()
	free.CourseID = 2
	free.FacultyID = 11
	free.RoomID = 101
	free.SlotID = 1001
	free.ProgramID = 8
	_, err = checker.Check(context.Background(), free, 0, models.FacultyScopeGlobal)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{string(models.ConflictRoom): 1}, recorder.kinds)
}

func TestConflictCheckerExcludesOwnRow(t *testing.T) {
	store := newFakeAssignmentStore()
	existing := store.add(baseCandidate())

	// Re-checking an assignment against itself must never conflict.
	checker := NewConflictChecker(store, nil, zap.NewNop())
	conflict, err := checker.Check(context.Background(), existing.Assignment, existing.ID, models.FacultyScopeGlobal)
	require.NoError(t, err)
	assert.Nil(t, conflict)
}
