package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

type conflictProbeRepository interface {
	FindRoomOccupant(ctx context.Context, roomID, slotID int64, day models.DayOfWeek, excludeID int64) (*models.AssignmentDetail, error)
	FindFacultyOccupant(ctx context.Context, facultyID, slotID int64, day models.DayOfWeek, scope models.FacultyConflictScope, programID, excludeID int64) (*models.AssignmentDetail, error)
	FindCourseRepeat(ctx context.Context, programID int64, day models.DayOfWeek, courseID, excludeID int64) (*models.AssignmentDetail, error)
}

type conflictRecorder interface {
	RecordConflict(kind string)
}

// ConflictChecker evaluates a candidate assignment against the three
// uniqueness rules: room occupancy, faculty availability and one lecture
// of a course per program per day. Slots collide on slot id only;
// distinct overlapping slots do not conflict.
type ConflictChecker struct {
	repo    conflictProbeRepository
	metrics conflictRecorder
	logger  *zap.Logger
}

// NewConflictChecker instantiates ConflictChecker. metrics may be nil;
// when set, every detected conflict is counted by rule.
func NewConflictChecker(repo conflictProbeRepository, metrics conflictRecorder, logger *zap.Logger) *ConflictChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictChecker{repo: repo, metrics: metrics, logger: logger}
}

// Check returns the first rule the candidate violates, probing in fixed
// order: room, then faculty, then course repeat. excludeID removes one
// assignment from consideration so an update never conflicts with its
// own current row; pass zero when creating. The faculty scope selects
// global or per-program availability and changes no other rule.
//
// A nil, nil return means the candidate is clear.
func (c *ConflictChecker) Check(ctx context.Context, candidate models.Assignment, excludeID int64, scope models.FacultyConflictScope) (*models.ConflictError, error) {
	if !scope.Valid() {
		scope = models.FacultyScopeGlobal
	}

	occupant, err := c.repo.FindRoomOccupant(ctx, candidate.RoomID, candidate.SlotID, candidate.DayOfWeek, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to probe room occupancy")
	}
	if occupant != nil {
		return c.found(&models.ConflictError{
			Kind:     models.ConflictRoom,
			Message:  fmt.Sprintf("room %s is already booked on %s at %s", occupant.RoomNumber, candidate.DayOfWeek, occupant.StartTime),
			Existing: *occupant,
		})
	}

	occupant, err = c.repo.FindFacultyOccupant(ctx, candidate.FacultyID, candidate.SlotID, candidate.DayOfWeek, scope, candidate.ProgramID, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to probe faculty availability")
	}
	if occupant != nil {
		return c.found(&models.ConflictError{
			Kind:     models.ConflictFaculty,
			Scope:    scope,
			Message:  fmt.Sprintf("%s is already teaching %s on %s at %s", occupant.FacultyName, occupant.CourseName, candidate.DayOfWeek, occupant.StartTime),
			Existing: *occupant,
		})
	}

	occupant, err = c.repo.FindCourseRepeat(ctx, candidate.ProgramID, candidate.DayOfWeek, candidate.CourseID, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to probe course repetition")
	}
	if occupant != nil {
		return c.found(&models.ConflictError{
			Kind:     models.ConflictCourseRepeat,
			Message:  fmt.Sprintf("%s already has a %s lecture on %s", occupant.ProgramName, occupant.CourseName, candidate.DayOfWeek),
			Existing: *occupant,
		})
	}

	return nil, nil
}

func (c *ConflictChecker) found(conflict *models.ConflictError) (*models.ConflictError, error) {
	if c.metrics != nil {
		c.metrics.RecordConflict(string(conflict.Kind))
	}
	return conflict, nil
}
