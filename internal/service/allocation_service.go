package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

type allocationRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	Create(ctx context.Context, a *models.Assignment) error
	Update(ctx context.Context, a *models.Assignment) error
	Delete(ctx context.Context, id int64) error
}

type referenceChecker interface {
	ProgramExists(ctx context.Context, id int64) (bool, error)
	CourseExists(ctx context.Context, id int64) (bool, error)
	FacultyExists(ctx context.Context, id int64) (bool, error)
	RoomExists(ctx context.Context, id int64) (bool, error)
	TimeSlotExists(ctx context.Context, id int64) (bool, error)
	SemesterExists(ctx context.Context, id int64) (bool, error)
}

type conflictChecker interface {
	Check(ctx context.Context, candidate models.Assignment, excludeID int64, scope models.FacultyConflictScope) (*models.ConflictError, error)
}

type uniqueViolationFunc func(error) bool

// AssignmentRequest describes a candidate class booking. FacultyScope
// picks the availability rule for the faculty member and defaults to
// global.
type AssignmentRequest struct {
	CourseID     int64  `json:"course_id" validate:"required,gt=0"`
	FacultyID    int64  `json:"faculty_id" validate:"required,gt=0"`
	RoomID       int64  `json:"room_id" validate:"required,gt=0"`
	SlotID       int64  `json:"slot_id" validate:"required,gt=0"`
	DayOfWeek    string `json:"day_of_week" validate:"required"`
	SemesterID   int64  `json:"semester_id" validate:"required,gt=0"`
	ProgramID    int64  `json:"program_id" validate:"required,gt=0"`
	FacultyScope string `json:"faculty_scope" validate:"omitempty,oneof=global program"`
}

// AllocationService owns the assignment lifecycle: it validates
// references, runs the conflict check and commits, treating the
// database unique indexes as the backstop for races the pre-check
// cannot see.
type AllocationService struct {
	repo              allocationRepository
	catalog           referenceChecker
	checker           conflictChecker
	validator         *validator.Validate
	logger            *zap.Logger
	isUniqueViolation uniqueViolationFunc
}

// NewAllocationService instantiates AllocationService.
func NewAllocationService(repo allocationRepository, catalog referenceChecker, checker conflictChecker, isUniqueViolation uniqueViolationFunc, validate *validator.Validate, logger *zap.Logger) *AllocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if isUniqueViolation == nil {
		isUniqueViolation = func(error) bool { return false }
	}
	return &AllocationService{
		repo:              repo,
		catalog:           catalog,
		checker:           checker,
		validator:         validate,
		logger:            logger,
		isUniqueViolation: isUniqueViolation,
	}
}

// List returns assignment details matching the filter.
func (s *AllocationService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	details, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return details, nil
}

// Create books a class. On conflict nothing is written and the returned
// error carries the offending assignment.
func (s *AllocationService) Create(ctx context.Context, req AssignmentRequest) (*models.Assignment, error) {
	candidate, err := s.buildCandidate(ctx, req)
	if err != nil {
		return nil, err
	}

	conflict, err := s.checker.Check(ctx, *candidate, 0, models.FacultyConflictScope(req.FacultyScope))
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, conflict
	}

	if err := s.repo.Create(ctx, candidate); err != nil {
		return nil, s.resolveWriteError(ctx, err, *candidate, 0, models.FacultyConflictScope(req.FacultyScope))
	}
	s.logger.Info("assignment created",
		zap.Int64("assignment_id", candidate.ID),
		zap.Int64("program_id", candidate.ProgramID),
		zap.String("day", string(candidate.DayOfWeek)))
	return candidate, nil
}

// Update rebooks an existing class. The assignment's own current row is
// excluded from conflict probes, so moving a class back to its own slot
// always succeeds.
func (s *AllocationService) Update(ctx context.Context, id int64, req AssignmentRequest) (*models.Assignment, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	candidate, err := s.buildCandidate(ctx, req)
	if err != nil {
		return nil, err
	}
	candidate.ID = id

	conflict, err := s.checker.Check(ctx, *candidate, id, models.FacultyConflictScope(req.FacultyScope))
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, conflict
	}

	if err := s.repo.Update(ctx, candidate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, s.resolveWriteError(ctx, err, *candidate, id, models.FacultyConflictScope(req.FacultyScope))
	}
	s.logger.Info("assignment updated", zap.Int64("assignment_id", id))
	return candidate, nil
}

// Delete removes a booking, freeing its room, faculty and slot.
func (s *AllocationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	s.logger.Info("assignment deleted", zap.Int64("assignment_id", id))
	return nil
}

func (s *AllocationService) buildCandidate(ctx context.Context, req AssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	day := models.DayOfWeek(req.DayOfWeek)
	if !day.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day_of_week must be a teaching day, Monday through Saturday")
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}
	return &models.Assignment{
		CourseID:   req.CourseID,
		FacultyID:  req.FacultyID,
		RoomID:     req.RoomID,
		SlotID:     req.SlotID,
		DayOfWeek:  day,
		SemesterID: req.SemesterID,
		ProgramID:  req.ProgramID,
	}, nil
}

func (s *AllocationService) checkReferences(ctx context.Context, req AssignmentRequest) error {
	checks := []struct {
		name  string
		id    int64
		probe func(context.Context, int64) (bool, error)
	}{
		{"program", req.ProgramID, s.catalog.ProgramExists},
		{"course", req.CourseID, s.catalog.CourseExists},
		{"faculty", req.FacultyID, s.catalog.FacultyExists},
		{"room", req.RoomID, s.catalog.RoomExists},
		{"time slot", req.SlotID, s.catalog.TimeSlotExists},
		{"semester", req.SemesterID, s.catalog.SemesterExists},
	}
	for _, c := range checks {
		found, err := c.probe(ctx, c.id)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate "+c.name+" reference")
		}
		if !found {
			return appErrors.Clone(appErrors.ErrInvalidReference, "unknown "+c.name+" id")
		}
	}
	return nil
}

// resolveWriteError turns a unique-index violation into the conflict it
// represents by re-probing. A racing writer committed between our check
// and our write; the loser reports the same conflict the pre-check
// would have reported a moment later.
func (s *AllocationService) resolveWriteError(ctx context.Context, writeErr error, candidate models.Assignment, excludeID int64, scope models.FacultyConflictScope) error {
	if !s.isUniqueViolation(writeErr) {
		return appErrors.Wrap(writeErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write assignment")
	}
	s.logger.Warn("assignment write lost a booking race", zap.Error(writeErr))
	conflict, err := s.checker.Check(ctx, candidate, excludeID, scope)
	if err == nil && conflict != nil {
		return conflict
	}
	return appErrors.Wrap(writeErr, appErrors.ErrAllocationConflict.Code, appErrors.ErrAllocationConflict.Status, appErrors.ErrAllocationConflict.Message)
}
