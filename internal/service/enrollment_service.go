package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

type enrollmentRepository interface {
	FindEnrollments(ctx context.Context, studentID int64) ([]models.Enrollment, error)
	ListStudentCourses(ctx context.Context, programID int64) ([]models.StudentCourseDetail, error)
	ListCoursesForStudent(ctx context.Context, studentID int64) ([]models.StudentCourseDetail, error)
	CreateStudentCourse(ctx context.Context, sca *models.StudentCourseAssignment) error
	UpdateStudentCourseFlags(ctx context.Context, id int64, allowed, isRepeater bool) error
	DeleteStudentCourse(ctx context.Context, id int64) error
}

// StudentCourseRequest assigns a course to a student for their current
// semester.
type StudentCourseRequest struct {
	StudentID         int64 `json:"student_id" validate:"required,gt=0"`
	ProgramID         int64 `json:"program_id" validate:"required,gt=0"`
	SessionID         int64 `json:"session_id" validate:"required,gt=0"`
	CurrentSemesterID int64 `json:"current_semester_id" validate:"required,gt=0"`
	CourseID          int64 `json:"course_id" validate:"required,gt=0"`
	Allowed           bool  `json:"allowed"`
	IsRepeater        bool  `json:"is_repeater"`
}

// EnrollmentService resolves student enrollments and maintains course
// assignments.
type EnrollmentService struct {
	repo      enrollmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService instantiates EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, validator: validate, logger: logger}
}

// Resolve maps a student to their single (program, semester) pair. No
// candidate pair yields a not-enrolled error; more than one yields an
// ambiguity error rather than silently picking the first.
func (s *EnrollmentService) Resolve(ctx context.Context, studentID int64) (*models.Enrollment, error) {
	enrollments, err := s.repo.FindEnrollments(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve enrollment")
	}
	switch len(enrollments) {
	case 0:
		return nil, appErrors.ErrNotEnrolled
	case 1:
		return &enrollments[0], nil
	default:
		s.logger.Warn("ambiguous enrollment",
			zap.Int64("student_id", studentID),
			zap.Int("candidates", len(enrollments)))
		return nil, appErrors.ErrAmbiguousEnrollment
	}
}

// ListGrouped returns course assignments bundled per student, as the
// admin listing renders them.
func (s *EnrollmentService) ListGrouped(ctx context.Context, programID int64) ([]models.StudentCourseGroup, error) {
	details, err := s.repo.ListStudentCourses(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student courses")
	}
	return groupStudentCourses(details), nil
}

// ListForStudent returns one student's own course assignments.
func (s *EnrollmentService) ListForStudent(ctx context.Context, studentID int64) ([]models.StudentCourseDetail, error) {
	details, err := s.repo.ListCoursesForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student courses")
	}
	return details, nil
}

// AssignCourse records that a student follows a course.
func (s *EnrollmentService) AssignCourse(ctx context.Context, req StudentCourseRequest) (*models.StudentCourseAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course assignment payload")
	}
	sca := &models.StudentCourseAssignment{
		StudentID:         req.StudentID,
		ProgramID:         req.ProgramID,
		SessionID:         req.SessionID,
		CurrentSemesterID: req.CurrentSemesterID,
		CourseID:          req.CourseID,
		Allowed:           req.Allowed,
		IsRepeater:        req.IsRepeater,
	}
	if err := s.repo.CreateStudentCourse(ctx, sca); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign course")
	}
	return sca, nil
}

// SetCourseFlags toggles the allowed and repeater flags on one
// assignment.
func (s *EnrollmentService) SetCourseFlags(ctx context.Context, id int64, allowed, isRepeater bool) error {
	if err := s.repo.UpdateStudentCourseFlags(ctx, id, allowed, isRepeater); err != nil {
		return mapNoRows(err, "course assignment not found", "failed to update course assignment")
	}
	return nil
}

// RemoveCourse deletes one course assignment.
func (s *EnrollmentService) RemoveCourse(ctx context.Context, id int64) error {
	if err := s.repo.DeleteStudentCourse(ctx, id); err != nil {
		return mapNoRows(err, "course assignment not found", "failed to remove course assignment")
	}
	return nil
}

func groupStudentCourses(details []models.StudentCourseDetail) []models.StudentCourseGroup {
	var groups []models.StudentCourseGroup
	index := make(map[int64]int)
	for _, d := range details {
		i, ok := index[d.StudentID]
		if !ok {
			groups = append(groups, models.StudentCourseGroup{
				StudentID:    d.StudentID,
				StudentName:  d.StudentName,
				ProgramName:  d.ProgramName,
				SessionLabel: sessionLabel(d.StartYear, d.EndYear),
				SemesterName: d.SemesterName,
			})
			i = len(groups) - 1
			index[d.StudentID] = i
		}
		groups[i].Courses = append(groups[i].Courses, d)
	}
	return groups
}
