package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

type catalogRepository interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListFaculty(ctx context.Context) ([]models.Faculty, error)
	ListCourses(ctx context.Context, departmentID int64) ([]models.Course, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
	ListPrograms(ctx context.Context, sessionID int64) ([]models.Program, error)
	ListSemesters(ctx context.Context) ([]models.Semester, error)
	ListStudents(ctx context.Context, departmentID int64) ([]models.Student, error)
	CurrentSemesterForProgram(ctx context.Context, programID int64) (*models.CurrentSemester, error)
	CreateDepartment(ctx context.Context, d *models.Department) error
	UpdateDepartment(ctx context.Context, d *models.Department) error
	DeleteDepartment(ctx context.Context, id int64) error
	CreateRoom(ctx context.Context, room *models.Room) error
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id int64) error
	CreateTimeSlot(ctx context.Context, slot *models.TimeSlot) error
	UpdateTimeSlot(ctx context.Context, slot *models.TimeSlot) error
	DeleteTimeSlot(ctx context.Context, id int64) error
	CreateSession(ctx context.Context, s *models.Session) error
	UpdateSession(ctx context.Context, s *models.Session) error
	DeleteSession(ctx context.Context, id int64) error
	CreateProgram(ctx context.Context, p *models.Program) error
	UpdateProgram(ctx context.Context, p *models.Program) error
	DeleteProgram(ctx context.Context, id int64) error
	CreateCourse(ctx context.Context, c *models.Course) error
	UpdateCourse(ctx context.Context, c *models.Course) error
	DeleteCourse(ctx context.Context, id int64) error
	CreateFaculty(ctx context.Context, f *models.Faculty) error
	UpdateFaculty(ctx context.Context, f *models.Faculty) error
	DeleteFaculty(ctx context.Context, id int64) error
	CreateStudent(ctx context.Context, s *models.Student) error
	UpdateStudent(ctx context.Context, s *models.Student) error
	DeleteStudent(ctx context.Context, id int64) error
	CreateSemester(ctx context.Context, s *models.Semester) error
	UpdateSemester(ctx context.Context, s *models.Semester) error
	DeleteSemester(ctx context.Context, id int64) error
	UpsertCurrentSemester(ctx context.Context, cs *models.CurrentSemester) error
}

// CreateDepartmentRequest adds a department. The same payload drives
// renames.
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateRoomRequest adds a room to the catalog.
type CreateRoomRequest struct {
	Number string `json:"number" validate:"required"`
}

// CreateSemesterRequest adds a semester label.
type CreateSemesterRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateTimeSlotRequest adds a slot to the catalog. Times are HH:MM or
// HH:MM:SS wall-clock values.
type CreateTimeSlotRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// CreateSessionRequest adds an intake session.
type CreateSessionRequest struct {
	StartYear int `json:"start_year" validate:"required,gte=2000"`
	EndYear   int `json:"end_year" validate:"required,gtefield=StartYear"`
}

// CreateProgramRequest adds a degree program.
type CreateProgramRequest struct {
	Name         string `json:"name" validate:"required"`
	SessionID    int64  `json:"session_id" validate:"required,gt=0"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

// CreateCourseRequest adds a course owned by a department.
type CreateCourseRequest struct {
	Name         string `json:"name" validate:"required"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
	FacultyID    int64  `json:"faculty_id" validate:"required,gt=0"`
}

// CreateFacultyRequest adds a teaching staff member.
type CreateFacultyRequest struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

// CreateStudentRequest adds a learner.
type CreateStudentRequest struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	EnrollmentNo string `json:"enrollment_no" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

// SetCurrentSemesterRequest binds a program to its active semester.
type SetCurrentSemesterRequest struct {
	ProgramID  int64     `json:"program_id" validate:"required,gt=0"`
	SemesterID int64     `json:"semester_id" validate:"required,gt=0"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

// CatalogService maintains the scheduling reference data.
type CatalogService struct {
	repo      catalogRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService instantiates CatalogService.
func NewCatalogService(repo catalogRepository, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, validator: validate, logger: logger}
}

// ListDepartments returns all departments.
func (s *CatalogService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	out, err := s.repo.ListDepartments(ctx)
	return out, wrapListErr(err, "departments")
}

// ListRooms returns all rooms.
func (s *CatalogService) ListRooms(ctx context.Context) ([]models.Room, error) {
	out, err := s.repo.ListRooms(ctx)
	return out, wrapListErr(err, "rooms")
}

// ListFaculty returns all faculty.
func (s *CatalogService) ListFaculty(ctx context.Context) ([]models.Faculty, error) {
	out, err := s.repo.ListFaculty(ctx)
	return out, wrapListErr(err, "faculty")
}

// ListCourses returns courses, optionally for one department.
func (s *CatalogService) ListCourses(ctx context.Context, departmentID int64) ([]models.Course, error) {
	out, err := s.repo.ListCourses(ctx, departmentID)
	return out, wrapListErr(err, "courses")
}

// ListTimeSlots returns the slot catalog ordered by start time.
func (s *CatalogService) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	out, err := s.repo.ListTimeSlots(ctx)
	return out, wrapListErr(err, "time slots")
}

// ListSessions returns intake sessions.
func (s *CatalogService) ListSessions(ctx context.Context) ([]models.Session, error) {
	out, err := s.repo.ListSessions(ctx)
	return out, wrapListErr(err, "sessions")
}

// ListPrograms returns programs, optionally for one session.
func (s *CatalogService) ListPrograms(ctx context.Context, sessionID int64) ([]models.Program, error) {
	out, err := s.repo.ListPrograms(ctx, sessionID)
	return out, wrapListErr(err, "programs")
}

// ListSemesters returns all semester labels.
func (s *CatalogService) ListSemesters(ctx context.Context) ([]models.Semester, error) {
	out, err := s.repo.ListSemesters(ctx)
	return out, wrapListErr(err, "semesters")
}

// ListStudents returns students, optionally for one department.
func (s *CatalogService) ListStudents(ctx context.Context, departmentID int64) ([]models.Student, error) {
	out, err := s.repo.ListStudents(ctx, departmentID)
	return out, wrapListErr(err, "students")
}

// CurrentSemester returns the active semester binding for a program.
func (s *CatalogService) CurrentSemester(ctx context.Context, programID int64) (*models.CurrentSemester, error) {
	cs, err := s.repo.CurrentSemesterForProgram(ctx, programID)
	if err != nil {
		return nil, mapNoRows(err, "program has no active semester", "failed to load current semester")
	}
	return cs, nil
}

// CreateDepartment adds a department.
func (s *CatalogService) CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	d := &models.Department{Name: req.Name}
	if err := s.repo.CreateDepartment(ctx, d); err != nil {
		return nil, wrapWriteErr(err, "department")
	}
	return d, nil
}

// UpdateDepartment renames a department.
func (s *CatalogService) UpdateDepartment(ctx context.Context, id int64, req CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	d := &models.Department{ID: id, Name: req.Name}
	if err := s.repo.UpdateDepartment(ctx, d); err != nil {
		return nil, mapNoRows(err, "department not found", "failed to update department")
	}
	return d, nil
}

// DeleteDepartment removes a department.
func (s *CatalogService) DeleteDepartment(ctx context.Context, id int64) error {
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return mapNoRows(err, "department not found", "failed to delete department")
	}
	return nil
}

// CreateRoom adds a room.
func (s *CatalogService) CreateRoom(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	room := &models.Room{Number: req.Number}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, wrapWriteErr(err, "room")
	}
	return room, nil
}

// UpdateRoom renumbers a room.
func (s *CatalogService) UpdateRoom(ctx context.Context, id int64, req CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	room := &models.Room{ID: id, Number: req.Number}
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, mapNoRows(err, "room not found", "failed to update room")
	}
	return room, nil
}

// DeleteRoom removes a room.
func (s *CatalogService) DeleteRoom(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRoom(ctx, id); err != nil {
		return mapNoRows(err, "room not found", "failed to delete room")
	}
	return nil
}

// CreateTimeSlot adds a slot after checking it parses and ends after it
// starts.
func (s *CatalogService) CreateTimeSlot(ctx context.Context, req CreateTimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	slot := &models.TimeSlot{StartTime: req.StartTime, EndTime: req.EndTime}
	if slot.StartMinutes() < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be a HH:MM or HH:MM:SS clock value")
	}
	if slot.Duration() <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	if err := s.repo.CreateTimeSlot(ctx, slot); err != nil {
		return nil, wrapWriteErr(err, "time slot")
	}
	return slot, nil
}

// UpdateTimeSlot rewrites a slot's interval with the same clock checks
// as creation.
func (s *CatalogService) UpdateTimeSlot(ctx context.Context, id int64, req CreateTimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	slot := &models.TimeSlot{ID: id, StartTime: req.StartTime, EndTime: req.EndTime}
	if slot.StartMinutes() < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be a HH:MM or HH:MM:SS clock value")
	}
	if slot.Duration() <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	if err := s.repo.UpdateTimeSlot(ctx, slot); err != nil {
		return nil, mapNoRows(err, "time slot not found", "failed to update time slot")
	}
	return slot, nil
}

// DeleteTimeSlot removes a slot.
func (s *CatalogService) DeleteTimeSlot(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTimeSlot(ctx, id); err != nil {
		return mapNoRows(err, "time slot not found", "failed to delete time slot")
	}
	return nil
}

// CreateSession adds an intake session.
func (s *CatalogService) CreateSession(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	session := &models.Session{StartYear: req.StartYear, EndYear: req.EndYear}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, wrapWriteErr(err, "session")
	}
	return session, nil
}

// UpdateSession rewrites an intake session's year window.
func (s *CatalogService) UpdateSession(ctx context.Context, id int64, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	session := &models.Session{ID: id, StartYear: req.StartYear, EndYear: req.EndYear}
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, mapNoRows(err, "session not found", "failed to update session")
	}
	return session, nil
}

// DeleteSession removes an intake session.
func (s *CatalogService) DeleteSession(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return mapNoRows(err, "session not found", "failed to delete session")
	}
	return nil
}

// CreateProgram adds a degree program.
func (s *CatalogService) CreateProgram(ctx context.Context, req CreateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	program := &models.Program{Name: req.Name, SessionID: req.SessionID, DepartmentID: req.DepartmentID}
	if err := s.repo.CreateProgram(ctx, program); err != nil {
		return nil, wrapWriteErr(err, "program")
	}
	return program, nil
}

// UpdateProgram rewrites a program's attributes.
func (s *CatalogService) UpdateProgram(ctx context.Context, id int64, req CreateProgramRequest) (*models.Program, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	program := &models.Program{ID: id, Name: req.Name, SessionID: req.SessionID, DepartmentID: req.DepartmentID}
	if err := s.repo.UpdateProgram(ctx, program); err != nil {
		return nil, mapNoRows(err, "program not found", "failed to update program")
	}
	return program, nil
}

// DeleteProgram removes a program.
func (s *CatalogService) DeleteProgram(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProgram(ctx, id); err != nil {
		return mapNoRows(err, "program not found", "failed to delete program")
	}
	return nil
}

// CreateCourse adds a course.
func (s *CatalogService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	course := &models.Course{Name: req.Name, DepartmentID: req.DepartmentID, FacultyID: req.FacultyID}
	if err := s.repo.CreateCourse(ctx, course); err != nil {
		return nil, wrapWriteErr(err, "course")
	}
	return course, nil
}

// UpdateCourse rewrites a course's attributes.
func (s *CatalogService) UpdateCourse(ctx context.Context, id int64, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	course := &models.Course{ID: id, Name: req.Name, DepartmentID: req.DepartmentID, FacultyID: req.FacultyID}
	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		return nil, mapNoRows(err, "course not found", "failed to update course")
	}
	return course, nil
}

// DeleteCourse removes a course.
func (s *CatalogService) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		return mapNoRows(err, "course not found", "failed to delete course")
	}
	return nil
}

// CreateFaculty adds a teaching staff member.
func (s *CatalogService) CreateFaculty(ctx context.Context, req CreateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	f := &models.Faculty{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email, DepartmentID: req.DepartmentID}
	if err := s.repo.CreateFaculty(ctx, f); err != nil {
		return nil, wrapWriteErr(err, "faculty")
	}
	return f, nil
}

// UpdateFaculty rewrites a faculty member's attributes.
func (s *CatalogService) UpdateFaculty(ctx context.Context, id int64, req CreateFacultyRequest) (*models.Faculty, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	f := &models.Faculty{ID: id, FirstName: req.FirstName, LastName: req.LastName, Email: req.Email, DepartmentID: req.DepartmentID}
	if err := s.repo.UpdateFaculty(ctx, f); err != nil {
		return nil, mapNoRows(err, "faculty not found", "failed to update faculty")
	}
	return f, nil
}

// DeleteFaculty removes a faculty member.
func (s *CatalogService) DeleteFaculty(ctx context.Context, id int64) error {
	if err := s.repo.DeleteFaculty(ctx, id); err != nil {
		return mapNoRows(err, "faculty not found", "failed to delete faculty")
	}
	return nil
}

// CreateStudent adds a learner.
func (s *CatalogService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	st := &models.Student{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EnrollmentNo: req.EnrollmentNo,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
	}
	if err := s.repo.CreateStudent(ctx, st); err != nil {
		return nil, wrapWriteErr(err, "student")
	}
	return st, nil
}

// UpdateStudent rewrites a student's attributes.
func (s *CatalogService) UpdateStudent(ctx context.Context, id int64, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	st := &models.Student{
		ID:           id,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EnrollmentNo: req.EnrollmentNo,
		Email:        req.Email,
		DepartmentID: req.DepartmentID,
	}
	if err := s.repo.UpdateStudent(ctx, st); err != nil {
		return nil, mapNoRows(err, "student not found", "failed to update student")
	}
	return st, nil
}

// DeleteStudent removes a student.
func (s *CatalogService) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.repo.DeleteStudent(ctx, id); err != nil {
		return mapNoRows(err, "student not found", "failed to delete student")
	}
	return nil
}

// CreateSemester adds a semester label.
func (s *CatalogService) CreateSemester(ctx context.Context, req CreateSemesterRequest) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	sem := &models.Semester{Name: req.Name}
	if err := s.repo.CreateSemester(ctx, sem); err != nil {
		return nil, wrapWriteErr(err, "semester")
	}
	return sem, nil
}

// UpdateSemester renames a semester label.
func (s *CatalogService) UpdateSemester(ctx context.Context, id int64, req CreateSemesterRequest) (*models.Semester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	sem := &models.Semester{ID: id, Name: req.Name}
	if err := s.repo.UpdateSemester(ctx, sem); err != nil {
		return nil, mapNoRows(err, "semester not found", "failed to update semester")
	}
	return sem, nil
}

// DeleteSemester removes a semester label.
func (s *CatalogService) DeleteSemester(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSemester(ctx, id); err != nil {
		return mapNoRows(err, "semester not found", "failed to delete semester")
	}
	return nil
}

// SetCurrentSemester binds a program to its active semester, replacing
// any earlier binding.
func (s *CatalogService) SetCurrentSemester(ctx context.Context, req SetCurrentSemesterRequest) (*models.CurrentSemester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	cs := &models.CurrentSemester{
		ProgramID:  req.ProgramID,
		SemesterID: req.SemesterID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	if err := s.repo.UpsertCurrentSemester(ctx, cs); err != nil {
		return nil, wrapWriteErr(err, "current semester")
	}
	return cs, nil
}

func wrapListErr(err error, what string) error {
	if err == nil {
		return nil
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list "+what)
}

func wrapWriteErr(err error, what string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create "+what)
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}
