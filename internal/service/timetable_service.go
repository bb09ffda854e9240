package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/export"
)

type timetableCatalogRepository interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error)
	ListFaculty(ctx context.Context) ([]models.Faculty, error)
	ListSemesters(ctx context.Context) ([]models.Semester, error)
	FindFaculty(ctx context.Context, id int64) (*models.Faculty, error)
	DashboardCounts(ctx context.Context) (*models.DashboardCounts, error)
}

type timetableAssignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error)
}

type enrollmentResolver interface {
	Resolve(ctx context.Context, studentID int64) (*models.Enrollment, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// TimetableService projects committed assignments into the grid views:
// rooms for a day, a faculty member's week, a program's week and the
// semester-wide weekly report. Projections never mutate state, so the
// same assignment set always yields the same grids.
type TimetableService struct {
	assignments     timetableAssignmentRepository
	catalog         timetableCatalogRepository
	enrollments     enrollmentResolver
	pdf             pdfRenderer
	maxSlotDuration time.Duration
	reportTitle     string
	logger          *zap.Logger
}

// NewTimetableService instantiates TimetableService. maxSlotDuration
// bounds which slots appear as grid columns; longer catalog entries are
// treated as non-teaching blocks and skipped.
func NewTimetableService(assignments timetableAssignmentRepository, catalog timetableCatalogRepository, enrollments enrollmentResolver, pdf pdfRenderer, maxSlotDuration time.Duration, reportTitle string, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxSlotDuration <= 0 {
		maxSlotDuration = 3 * time.Hour
	}
	return &TimetableService{
		assignments:     assignments,
		catalog:         catalog,
		enrollments:     enrollments,
		pdf:             pdf,
		maxSlotDuration: maxSlotDuration,
		reportTitle:     reportTitle,
		logger:          logger,
	}
}

// gridSlots returns slot columns for grid views: parseable, positive
// duration, within the configured bound, already ordered by start time.
func (s *TimetableService) gridSlots(ctx context.Context) ([]models.TimeSlot, error) {
	slots, err := s.catalog.ListTimeSlots(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	out := slots[:0]
	for _, slot := range slots {
		d := slot.Duration()
		if d <= 0 || d > s.maxSlotDuration {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

// RoomGrid projects one day onto (room × slot) axes. Every room and
// every grid slot appears even when empty; occupied cells carry the
// full assignment detail.
func (s *TimetableService) RoomGrid(ctx context.Context, day models.DayOfWeek) (*models.RoomGrid, error) {
	if !day.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day must be a teaching day, Monday through Saturday")
	}
	rooms, err := s.catalog.ListRooms(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	slots, err := s.gridSlots(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.assignments.List(ctx, models.AssignmentFilter{Day: day})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	grid := &models.RoomGrid{
		Day:   day,
		Rooms: rooms,
		Slots: slots,
		Cells: make(map[int64]map[int64]models.AssignmentDetail),
	}
	slotIDs := slotIDSet(slots)
	for _, d := range details {
		if !slotIDs[d.SlotID] {
			continue
		}
		row, ok := grid.Cells[d.RoomID]
		if !ok {
			row = make(map[int64]models.AssignmentDetail)
			grid.Cells[d.RoomID] = row
		}
		row[d.SlotID] = d
	}
	return grid, nil
}

// FacultyWeeks returns every faculty member's week, optionally narrowed
// to a single day. Members with no classes still appear with an empty
// assignment list, so staffing gaps are visible.
func (s *TimetableService) FacultyWeeks(ctx context.Context, day models.DayOfWeek) ([]models.FacultyWeek, error) {
	if day != "" && !day.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day must be a teaching day, Monday through Saturday")
	}
	faculty, err := s.catalog.ListFaculty(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty")
	}
	details, err := s.assignments.List(ctx, models.AssignmentFilter{Day: day})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	byFaculty := make(map[int64][]models.AssignmentDetail)
	for _, d := range details {
		byFaculty[d.FacultyID] = append(byFaculty[d.FacultyID], d)
	}
	weeks := make([]models.FacultyWeek, 0, len(faculty))
	for _, f := range faculty {
		weeks = append(weeks, models.FacultyWeek{Faculty: f, Assignments: byFaculty[f.ID]})
	}
	return weeks, nil
}

// FacultyWeek returns one faculty member's week, optionally narrowed to
// a single day. Teachers may only view their own; admins may view
// anyone's.
func (s *TimetableService) FacultyWeek(ctx context.Context, facultyID int64, day models.DayOfWeek, actor models.Actor) (*models.FacultyWeek, error) {
	if err := authorizeFacultyView(actor, facultyID); err != nil {
		return nil, err
	}
	if day != "" && !day.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day must be a teaching day, Monday through Saturday")
	}
	f, err := s.catalog.FindFaculty(ctx, facultyID)
	if err != nil {
		return nil, mapNoRows(err, "faculty not found", "failed to load faculty")
	}
	details, err := s.assignments.List(ctx, models.AssignmentFilter{FacultyID: facultyID, Day: day})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return &models.FacultyWeek{Faculty: *f, Assignments: details}, nil
}

// ProgramWeek projects one program and semester onto (day × slot) axes.
// All six teaching days and every grid slot appear even when empty.
func (s *TimetableService) ProgramWeek(ctx context.Context, programID, semesterID int64) (*models.WeekGrid, error) {
	slots, err := s.gridSlots(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.assignments.List(ctx, models.AssignmentFilter{ProgramID: programID, SemesterID: semesterID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	grid := &models.WeekGrid{
		ProgramID:  programID,
		SemesterID: semesterID,
		Days:       models.Days,
		Slots:      slots,
		Cells:      make(map[models.DayOfWeek]map[int64]models.AssignmentDetail),
	}
	slotIDs := slotIDSet(slots)
	for _, d := range details {
		if !slotIDs[d.SlotID] {
			continue
		}
		row, ok := grid.Cells[d.DayOfWeek]
		if !ok {
			row = make(map[int64]models.AssignmentDetail)
			grid.Cells[d.DayOfWeek] = row
		}
		row[d.SlotID] = d
	}
	return grid, nil
}

// StudentWeek resolves the student's enrollment and returns their
// program week. Enrollment failures surface as typed errors rather
// than an empty grid.
func (s *TimetableService) StudentWeek(ctx context.Context, studentID int64, actor models.Actor) (*models.WeekGrid, error) {
	if actor.Role == models.RoleStudent {
		if actor.StudentID == nil || *actor.StudentID != studentID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "students may only view their own timetable")
		}
	} else if !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to view student timetables")
	}
	enrollment, err := s.enrollments.Resolve(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.ProgramWeek(ctx, enrollment.ProgramID, enrollment.SemesterID)
}

// WeeklyReport returns the admin-wide view: one week grid per semester
// that has at least one assignment, plus empty grids for the rest of
// the semester catalog.
func (s *TimetableService) WeeklyReport(ctx context.Context) ([]models.SemesterWeek, error) {
	semesters, err := s.catalog.ListSemesters(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
	}
	slots, err := s.gridSlots(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.assignments.List(ctx, models.AssignmentFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	slotIDs := slotIDSet(slots)
	bySemester := make(map[int64]map[models.DayOfWeek]map[int64]models.AssignmentDetail)
	for _, d := range details {
		if !slotIDs[d.SlotID] {
			continue
		}
		days, ok := bySemester[d.SemesterID]
		if !ok {
			days = make(map[models.DayOfWeek]map[int64]models.AssignmentDetail)
			bySemester[d.SemesterID] = days
		}
		row, ok := days[d.DayOfWeek]
		if !ok {
			row = make(map[int64]models.AssignmentDetail)
			days[d.DayOfWeek] = row
		}
		row[d.SlotID] = d
	}

	report := make([]models.SemesterWeek, 0, len(semesters))
	for _, sem := range semesters {
		cells := bySemester[sem.ID]
		if cells == nil {
			cells = make(map[models.DayOfWeek]map[int64]models.AssignmentDetail)
		}
		report = append(report, models.SemesterWeek{
			Semester: sem,
			Days:     models.Days,
			Slots:    slots,
			Cells:    cells,
		})
	}
	return report, nil
}

// FacultyWeekPDF renders a faculty member's week as a downloadable PDF.
func (s *TimetableService) FacultyWeekPDF(ctx context.Context, facultyID int64, actor models.Actor) ([]byte, string, error) {
	week, err := s.FacultyWeek(ctx, facultyID, "", actor)
	if err != nil {
		return nil, "", err
	}
	dataset := export.Dataset{
		Headers: []string{"Day", "Time", "Course", "Program", "Room"},
	}
	for _, a := range week.Assignments {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":     string(a.DayOfWeek),
			"Time":    a.StartTime + " - " + a.EndTime,
			"Course":  a.CourseName,
			"Program": a.ProgramName,
			"Room":    a.RoomNumber,
		})
	}
	title := s.reportTitle
	if title == "" {
		title = "Weekly Timetable"
	}
	content, err := s.pdf.Render(dataset, fmt.Sprintf("%s - %s", title, week.Faculty.FullName()))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable pdf")
	}
	filename := fmt.Sprintf("timetable-faculty-%d.pdf", facultyID)
	return content, filename, nil
}

// Dashboard returns catalog volumes for the landing page.
func (s *TimetableService) Dashboard(ctx context.Context) (*models.DashboardCounts, error) {
	counts, err := s.catalog.DashboardCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard counts")
	}
	return counts, nil
}

func authorizeFacultyView(actor models.Actor, facultyID int64) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role == models.RoleTeacher && actor.FacultyID != nil && *actor.FacultyID == facultyID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "not allowed to view this faculty timetable")
}

func slotIDSet(slots []models.TimeSlot) map[int64]bool {
	set := make(map[int64]bool, len(slots))
	for _, s := range slots {
		set[s.ID] = true
	}
	return set
}
