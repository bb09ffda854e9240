package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

const assignmentDetailColumns = `a.id, a.course_id, a.faculty_id, a.room_id, a.slot_id, a.day_of_week, a.semester_id, a.program_id, a.created_at, a.updated_at,
	c.name AS course_name, f.first_name || ' ' || f.last_name AS faculty_name, r.number AS room_number,
	ts.start_time, ts.end_time, p.name AS program_name, sem.name AS semester_name`

const assignmentDetailJoins = `FROM assignments a
	JOIN courses c ON c.id = a.course_id
	JOIN faculty f ON f.id = a.faculty_id
	JOIN rooms r ON r.id = a.room_id
	JOIN time_slots ts ON ts.id = a.slot_id
	JOIN programs p ON p.id = a.program_id
	JOIN semesters sem ON sem.id = a.semester_id`

// AssignmentRepository persists scheduled classes.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// List returns assignment details matching the filter, ordered for week
// rendering (day, then slot start).
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.AssignmentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s", assignmentDetailColumns, assignmentDetailJoins)
	var conditions []string
	var args []interface{}

	if filter.ProgramID != 0 {
		conditions = append(conditions, fmt.Sprintf("a.program_id = $%d", len(args)+1))
		args = append(args, filter.ProgramID)
	}
	if filter.SemesterID != 0 {
		conditions = append(conditions, fmt.Sprintf("a.semester_id = $%d", len(args)+1))
		args = append(args, filter.SemesterID)
	}
	if filter.SessionID != 0 {
		conditions = append(conditions, fmt.Sprintf("p.session_id = $%d", len(args)+1))
		args = append(args, filter.SessionID)
	}
	if filter.FacultyID != 0 {
		conditions = append(conditions, fmt.Sprintf("a.faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.RoomID != 0 {
		conditions = append(conditions, fmt.Sprintf("a.room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("a.day_of_week = $%d", len(args)+1))
		args = append(args, string(filter.Day))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday'], a.day_of_week), ts.start_time`

	var details []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return details, nil
}

// FindByID loads a bare assignment row.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	const query = `SELECT id, course_id, faculty_id, room_id, slot_id, day_of_week, semester_id, program_id, created_at, updated_at FROM assignments WHERE id = $1`
	var a models.Assignment
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindRoomOccupant returns the assignment occupying (room, slot, day),
// excluding excludeID when non-zero.
func (r *AssignmentRepository) FindRoomOccupant(ctx context.Context, roomID, slotID int64, day models.DayOfWeek, excludeID int64) (*models.AssignmentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.room_id = $1 AND a.slot_id = $2 AND a.day_of_week = $3", assignmentDetailColumns, assignmentDetailJoins)
	args := []interface{}{roomID, slotID, string(day)}
	if excludeID != 0 {
		query += " AND a.id <> $4"
		args = append(args, excludeID)
	}
	query += " LIMIT 1"
	return r.getDetail(ctx, query, args...)
}

// FindFacultyOccupant returns the assignment that keeps the faculty
// member busy at (slot, day). With the program scope, only rows of the
// given program count as busy.
func (r *AssignmentRepository) FindFacultyOccupant(ctx context.Context, facultyID, slotID int64, day models.DayOfWeek, scope models.FacultyConflictScope, programID, excludeID int64) (*models.AssignmentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.faculty_id = $1 AND a.slot_id = $2 AND a.day_of_week = $3", assignmentDetailColumns, assignmentDetailJoins)
	args := []interface{}{facultyID, slotID, string(day)}
	if scope == models.FacultyScopeProgram {
		query += fmt.Sprintf(" AND a.program_id = $%d", len(args)+1)
		args = append(args, programID)
	}
	if excludeID != 0 {
		query += fmt.Sprintf(" AND a.id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	query += " LIMIT 1"
	return r.getDetail(ctx, query, args...)
}

// FindCourseRepeat returns the assignment that already teaches the
// course to the program on the given day, at any slot.
func (r *AssignmentRepository) FindCourseRepeat(ctx context.Context, programID int64, day models.DayOfWeek, courseID, excludeID int64) (*models.AssignmentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.program_id = $1 AND a.day_of_week = $2 AND a.course_id = $3", assignmentDetailColumns, assignmentDetailJoins)
	args := []interface{}{programID, string(day), courseID}
	if excludeID != 0 {
		query += " AND a.id <> $4"
		args = append(args, excludeID)
	}
	query += " LIMIT 1"
	return r.getDetail(ctx, query, args...)
}

func (r *AssignmentRepository) getDetail(ctx context.Context, query string, args ...interface{}) (*models.AssignmentDetail, error) {
	var detail models.AssignmentDetail
	if err := r.db.GetContext(ctx, &detail, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find assignment occupant: %w", err)
	}
	return &detail, nil
}

// Create inserts the assignment and fills in its generated id.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	const query = `INSERT INTO assignments (course_id, faculty_id, room_id, slot_id, day_of_week, semester_id, program_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		a.CourseID, a.FacultyID, a.RoomID, a.SlotID, string(a.DayOfWeek), a.SemesterID, a.ProgramID, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update replaces the stored attributes in place; the id is stable.
func (r *AssignmentRepository) Update(ctx context.Context, a *models.Assignment) error {
	a.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET course_id = $2, faculty_id = $3, room_id = $4, slot_id = $5, day_of_week = $6, semester_id = $7, program_id = $8, updated_at = $9 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		a.ID, a.CourseID, a.FacultyID, a.RoomID, a.SlotID, string(a.DayOfWeek), a.SemesterID, a.ProgramID, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the assignment, reporting sql.ErrNoRows for unknown ids.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IsUniqueViolation reports whether the error is a PostgreSQL
// unique-constraint violation. The allocation service treats it as an
// authoritative conflict signal for races the pre-check missed.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
