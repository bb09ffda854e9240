package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

// EnrollmentRepository reads student course assignments and the derived
// (program, semester) enrollments used to scope timetable views.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindEnrollments returns the distinct (program, semester) pairs a
// student's course assignments map to. Zero rows means the student is
// not enrolled anywhere; more than one means their enrollment is
// ambiguous — callers decide how to treat each case.
func (r *EnrollmentRepository) FindEnrollments(ctx context.Context, studentID int64) ([]models.Enrollment, error) {
	const query = `SELECT DISTINCT sca.student_id, sca.program_id, cs.semester_id
	FROM student_course_assignments sca
	JOIN current_semesters cs ON cs.id = sca.current_semester_id
	WHERE sca.student_id = $1
	ORDER BY sca.program_id, cs.semester_id`
	var out []models.Enrollment
	if err := r.db.SelectContext(ctx, &out, query, studentID); err != nil {
		return nil, fmt.Errorf("find enrollments: %w", err)
	}
	return out, nil
}

// ListStudentCourses returns joined course-assignment rows, optionally
// narrowed to one program, ordered so rows of one student are adjacent.
func (r *EnrollmentRepository) ListStudentCourses(ctx context.Context, programID int64) ([]models.StudentCourseDetail, error) {
	query := `SELECT sca.id, sca.student_id, sca.program_id, sca.session_id, sca.current_semester_id, sca.course_id, sca.allowed, sca.is_repeater,
		s.first_name || ' ' || s.last_name AS student_name,
		p.name AS program_name, sem.name AS semester_name, c.name AS course_name,
		ses.start_year, ses.end_year
	FROM student_course_assignments sca
	JOIN students s ON s.id = sca.student_id
	JOIN programs p ON p.id = sca.program_id
	JOIN sessions ses ON ses.id = sca.session_id
	JOIN current_semesters cs ON cs.id = sca.current_semester_id
	JOIN semesters sem ON sem.id = cs.semester_id
	JOIN courses c ON c.id = sca.course_id`
	var args []interface{}
	if programID != 0 {
		query += ` WHERE sca.program_id = $1`
		args = append(args, programID)
	}
	query += ` ORDER BY s.enrollment_no, c.name`
	var out []models.StudentCourseDetail
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list student courses: %w", err)
	}
	return out, nil
}

// ListCoursesForStudent returns one student's course assignments for
// their own course view.
func (r *EnrollmentRepository) ListCoursesForStudent(ctx context.Context, studentID int64) ([]models.StudentCourseDetail, error) {
	const query = `SELECT sca.id, sca.student_id, sca.program_id, sca.session_id, sca.current_semester_id, sca.course_id, sca.allowed, sca.is_repeater,
		s.first_name || ' ' || s.last_name AS student_name,
		p.name AS program_name, sem.name AS semester_name, c.name AS course_name,
		ses.start_year, ses.end_year
	FROM student_course_assignments sca
	JOIN students s ON s.id = sca.student_id
	JOIN programs p ON p.id = sca.program_id
	JOIN sessions ses ON ses.id = sca.session_id
	JOIN current_semesters cs ON cs.id = sca.current_semester_id
	JOIN semesters sem ON sem.id = cs.semester_id
	JOIN courses c ON c.id = sca.course_id
	WHERE sca.student_id = $1
	ORDER BY c.name`
	var out []models.StudentCourseDetail
	if err := r.db.SelectContext(ctx, &out, query, studentID); err != nil {
		return nil, fmt.Errorf("list courses for student: %w", err)
	}
	return out, nil
}

// CreateStudentCourse records that a student follows a course this
// semester. Duplicate (student, course, semester) rows are rejected by a
// unique index.
func (r *EnrollmentRepository) CreateStudentCourse(ctx context.Context, sca *models.StudentCourseAssignment) error {
	const query = `INSERT INTO student_course_assignments (student_id, program_id, session_id, current_semester_id, course_id, allowed, is_repeater)
	VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		sca.StudentID, sca.ProgramID, sca.SessionID, sca.CurrentSemesterID, sca.CourseID, sca.Allowed, sca.IsRepeater,
	).Scan(&sca.ID); err != nil {
		return fmt.Errorf("create student course assignment: %w", err)
	}
	return nil
}

// UpdateStudentCourseFlags sets the allowed and repeater flags on one
// course assignment.
func (r *EnrollmentRepository) UpdateStudentCourseFlags(ctx context.Context, id int64, allowed, isRepeater bool) error {
	const query = `UPDATE student_course_assignments SET allowed = $2, is_repeater = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, allowed, isRepeater)
	if err != nil {
		return fmt.Errorf("update student course flags: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update student course flags: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteStudentCourse removes one course assignment.
func (r *EnrollmentRepository) DeleteStudentCourse(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM student_course_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student course assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete student course assignment: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
