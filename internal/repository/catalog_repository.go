package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

// CatalogRepository reads and maintains the scheduling reference data:
// rooms, faculty, courses, time slots, sessions, programs and semesters.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListDepartments returns all departments ordered by name.
func (r *CatalogRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var out []models.Department
	if err := r.db.SelectContext(ctx, &out, `SELECT id, name FROM departments ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return out, nil
}

// ListRooms returns all rooms ordered by number.
func (r *CatalogRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	var out []models.Room
	if err := r.db.SelectContext(ctx, &out, `SELECT id, number FROM rooms ORDER BY number`); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return out, nil
}

// ListFaculty returns all faculty ordered by name.
func (r *CatalogRepository) ListFaculty(ctx context.Context) ([]models.Faculty, error) {
	var out []models.Faculty
	const query = `SELECT id, first_name, last_name, email, department_id FROM faculty ORDER BY first_name, last_name`
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	return out, nil
}

// ListCourses returns courses, optionally narrowed to one department.
func (r *CatalogRepository) ListCourses(ctx context.Context, departmentID int64) ([]models.Course, error) {
	query := `SELECT id, name, department_id, faculty_id FROM courses`
	var args []interface{}
	if departmentID != 0 {
		query += ` WHERE department_id = $1`
		args = append(args, departmentID)
	}
	query += ` ORDER BY name`
	var out []models.Course
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

// ListTimeSlots returns the slot catalog ordered by start time, the
// canonical column order for every grid view.
func (r *CatalogRepository) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	if err := r.db.SelectContext(ctx, &out, `SELECT id, start_time, end_time FROM time_slots ORDER BY start_time`); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return out, nil
}

// ListSessions returns intake sessions, newest first.
func (r *CatalogRepository) ListSessions(ctx context.Context) ([]models.Session, error) {
	var out []models.Session
	if err := r.db.SelectContext(ctx, &out, `SELECT id, start_year, end_year FROM sessions ORDER BY start_year DESC`); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// ListPrograms returns programs, optionally narrowed to one session.
func (r *CatalogRepository) ListPrograms(ctx context.Context, sessionID int64) ([]models.Program, error) {
	query := `SELECT id, name, session_id, department_id FROM programs`
	var args []interface{}
	if sessionID != 0 {
		query += ` WHERE session_id = $1`
		args = append(args, sessionID)
	}
	query += ` ORDER BY name`
	var out []models.Program
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return out, nil
}

// ListSemesters returns all semester labels.
func (r *CatalogRepository) ListSemesters(ctx context.Context) ([]models.Semester, error) {
	var out []models.Semester
	if err := r.db.SelectContext(ctx, &out, `SELECT id, name FROM semesters ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return out, nil
}

// ListStudents returns students, optionally narrowed to one department.
func (r *CatalogRepository) ListStudents(ctx context.Context, departmentID int64) ([]models.Student, error) {
	query := `SELECT id, first_name, last_name, enrollment_no, email, department_id FROM students`
	var args []interface{}
	if departmentID != 0 {
		query += ` WHERE department_id = $1`
		args = append(args, departmentID)
	}
	query += ` ORDER BY enrollment_no`
	var out []models.Student
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return out, nil
}

// FindProgram loads one program row.
func (r *CatalogRepository) FindProgram(ctx context.Context, id int64) (*models.Program, error) {
	var p models.Program
	if err := r.db.GetContext(ctx, &p, `SELECT id, name, session_id, department_id FROM programs WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindTimeSlot loads one slot row.
func (r *CatalogRepository) FindTimeSlot(ctx context.Context, id int64) (*models.TimeSlot, error) {
	var s models.TimeSlot
	if err := r.db.GetContext(ctx, &s, `SELECT id, start_time, end_time FROM time_slots WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindFaculty loads one faculty row.
func (r *CatalogRepository) FindFaculty(ctx context.Context, id int64) (*models.Faculty, error) {
	var f models.Faculty
	if err := r.db.GetContext(ctx, &f, `SELECT id, first_name, last_name, email, department_id FROM faculty WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindSemester loads one semester row.
func (r *CatalogRepository) FindSemester(ctx context.Context, id int64) (*models.Semester, error) {
	var s models.Semester
	if err := r.db.GetContext(ctx, &s, `SELECT id, name FROM semesters WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// CurrentSemesterForProgram returns the active semester binding for a
// program, or nil when no binding exists.
func (r *CatalogRepository) CurrentSemesterForProgram(ctx context.Context, programID int64) (*models.CurrentSemester, error) {
	const query = `SELECT id, program_id, semester_id, start_date, end_date FROM current_semesters WHERE program_id = $1`
	var cs models.CurrentSemester
	if err := r.db.GetContext(ctx, &cs, query, programID); err != nil {
		return nil, err
	}
	return &cs, nil
}

// exists runs a parameterised existence probe. Callers pass one of the
// fixed query constants below; the table name never comes from input.
func (r *CatalogRepository) exists(ctx context.Context, query string, id int64) (bool, error) {
	var found bool
	if err := r.db.GetContext(ctx, &found, query, id); err != nil {
		return false, fmt.Errorf("existence check: %w", err)
	}
	return found, nil
}

// ProgramExists reports whether the program id references a real row.
func (r *CatalogRepository) ProgramExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM programs WHERE id = $1)`, id)
}

// CourseExists reports whether the course id references a real row.
func (r *CatalogRepository) CourseExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, id)
}

// FacultyExists reports whether the faculty id references a real row.
func (r *CatalogRepository) FacultyExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM faculty WHERE id = $1)`, id)
}

// RoomExists reports whether the room id references a real row.
func (r *CatalogRepository) RoomExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1)`, id)
}

// TimeSlotExists reports whether the slot id references a real row.
func (r *CatalogRepository) TimeSlotExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM time_slots WHERE id = $1)`, id)
}

// SemesterExists reports whether the semester id references a real row.
func (r *CatalogRepository) SemesterExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM semesters WHERE id = $1)`, id)
}

// CreateDepartment inserts a department and fills in its id.
func (r *CatalogRepository) CreateDepartment(ctx context.Context, d *models.Department) error {
	if err := r.db.QueryRowContext(ctx, `INSERT INTO departments (name) VALUES ($1) RETURNING id`, d.Name).Scan(&d.ID); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// UpdateDepartment renames a department.
func (r *CatalogRepository) UpdateDepartment(ctx context.Context, d *models.Department) error {
	return r.execAffect(ctx, "update department", `UPDATE departments SET name = $1 WHERE id = $2`, d.Name, d.ID)
}

// DeleteDepartment removes a department.
func (r *CatalogRepository) DeleteDepartment(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM departments WHERE id = $1`, id, "delete department")
}

// CreateRoom inserts a room and fills in its id.
func (r *CatalogRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	if err := r.db.QueryRowContext(ctx, `INSERT INTO rooms (number) VALUES ($1) RETURNING id`, room.Number).Scan(&room.ID); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// UpdateRoom renumbers a room.
func (r *CatalogRepository) UpdateRoom(ctx context.Context, room *models.Room) error {
	return r.execAffect(ctx, "update room", `UPDATE rooms SET number = $1 WHERE id = $2`, room.Number, room.ID)
}

// DeleteRoom removes a room.
func (r *CatalogRepository) DeleteRoom(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM rooms WHERE id = $1`, id, "delete room")
}

// CreateTimeSlot inserts a slot and fills in its id.
func (r *CatalogRepository) CreateTimeSlot(ctx context.Context, slot *models.TimeSlot) error {
	const query = `INSERT INTO time_slots (start_time, end_time) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, slot.StartTime, slot.EndTime).Scan(&slot.ID); err != nil {
		return fmt.Errorf("create time slot: %w", err)
	}
	return nil
}

// UpdateTimeSlot rewrites a slot's interval.
func (r *CatalogRepository) UpdateTimeSlot(ctx context.Context, slot *models.TimeSlot) error {
	return r.execAffect(ctx, "update time slot", `UPDATE time_slots SET start_time = $1, end_time = $2 WHERE id = $3`, slot.StartTime, slot.EndTime, slot.ID)
}

// DeleteTimeSlot removes a slot.
func (r *CatalogRepository) DeleteTimeSlot(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM time_slots WHERE id = $1`, id, "delete time slot")
}

// CreateSession inserts an intake session and fills in its id.
func (r *CatalogRepository) CreateSession(ctx context.Context, s *models.Session) error {
	const query = `INSERT INTO sessions (start_year, end_year) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, s.StartYear, s.EndYear).Scan(&s.ID); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// UpdateSession rewrites an intake session's year window.
func (r *CatalogRepository) UpdateSession(ctx context.Context, s *models.Session) error {
	return r.execAffect(ctx, "update session", `UPDATE sessions SET start_year = $1, end_year = $2 WHERE id = $3`, s.StartYear, s.EndYear, s.ID)
}

// DeleteSession removes an intake session.
func (r *CatalogRepository) DeleteSession(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM sessions WHERE id = $1`, id, "delete session")
}

// CreateProgram inserts a program and fills in its id.
func (r *CatalogRepository) CreateProgram(ctx context.Context, p *models.Program) error {
	const query = `INSERT INTO programs (name, session_id, department_id) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, p.Name, p.SessionID, p.DepartmentID).Scan(&p.ID); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// UpdateProgram rewrites a program's attributes.
func (r *CatalogRepository) UpdateProgram(ctx context.Context, p *models.Program) error {
	return r.execAffect(ctx, "update program", `UPDATE programs SET name = $1, session_id = $2, department_id = $3 WHERE id = $4`, p.Name, p.SessionID, p.DepartmentID, p.ID)
}

// DeleteProgram removes a program.
func (r *CatalogRepository) DeleteProgram(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM programs WHERE id = $1`, id, "delete program")
}

// CreateCourse inserts a course and fills in its id.
func (r *CatalogRepository) CreateCourse(ctx context.Context, c *models.Course) error {
	const query = `INSERT INTO courses (name, department_id, faculty_id) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, c.Name, c.DepartmentID, c.FacultyID).Scan(&c.ID); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// UpdateCourse rewrites a course's attributes.
func (r *CatalogRepository) UpdateCourse(ctx context.Context, c *models.Course) error {
	return r.execAffect(ctx, "update course", `UPDATE courses SET name = $1, department_id = $2, faculty_id = $3 WHERE id = $4`, c.Name, c.DepartmentID, c.FacultyID, c.ID)
}

// DeleteCourse removes a course.
func (r *CatalogRepository) DeleteCourse(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM courses WHERE id = $1`, id, "delete course")
}

// CreateFaculty inserts a faculty member and fills in their id.
func (r *CatalogRepository) CreateFaculty(ctx context.Context, f *models.Faculty) error {
	const query = `INSERT INTO faculty (first_name, last_name, email, department_id) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, f.FirstName, f.LastName, f.Email, f.DepartmentID).Scan(&f.ID); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// UpdateFaculty rewrites a faculty member's attributes.
func (r *CatalogRepository) UpdateFaculty(ctx context.Context, f *models.Faculty) error {
	return r.execAffect(ctx, "update faculty", `UPDATE faculty SET first_name = $1, last_name = $2, email = $3, department_id = $4 WHERE id = $5`, f.FirstName, f.LastName, f.Email, f.DepartmentID, f.ID)
}

// DeleteFaculty removes a faculty member.
func (r *CatalogRepository) DeleteFaculty(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM faculty WHERE id = $1`, id, "delete faculty")
}

// CreateStudent inserts a student and fills in their id.
func (r *CatalogRepository) CreateStudent(ctx context.Context, s *models.Student) error {
	const query = `INSERT INTO students (first_name, last_name, enrollment_no, email, department_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, s.FirstName, s.LastName, s.EnrollmentNo, s.Email, s.DepartmentID).Scan(&s.ID); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// UpdateStudent rewrites a student's attributes.
func (r *CatalogRepository) UpdateStudent(ctx context.Context, s *models.Student) error {
	return r.execAffect(ctx, "update student", `UPDATE students SET first_name = $1, last_name = $2, enrollment_no = $3, email = $4, department_id = $5 WHERE id = $6`, s.FirstName, s.LastName, s.EnrollmentNo, s.Email, s.DepartmentID, s.ID)
}

// DeleteStudent removes a student.
func (r *CatalogRepository) DeleteStudent(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM students WHERE id = $1`, id, "delete student")
}

// CreateSemester inserts a semester label and fills in its id.
func (r *CatalogRepository) CreateSemester(ctx context.Context, s *models.Semester) error {
	if err := r.db.QueryRowContext(ctx, `INSERT INTO semesters (name) VALUES ($1) RETURNING id`, s.Name).Scan(&s.ID); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}

// UpdateSemester renames a semester label.
func (r *CatalogRepository) UpdateSemester(ctx context.Context, s *models.Semester) error {
	return r.execAffect(ctx, "update semester", `UPDATE semesters SET name = $1 WHERE id = $2`, s.Name, s.ID)
}

// DeleteSemester removes a semester label.
func (r *CatalogRepository) DeleteSemester(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM semesters WHERE id = $1`, id, "delete semester")
}

// UpsertCurrentSemester sets the active semester for a program,
// replacing any previous binding.
func (r *CatalogRepository) UpsertCurrentSemester(ctx context.Context, cs *models.CurrentSemester) error {
	const query = `INSERT INTO current_semesters (program_id, semester_id, start_date, end_date)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (program_id) DO UPDATE SET semester_id = EXCLUDED.semester_id, start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date
	RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, cs.ProgramID, cs.SemesterID, cs.StartDate, cs.EndDate).Scan(&cs.ID); err != nil {
		return fmt.Errorf("upsert current semester: %w", err)
	}
	return nil
}

// DashboardCounts returns catalog volumes for the landing page in a
// single round trip.
func (r *CatalogRepository) DashboardCounts(ctx context.Context) (*models.DashboardCounts, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM programs) AS programs,
		(SELECT COUNT(*) FROM rooms) AS rooms,
		(SELECT COUNT(*) FROM sessions) AS sessions`
	var counts models.DashboardCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &counts, nil
}

func (r *CatalogRepository) deleteByID(ctx context.Context, query string, id int64, op string) error {
	return r.execAffect(ctx, op, query, id)
}

// execAffect runs a write that must touch exactly one row; zero rows
// maps to sql.ErrNoRows.
func (r *CatalogRepository) execAffect(ctx context.Context, op, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
