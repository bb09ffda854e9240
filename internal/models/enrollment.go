package models

// Enrollment is a student's resolved (program, semester) pair — the key
// that selects which assignment rows are visible to them.
type Enrollment struct {
	StudentID  int64 `db:"student_id" json:"student_id"`
	ProgramID  int64 `db:"program_id" json:"program_id"`
	SemesterID int64 `db:"semester_id" json:"semester_id"`
}

// StudentCourseAssignment declares a course a student must follow in
// their current semester.
type StudentCourseAssignment struct {
	ID                int64 `db:"id" json:"id"`
	StudentID         int64 `db:"student_id" json:"student_id"`
	ProgramID         int64 `db:"program_id" json:"program_id"`
	SessionID         int64 `db:"session_id" json:"session_id"`
	CurrentSemesterID int64 `db:"current_semester_id" json:"current_semester_id"`
	CourseID          int64 `db:"course_id" json:"course_id"`
	Allowed           bool  `db:"allowed" json:"allowed"`
	IsRepeater        bool  `db:"is_repeater" json:"is_repeater"`
}

// StudentCourseDetail is a course assignment joined for display.
type StudentCourseDetail struct {
	StudentCourseAssignment
	StudentName  string `db:"student_name" json:"student_name"`
	ProgramName  string `db:"program_name" json:"program_name"`
	SemesterName string `db:"semester_name" json:"semester_name"`
	CourseName   string `db:"course_name" json:"course_name"`
	StartYear    int    `db:"start_year" json:"start_year"`
	EndYear      int    `db:"end_year" json:"end_year"`
}

// StudentCourseGroup is the per-student grouping used by the course
// assignment listing.
type StudentCourseGroup struct {
	StudentID    int64                 `json:"student_id"`
	StudentName  string                `json:"student_name"`
	ProgramName  string                `json:"program_name"`
	SessionLabel string                `json:"session_label"`
	SemesterName string                `json:"semester_name"`
	Courses      []StudentCourseDetail `json:"courses"`
}
