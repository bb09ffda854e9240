package models

import "time"

// Department groups faculty, courses and programs.
type Department struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Room is a bookable teaching room.
type Room struct {
	ID     int64  `db:"id" json:"id"`
	Number string `db:"number" json:"number"`
}

// Faculty is a teaching staff member.
type Faculty struct {
	ID           int64  `db:"id" json:"id"`
	FirstName    string `db:"first_name" json:"first_name"`
	LastName     string `db:"last_name" json:"last_name"`
	Email        string `db:"email" json:"email"`
	DepartmentID int64  `db:"department_id" json:"department_id"`
}

// FullName returns the display name for a faculty member.
func (f Faculty) FullName() string {
	return f.FirstName + " " + f.LastName
}

// Course is a teachable subject owned by a department.
type Course struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	DepartmentID int64  `db:"department_id" json:"department_id"`
	FacultyID    int64  `db:"faculty_id" json:"faculty_id"`
}

// TimeSlot is a fixed time-of-day interval from the slot catalog.
// Times are stored as HH:MM:SS strings; slots are always listed ordered
// by start time.
type TimeSlot struct {
	ID        int64  `db:"id" json:"id"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// StartMinutes returns the start time as minutes since midnight, or -1
// when the value cannot be parsed.
func (s TimeSlot) StartMinutes() int {
	return clockMinutes(s.StartTime)
}

// Duration returns the slot length. Slots whose end precedes their start
// yield a negative duration; reporting views filter those out.
func (s TimeSlot) Duration() time.Duration {
	start := clockMinutes(s.StartTime)
	end := clockMinutes(s.EndTime)
	if start < 0 || end < 0 {
		return 0
	}
	return time.Duration(end-start) * time.Minute
}

func clockMinutes(clock string) int {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, clock); err == nil {
			return t.Hour()*60 + t.Minute()
		}
	}
	return -1
}

// Session is an academic intake window (e.g. 2023-2027).
type Session struct {
	ID        int64 `db:"id" json:"id"`
	StartYear int   `db:"start_year" json:"start_year"`
	EndYear   int   `db:"end_year" json:"end_year"`
}

// Program is a degree offering tied to one session.
type Program struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	SessionID    int64  `db:"session_id" json:"session_id"`
	DepartmentID int64  `db:"department_id" json:"department_id"`
}

// Semester is a reusable term label.
type Semester struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// CurrentSemester binds a program to its active semester. A program has
// at most one active binding at a time.
type CurrentSemester struct {
	ID         int64     `db:"id" json:"id"`
	ProgramID  int64     `db:"program_id" json:"program_id"`
	SemesterID int64     `db:"semester_id" json:"semester_id"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
}

// Student is a learner owned by a department.
type Student struct {
	ID           int64  `db:"id" json:"id"`
	FirstName    string `db:"first_name" json:"first_name"`
	LastName     string `db:"last_name" json:"last_name"`
	EnrollmentNo string `db:"enrollment_no" json:"enrollment_no"`
	Email        string `db:"email" json:"email"`
	DepartmentID int64  `db:"department_id" json:"department_id"`
}
