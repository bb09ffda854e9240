package models

import "time"

// DayOfWeek is the teaching-day enumeration. Sunday is never scheduled.
type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
	Saturday  DayOfWeek = "Saturday"
)

// Days lists teaching days in week order.
var Days = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var dayIndex = map[DayOfWeek]int{
	Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4, Saturday: 5,
}

// Index returns the position of the day in the week (Monday=0), or -1
// for an unknown value.
func (d DayOfWeek) Index() int {
	if i, ok := dayIndex[d]; ok {
		return i
	}
	return -1
}

// Valid reports whether the value is one of the six teaching days.
func (d DayOfWeek) Valid() bool {
	return d.Index() >= 0
}

// Assignment is one committed (course, faculty, room, slot, day,
// program, semester) tuple — a scheduled class.
type Assignment struct {
	ID         int64     `db:"id" json:"id"`
	CourseID   int64     `db:"course_id" json:"course_id"`
	FacultyID  int64     `db:"faculty_id" json:"faculty_id"`
	RoomID     int64     `db:"room_id" json:"room_id"`
	SlotID     int64     `db:"slot_id" json:"slot_id"`
	DayOfWeek  DayOfWeek `db:"day_of_week" json:"day_of_week"`
	SemesterID int64     `db:"semester_id" json:"semester_id"`
	ProgramID  int64     `db:"program_id" json:"program_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// AssignmentDetail is an assignment joined with the display attributes
// of its references, as consumed by timetable views and diagnostics.
type AssignmentDetail struct {
	Assignment
	CourseName   string `db:"course_name" json:"course_name"`
	FacultyName  string `db:"faculty_name" json:"faculty_name"`
	RoomNumber   string `db:"room_number" json:"room_number"`
	StartTime    string `db:"start_time" json:"start_time"`
	EndTime      string `db:"end_time" json:"end_time"`
	ProgramName  string `db:"program_name" json:"program_name"`
	SemesterName string `db:"semester_name" json:"semester_name"`
}

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	ProgramID  int64
	SemesterID int64
	SessionID  int64
	FacultyID  int64
	RoomID     int64
	Day        DayOfWeek
}

// FacultyConflictScope selects which faculty double-booking rule a
// caller wants: busy for anyone, or busy only within one program.
type FacultyConflictScope string

const (
	// FacultyScopeGlobal treats a faculty member as busy for every
	// program during an occupied slot.
	FacultyScopeGlobal FacultyConflictScope = "global"
	// FacultyScopeProgram only blocks a second booking inside the same
	// program, allowing parallel teaching across programs.
	FacultyScopeProgram FacultyConflictScope = "program"
)

// Valid reports whether the scope is one of the two defined values.
func (s FacultyConflictScope) Valid() bool {
	return s == FacultyScopeGlobal || s == FacultyScopeProgram
}

// ConflictKind identifies which uniqueness rule a candidate violated.
type ConflictKind string

const (
	ConflictRoom         ConflictKind = "ROOM"
	ConflictFaculty      ConflictKind = "FACULTY"
	ConflictCourseRepeat ConflictKind = "COURSE_REPEAT"
)

// ConflictError is returned when a candidate assignment collides with a
// committed one. Existing carries the offending row for diagnostics.
type ConflictError struct {
	Kind     ConflictKind         `json:"kind"`
	Scope    FacultyConflictScope `json:"scope,omitempty"`
	Message  string               `json:"message"`
	Existing AssignmentDetail     `json:"existing"`
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
