package models

// RoomGrid projects one day's assignments onto (room × slot) axes. Every
// room and slot appears; cells without a class are absent from Cells.
type RoomGrid struct {
	Day   DayOfWeek                            `json:"day"`
	Rooms []Room                               `json:"rooms"`
	Slots []TimeSlot                           `json:"slots"`
	Cells map[int64]map[int64]AssignmentDetail `json:"cells"` // room id -> slot id
}

// FacultyWeek is one faculty member's ordered sequence of assignments.
// Faculties with no classes in scope still appear with an empty list.
type FacultyWeek struct {
	Faculty     Faculty            `json:"faculty"`
	Assignments []AssignmentDetail `json:"assignments"`
}

// WeekGrid projects assignments onto (day × slot) axes for one program
// and semester.
type WeekGrid struct {
	ProgramID  int64                                `json:"program_id"`
	SemesterID int64                                `json:"semester_id"`
	Days       []DayOfWeek                          `json:"days"`
	Slots      []TimeSlot                           `json:"slots"`
	Cells      map[DayOfWeek]map[int64]AssignmentDetail `json:"cells"` // day -> slot id
}

// SemesterWeek is the admin-wide weekly report: one WeekGrid per
// semester, keyed semester -> day -> slot.
type SemesterWeek struct {
	Semester Semester                                 `json:"semester"`
	Days     []DayOfWeek                              `json:"days"`
	Slots    []TimeSlot                               `json:"slots"`
	Cells    map[DayOfWeek]map[int64]AssignmentDetail `json:"cells"`
}
