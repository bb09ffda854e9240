package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable-api/internal/service"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/response"
)

// CatalogHandler manages the scheduling reference data endpoints.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListDepartments godoc
// @Summary List departments
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	out, err := h.service.ListDepartments(c.Request.Context())
	respondList(c, out, err)
}

// CreateDepartment godoc
// @Summary Add a department
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateDepartmentRequest true "Department"
// @Success 201 {object} response.Envelope
// @Router /departments [post]
func (h *CatalogHandler) CreateDepartment(c *gin.Context) {
	var req service.CreateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateDepartment(c.Request.Context(), req)
	respondCreated(c, created, err)
}

// UpdateDepartment godoc
// @Summary Rename a department
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Department ID"
// @Param payload body service.CreateDepartmentRequest true "Department"
// @Success 200 {object} response.Envelope
// @Router /departments/{id} [put]
func (h *CatalogHandler) UpdateDepartment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateDepartment(c.Request.Context(), id, req)
	respondUpdated(c, updated, err)
}

// DeleteDepartment godoc
// @Summary Remove a department
// @Tags Catalog
// @Param id path int true "Department ID"
// @Success 204
// @Router /departments/{id} [delete]
func (h *CatalogHandler) DeleteDepartment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteDepartment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListRooms godoc
// @Summary List rooms
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *CatalogHandler) ListRooms(c *gin.Context) {
	out, err := h.service.ListRooms(c.Request.Context())
	respondList(c, out, err)
}

// CreateRoom godoc
// @Summary Add a room
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateRoomRequest true "Room"
// @Success 201 {object} response.Envelope
// @Router /rooms [post]
func (h *CatalogHandler) CreateRoom(c *gin.Context) {
	var req service.CreateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateRoom(c.Request.Context(), req)
	respondCreated(c, created, err)
}

// UpdateRoom godoc
// @Summary Renumber a room
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Room ID"
// @Param payload body service.CreateRoomRequest true "Room"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id} [put]
func (h *CatalogHandler) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateRoom(c.Request.Context(), id, req)
	respondUpdated(c, updated, err)
}

// DeleteRoom godoc
// @Summary Remove a room
// @Tags Catalog
// @Param id path int true "Room ID"
// @Success 204
// @Router /rooms/{id} [delete]
func (h *CatalogHandler) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteRoom(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListFaculty godoc
// @Summary List faculty
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculty [get]
func (h *CatalogHandler) ListFaculty(c *gin.Context) {
	out, err := h.service.ListFaculty(c.Request.Context())
	respondList(c, out, err)
}

// CreateFaculty godoc
// @Summary Add a faculty member
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateFacultyRequest true "Faculty"
// @Success 201 {object} response.Envelope
// @Router /faculty [post]
func (h *CatalogHandler) CreateFaculty(c *gin.Context) {
	var req service.CreateFacultyRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateFaculty(c.Request.Context(), req)
	respondCreated(c, created, err)
}

// UpdateFaculty godoc
// @Summary Rewrite a faculty member
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Faculty ID"
// @Param payload body service.CreateFacultyRequest true "Faculty"
// @Success 200 {object} response.Envelope
// @Router /faculty/{id} [put]
func (h *CatalogHandler) UpdateFaculty(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateFacultyRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateFaculty(c.Request.Context(), id, req)
	respondUpdated(c, updated, err)
}

// DeleteFaculty godoc
// @Summary Remove a faculty member
// @Tags Catalog
// @Param id path int true "Faculty ID"
// @Success 204
// @Router /faculty/{id} [delete]
func (h *CatalogHandler) DeleteFaculty(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteFaculty(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListCourses godoc
// @Summary List courses
// @Tags Catalog
// @Produce json
// @Param departmentId query int false "Filter by department"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	out, err := h.service.ListCourses(c.Request.Context(), queryID(c, "departmentId"))
	respondList(c, out, err)
}

// CreateCourse godoc
// @Summary Add a course
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req service.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateCourse(c.Request.Context(), req)
	respondCreated(c, created, err)
}

// UpdateCourse godoc
// @Summary Rewrite a course
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body service.CreateCourseRequest true "Course"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateCourse(c.Request.Context(), id, req)
	respondUpdated(c, updated, err)
}

// DeleteCourse godoc
// @Summary Remove a course
// @Tags Catalog
// @Param id path int true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCourse(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListTimeSlots godoc
// @Summary List time slots ordered by start time
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /time-slots [get]
func (h *CatalogHandler) ListTimeSlots(c *gin.Context) {
	out, err := h.service.ListTimeSlots(c.Request.Context())
	respondList(c, out, err)
}

// CreateTimeSlot godoc
// @Summary Add a time slot
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateTimeSlotRequest true "Time slot"
// @Success 201 {object} response.Envelope
// @Router /time-slots [post]
func (h *CatalogHandler) CreateTimeSlot(c *gin.Context) {
	var req service.CreateTimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateTimeSlot(c.Request.Context(), req)
	respondCreated(c, created, err)
}

// UpdateTimeSlot godoc
// @Summary Rewrite a time slot
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Time slot ID"
// @Param payload body service.CreateTimeSlotRequest true "Time slot"
// @Success 200 {object} response.Envelope
// @Router /time-slots/{id} [put]
func (h *CatalogHandler) UpdateTimeSlot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateTimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateTimeSlot(c.Request.Context(), id, req)
	respondUpdated(c, updated, err)
}

// DeleteTimeSlot godoc
// @Summary Remove a time slot
// @Tags Catalog
// @Param id path int true "Slot ID"
// @Success 204
// @Router /time-slots/{id} [delete]
func (h *CatalogHandler) DeleteTimeSlot(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTimeSlot(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSessions godoc
// @Summary List intake sessions
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *CatalogHandler) ListSessions(c *gin.Context) {
	out, err := h.service.ListSessions(c.Request.Context())
	respondList(c, out, err)
}

// CreateSession godoc
// @Summary Add an intake session
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateSessionRequest true "Session"
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *CatalogHandler) CreateSession(c *gin.Context) {
	var req service.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateSession(c.Request.Context(), req)
	respondCreated(c, created, err)
}

// UpdateSession godoc
// @Summary Rewrite an intake session
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param payload body service.CreateSessionRequest true "Session"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id} [put]
func (h *CatalogHandler) UpdateSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateSession(c.Request.Context(), id, req)
	respondUpdated(c, updated, err)
}

// DeleteSession godoc
// @Summary Remove an intake session
// @Tags Catalog
// @Param id path int true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *CatalogHandler) DeleteSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSession(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListPrograms godoc
// @Summary List programs
// @Tags Catalog
// @Produce json
// @Param sessionId query int false "Filter by session"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	out, err := h.service.ListPrograms(c.Request.Context(), queryID(c, "sessionId"))
	respondList(c, out, err)
}

// CreateProgram godoc
// @Summary Add a program
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateProgramRequest true "Program"
// @Success 201 {object} response.Envelope
// @Router /programs [post]
func (h *CatalogHandler) CreateProgram(c *gin.Context) {
	var req service.CreateProgramRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateProgram(c.Request.Context(), req)
	respondCreated(c, created, err)
}

// UpdateProgram godoc
// @Summary Rewrite a program
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Program ID"
// @Param payload body service.CreateProgramRequest true "Program"
// @Success 200 {object} response.Envelope
// @Router /programs/{id} [put]
func (h *CatalogHandler) UpdateProgram(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateProgramRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateProgram(c.Request.Context(), id, req)
	respondUpdated(c, updated, err)
}

// DeleteProgram godoc
// @Summary Remove a program
// @Tags Catalog
// @Param id path int true "Program ID"
// @Success 204
// @Router /programs/{id} [delete]
func (h *CatalogHandler) DeleteProgram(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteProgram(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSemesters godoc
// @Summary List semesters
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /semesters [get]
func (h *CatalogHandler) ListSemesters(c *gin.Context) {
	out, err := h.service.ListSemesters(c.Request.Context())
	respondList(c, out, err)
}

// CreateSemester godoc
// @Summary Add a semester label
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateSemesterRequest true "Semester"
// @Success 201 {object} response.Envelope
// @Router /semesters [post]
func (h *CatalogHandler) CreateSemester(c *gin.Context) {
	var req service.CreateSemesterRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateSemester(c.Request.Context(), req)
	respondCreated(c, created, err)
}

// UpdateSemester godoc
// @Summary Rename a semester label
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Semester ID"
// @Param payload body service.CreateSemesterRequest true "Semester"
// @Success 200 {object} response.Envelope
// @Router /semesters/{id} [put]
func (h *CatalogHandler) UpdateSemester(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateSemesterRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateSemester(c.Request.Context(), id, req)
	respondUpdated(c, updated, err)
}

// DeleteSemester godoc
// @Summary Remove a semester label
// @Tags Catalog
// @Param id path int true "Semester ID"
// @Success 204
// @Router /semesters/{id} [delete]
func (h *CatalogHandler) DeleteSemester(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSemester(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListStudents godoc
// @Summary List students
// @Tags Catalog
// @Produce json
// @Param departmentId query int false "Filter by department"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *CatalogHandler) ListStudents(c *gin.Context) {
	out, err := h.service.ListStudents(c.Request.Context(), queryID(c, "departmentId"))
	respondList(c, out, err)
}

// CreateStudent godoc
// @Summary Add a student
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *CatalogHandler) CreateStudent(c *gin.Context) {
	var req service.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.CreateStudent(c.Request.Context(), req)
	respondCreated(c, created, err)
}

// UpdateStudent godoc
// @Summary Rewrite a student
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.CreateStudentRequest true "Student"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *CatalogHandler) UpdateStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.service.UpdateStudent(c.Request.Context(), id, req)
	respondUpdated(c, updated, err)
}

// DeleteStudent godoc
// @Summary Remove a student
// @Tags Catalog
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *CatalogHandler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteStudent(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CurrentSemester godoc
// @Summary Active semester binding for a program
// @Tags Catalog
// @Produce json
// @Param id path int true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /programs/{id}/current-semester [get]
func (h *CatalogHandler) CurrentSemester(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cs, err := h.service.CurrentSemester(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cs, nil)
}

// SetCurrentSemester godoc
// @Summary Bind a program to its active semester
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.SetCurrentSemesterRequest true "Binding"
// @Success 201 {object} response.Envelope
// @Router /current-semesters [post]
func (h *CatalogHandler) SetCurrentSemester(c *gin.Context) {
	var req service.SetCurrentSemesterRequest
	if !bindJSON(c, &req) {
		return
	}
	cs, err := h.service.SetCurrentSemester(c.Request.Context(), req)
	respondCreated(c, cs, err)
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return false
	}
	return true
}

func respondList(c *gin.Context, data interface{}, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data, nil)
}

func respondUpdated(c *gin.Context, data interface{}, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, data, nil)
}

func respondCreated(c *gin.Context, data interface{}, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, data)
}
