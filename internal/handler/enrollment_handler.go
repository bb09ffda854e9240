package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable-api/internal/middleware"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/internal/service"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/response"
)

// EnrollmentHandler manages student course assignment endpoints.
type EnrollmentHandler struct {
	service *service.EnrollmentService
}

// NewEnrollmentHandler constructs handler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// Resolve godoc
// @Summary Resolve a student's enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope "Not enrolled"
// @Failure 409 {object} response.Envelope "Ambiguous enrollment"
// @Router /students/{id}/enrollment [get]
func (h *EnrollmentHandler) Resolve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	enrollment, err := h.service.Resolve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// ListGrouped godoc
// @Summary Course assignments grouped per student
// @Tags Enrollments
// @Produce json
// @Param programId query int false "Filter by program"
// @Success 200 {object} response.Envelope
// @Router /student-courses [get]
func (h *EnrollmentHandler) ListGrouped(c *gin.Context) {
	groups, err := h.service.ListGrouped(c.Request.Context(), queryID(c, "programId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// MyCourses godoc
// @Summary The signed-in student's own course assignments
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student-courses/me [get]
func (h *EnrollmentHandler) MyCourses(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	if actor.Role != models.RoleStudent || actor.StudentID == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "only student accounts have course assignments"))
		return
	}
	courses, err := h.service.ListForStudent(c.Request.Context(), *actor.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// AssignCourse godoc
// @Summary Assign a course to a student
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.StudentCourseRequest true "Course assignment"
// @Success 201 {object} response.Envelope
// @Router /student-courses [post]
func (h *EnrollmentHandler) AssignCourse(c *gin.Context) {
	var req service.StudentCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.service.AssignCourse(c.Request.Context(), req)
	respondCreated(c, created, err)
}

// SetCourseFlags godoc
// @Summary Toggle allowed and repeater flags
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Course assignment ID"
// @Success 204
// @Router /student-courses/{id} [patch]
func (h *EnrollmentHandler) SetCourseFlags(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Allowed    bool `json:"allowed"`
		IsRepeater bool `json:"is_repeater"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.SetCourseFlags(c.Request.Context(), id, req.Allowed, req.IsRepeater); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RemoveCourse godoc
// @Summary Remove a course assignment
// @Tags Enrollments
// @Param id path int true "Course assignment ID"
// @Success 204
// @Router /student-courses/{id} [delete]
func (h *EnrollmentHandler) RemoveCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.RemoveCourse(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
