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

// TimetableHandler serves the grid projections.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// RoomGrid godoc
// @Summary Room occupancy grid for one day
// @Tags Timetable
// @Produce json
// @Param day path string true "Day of week (Monday..Saturday)"
// @Success 200 {object} response.Envelope
// @Router /timetable/rooms/{day} [get]
func (h *TimetableHandler) RoomGrid(c *gin.Context) {
	grid, err := h.service.RoomGrid(c.Request.Context(), models.DayOfWeek(c.Param("day")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// FacultyWeeks godoc
// @Summary All faculty weekly schedules
// @Tags Timetable
// @Produce json
// @Param day query string false "Restrict to one day (Monday..Saturday)"
// @Success 200 {object} response.Envelope
// @Router /timetable/faculty [get]
func (h *TimetableHandler) FacultyWeeks(c *gin.Context) {
	weeks, err := h.service.FacultyWeeks(c.Request.Context(), models.DayOfWeek(c.Query("day")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, weeks, nil)
}

// FacultyWeek godoc
// @Summary One faculty member's weekly schedule
// @Tags Timetable
// @Produce json
// @Param id path int true "Faculty ID"
// @Param day query string false "Restrict to one day (Monday..Saturday)"
// @Success 200 {object} response.Envelope
// @Router /timetable/faculty/{id} [get]
func (h *TimetableHandler) FacultyWeek(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	week, err := h.service.FacultyWeek(c.Request.Context(), id, models.DayOfWeek(c.Query("day")), middleware.ActorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, week, nil)
}

// FacultyWeekPDF godoc
// @Summary Download a faculty week as PDF
// @Tags Timetable
// @Produce application/pdf
// @Param id path int true "Faculty ID"
// @Success 200 {file} binary
// @Router /timetable/faculty/{id}/pdf [get]
func (h *TimetableHandler) FacultyWeekPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	content, filename, err := h.service.FacultyWeekPDF(c.Request.Context(), id, middleware.ActorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", content)
}

// ProgramWeek godoc
// @Summary Weekly grid for a program and semester
// @Tags Timetable
// @Produce json
// @Param programId query int true "Program ID"
// @Param semesterId query int true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/week [get]
func (h *TimetableHandler) ProgramWeek(c *gin.Context) {
	programID := queryID(c, "programId")
	semesterID := queryID(c, "semesterId")
	if programID == 0 || semesterID == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "programId and semesterId are required"))
		return
	}
	grid, err := h.service.ProgramWeek(c.Request.Context(), programID, semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// StudentWeek godoc
// @Summary Weekly grid for a student's resolved enrollment
// @Tags Timetable
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope "Student not enrolled"
// @Failure 409 {object} response.Envelope "Enrollment ambiguous"
// @Router /timetable/students/{id} [get]
func (h *TimetableHandler) StudentWeek(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	grid, err := h.service.StudentWeek(c.Request.Context(), id, middleware.ActorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// WeeklyReport godoc
// @Summary Campus-wide weekly report grouped by semester
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/report [get]
func (h *TimetableHandler) WeeklyReport(c *gin.Context) {
	report, err := h.service.WeeklyReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Dashboard godoc
// @Summary Catalog volume counts
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *TimetableHandler) Dashboard(c *gin.Context) {
	counts, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}
