package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/middleware"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/internal/service"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/response"
)

// AllocationHandler manages assignment booking endpoints.
type AllocationHandler struct {
	service *service.AllocationService
	cache   *redis.Client
	logger  *zap.Logger
}

// NewAllocationHandler constructs handler.
func NewAllocationHandler(svc *service.AllocationService, cache *redis.Client, logger *zap.Logger) *AllocationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationHandler{service: svc, cache: cache, logger: logger}
}

// List godoc
// @Summary List assignments
// @Tags Assignments
// @Produce json
// @Param programId query int false "Filter by program"
// @Param semesterId query int false "Filter by semester"
// @Param facultyId query int false "Filter by faculty"
// @Param roomId query int false "Filter by room"
// @Param day query string false "Filter by day of week"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AllocationHandler) List(c *gin.Context) {
	filter := models.AssignmentFilter{
		ProgramID:  queryID(c, "programId"),
		SemesterID: queryID(c, "semesterId"),
		SessionID:  queryID(c, "sessionId"),
		FacultyID:  queryID(c, "facultyId"),
		RoomID:     queryID(c, "roomId"),
		Day:        models.DayOfWeek(c.Query("day")),
	}
	details, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Create godoc
// @Summary Book a class
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body service.AssignmentRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments [post]
func (h *AllocationHandler) Create(c *gin.Context) {
	var req service.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.InvalidateTimetableCache(c.Request.Context(), h.cache, h.logger)
	response.Created(c, created)
}

// Update godoc
// @Summary Rebook a class
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param payload body service.AssignmentRequest true "Assignment"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id} [put]
func (h *AllocationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.InvalidateTimetableCache(c.Request.Context(), h.cache, h.logger)
	response.JSON(c, http.StatusOK, updated, nil)
}

// Delete godoc
// @Summary Cancel a booking
// @Tags Assignments
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 204
// @Router /assignments/{id} [delete]
func (h *AllocationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	middleware.InvalidateTimetableCache(c.Request.Context(), h.cache, h.logger)
	response.NoContent(c)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func queryID(c *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
