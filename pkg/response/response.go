package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error response converting the error to the common
// structure. Booking conflicts are rendered as 409 with the offending
// assignment attached, so clients can show what is in the way.
func Error(c *gin.Context, err error) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")

	var conflict *models.ConflictError
	if errors.As(err, &conflict) {
		appErr := conflictError(conflict)
		c.JSON(appErr.Status, Envelope{
			Error: appErr,
			Meta:  map[string]interface{}{"conflict": conflict},
		})
		return
	}

	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func conflictError(conflict *models.ConflictError) *appErrors.Error {
	var base *appErrors.Error
	switch conflict.Kind {
	case models.ConflictRoom:
		base = appErrors.ErrRoomConflict
	case models.ConflictFaculty:
		base = appErrors.ErrFacultyConflict
	case models.ConflictCourseRepeat:
		base = appErrors.ErrCourseRepeatConflict
	default:
		base = appErrors.ErrAllocationConflict
	}
	return appErrors.Clone(base, conflict.Message)
}
