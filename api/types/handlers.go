package types

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/surfscribe/annotator-api/internal/services/sessions"
	apperrors "github.com/surfscribe/annotator-api/pkg/errors"
	"github.com/surfscribe/annotator-api/pkg/ffmpeg"
)

// Handler utility functions to reduce duplication across handlers

// ParseIntParam extracts and parses a URL parameter as int
// Returns the parsed value and sends error response if parsing fails
func ParseIntParam(c *gin.Context, paramName string) (int, bool) {
	paramStr := c.Param(paramName)
	value, err := strconv.Atoi(paramStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status: StatusError,
			Error:  "Invalid " + paramName,
		})
		return 0, false
	}
	return value, true
}

// ParseFloatQuery extracts and parses a required query parameter as float64
// Returns the parsed value and sends error response if missing or malformed
func ParseFloatQuery(c *gin.Context, name string) (float64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status: StatusError,
			Error:  "Missing query parameter " + name,
		})
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status: StatusError,
			Error:  "Invalid " + name,
		})
		return 0, false
	}
	return value, true
}

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Status: StatusError, Error: message})
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Status: StatusError, Error: message})
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Status: StatusError, Error: message})
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendCreated sends a standardized created response with data
func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendError maps a service or domain error to its HTTP response. Validation
// failures carry field context through to the response details.
func SendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		SendNotFound(c, "Session not found")
		return
	case errors.Is(err, sessions.ErrVideoNotFound):
		SendNotFound(c, err.Error())
		return
	case errors.Is(err, sessions.ErrSessionExists):
		c.JSON(http.StatusConflict, ErrorResponse{Status: StatusError, Error: err.Error()})
		return
	case errors.Is(err, ffmpeg.ErrInvalidVideoFile),
		errors.Is(err, ffmpeg.ErrTimestampOutOfFile):
		SendBadRequest(c, err.Error())
		return
	case errors.Is(err, ffmpeg.ErrFFmpegNotFound),
		errors.Is(err, ffmpeg.ErrFFprobeNotFound):
		c.JSON(http.StatusBadGateway, ErrorResponse{Status: StatusError, Error: err.Error()})
		return
	}

	var procErr *ffmpeg.ProcessingError
	if errors.As(err, &procErr) {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Status:  StatusError,
			Message: "Video processing failed",
			Error:   string(apperrors.ErrCodeVideoProbe),
			Details: procErr.Error(),
		})
		return
	}

	appErr := apperrors.FromAnnotation(err)
	c.JSON(appErr.GetHTTPCode(), ErrorResponse{
		Status:  StatusError,
		Message: appErr.Message,
		Error:   string(appErr.Code),
		Details: appErr.Details,
	})
}
