package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/surfscribe/annotator-api/internal/annotation"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Database errors
	ErrCodeDatabaseConnection ErrorCode = "DATABASE_CONNECTION"
	ErrCodeDatabaseQuery      ErrorCode = "DATABASE_QUERY"

	// Resource errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// Annotation validation errors
	ErrCodeInvalidTimeRange ErrorCode = "INVALID_TIME_RANGE"
	ErrCodeInvalidBBox      ErrorCode = "INVALID_BOUNDING_BOX"
	ErrCodeInvalidQuality   ErrorCode = "INVALID_QUALITY"
	ErrCodeCorruptData      ErrorCode = "CORRUPT_ANNOTATION_DATA"
	ErrCodeValidation       ErrorCode = "VALIDATION"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"

	// Video probing errors
	ErrCodeVideoProbe       ErrorCode = "VIDEO_PROBE"
	ErrCodeUnsupportedVideo ErrorCode = "UNSUPPORTED_VIDEO"

	// Internal errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AppError represents a structured application error
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
	HTTPCode int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Newf creates a new AppError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(cause error, code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// getDefaultHTTPCode returns the default HTTP status code for an error code
func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidTimeRange, ErrCodeInvalidBBox, ErrCodeInvalidQuality,
		ErrCodeValidation, ErrCodeInvalidInput, ErrCodeUnsupportedVideo:
		return http.StatusBadRequest
	case ErrCodeCorruptData:
		return http.StatusUnprocessableEntity
	case ErrCodeVideoProbe:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromAnnotation converts a core annotation error into an AppError,
// carrying the surfer id, field, and offending value when available so the
// UI can render a corrective message.
func FromAnnotation(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	code := ErrCodeInternal
	switch {
	case errors.Is(err, annotation.ErrNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, annotation.ErrInvalidTimeRange):
		code = ErrCodeInvalidTimeRange
	case errors.Is(err, annotation.ErrInvalidBBox):
		code = ErrCodeInvalidBBox
	case errors.Is(err, annotation.ErrInvalidQuality):
		code = ErrCodeInvalidQuality
	case errors.Is(err, annotation.ErrCorruptData):
		code = ErrCodeCorruptData
	}

	out := Wrap(err, code, err.Error())

	var verr *annotation.ValidationError
	if errors.As(err, &verr) {
		if verr.SurferID != 0 {
			out.WithDetail("surfer_id", verr.SurferID)
		}
		if verr.Field != "" {
			out.WithDetail("field", verr.Field)
		}
		if verr.Value != nil {
			out.WithDetail("value", fmt.Sprintf("%v", verr.Value))
		}
	}
	return out
}

// Common error constructors

// NotFound creates a not found error
func NotFound(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// ValidationError creates a validation error
func ValidationError(field string, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// DatabaseError creates a database error
func DatabaseError(operation string, cause error) *AppError {
	return Wrap(cause, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithDetail("operation", operation)
}

// ConfigError creates a configuration error
func ConfigError(key string, reason string) *AppError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("configuration error for '%s': %s", key, reason)).
		WithDetail("key", key).
		WithDetail("reason", reason)
}

// Is checks if an error carries a specific code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetHTTPCode extracts the HTTP status code from an error
func GetHTTPCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.GetHTTPCode()
	}
	return http.StatusInternalServerError
}
