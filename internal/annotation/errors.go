package annotation

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a surfer id does not exist in the session.
	ErrNotFound = errors.New("surfer not found")

	// ErrInvalidTimeRange is returned when a start or end time falls outside
	// the video, or the endpoints are out of order.
	ErrInvalidTimeRange = errors.New("invalid time range")

	// ErrInvalidBBox is returned when a bounding box is malformed or falls
	// outside the frame bounds.
	ErrInvalidBBox = errors.New("invalid bounding box")

	// ErrInvalidQuality is returned when a rating is not in the known set.
	ErrInvalidQuality = errors.New("invalid quality rating")

	// ErrCorruptData is returned when an imported document violates the
	// annotation schema. Import stops at the first violation.
	ErrCorruptData = errors.New("corrupt annotation data")
)

// ValidationError carries enough context for a caller to render a corrective
// message: which surfer, which field, and the offending value. It unwraps to
// one of the sentinel errors above.
type ValidationError struct {
	Err      error
	SurferID int // zero when the error is not tied to a surfer
	Field    string
	Value    any
	Reason   string
}

func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.SurferID != 0 {
		msg = fmt.Sprintf("surfer %d: %s", e.SurferID, msg)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %q", msg, e.Field)
	}
	if e.Value != nil {
		msg = fmt.Sprintf("%s = %v", msg, e.Value)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// notFoundError tags ErrNotFound with the missing id.
func notFoundError(id int) error {
	return fmt.Errorf("surfer %d: %w", id, ErrNotFound)
}

func timeRangeError(id int, field string, value float64, reason string) error {
	return &ValidationError{Err: ErrInvalidTimeRange, SurferID: id, Field: field, Value: value, Reason: reason}
}

func bboxError(id int, value BBox, reason string) error {
	return &ValidationError{
		Err:      ErrInvalidBBox,
		SurferID: id,
		Field:    "bbox",
		Value:    fmt.Sprintf("[%g %g %g %g]", value.X, value.Y, value.Width, value.Height),
		Reason:   reason,
	}
}

func corruptError(field string, value any, reason string) error {
	return &ValidationError{Err: ErrCorruptData, Field: field, Value: value, Reason: reason}
}
