package ffmpeg

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrFFmpegNotFound     = errors.New("ffmpeg binary not found")
	ErrFFprobeNotFound    = errors.New("ffprobe binary not found")
	ErrInvalidVideoFile   = errors.New("invalid or unsupported video file")
	ErrNoVideoStream      = errors.New("no video stream in file")
	ErrTimestampOutOfFile = errors.New("timestamp outside the video")
)

// ProcessingError represents an error during video probing or frame extraction
type ProcessingError struct {
	Operation string // The operation that failed (e.g., "metadata_extraction", "frame_extraction")
	File      string // The file being processed
	Err       error  // The underlying error
	Stderr    string // stderr output from ffmpeg/ffprobe
}

func (e *ProcessingError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffmpeg %s failed for %s: %v (stderr: %s)", e.Operation, e.File, e.Err, e.Stderr)
	}
	return fmt.Sprintf("ffmpeg %s failed for %s: %v", e.Operation, e.File, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError creates a new ProcessingError
func NewProcessingError(operation, file string, err error, stderr string) *ProcessingError {
	return &ProcessingError{
		Operation: operation,
		File:      file,
		Err:       err,
		Stderr:    stderr,
	}
}
