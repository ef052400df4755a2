package sessions

import "errors"

// Common errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrVideoNotFound   = errors.New("video file not found")
	ErrSessionExists   = errors.New("session already exists for video")
)
