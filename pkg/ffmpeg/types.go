package ffmpeg

import (
	"path/filepath"
	"strings"
)

// VideoMetadata represents metadata extracted from a video file
type VideoMetadata struct {
	Duration   float64 `json:"duration"` // Duration in seconds
	FPS        float64 `json:"fps"`      // Average frame rate
	Width      int     `json:"width"`    // Frame width in pixels
	Height     int     `json:"height"`   // Frame height in pixels
	FrameCount int64   `json:"frame_count"`
	Format     string  `json:"format"` // Container format
	Codec      string  `json:"codec"`  // Video codec
	Size       int64   `json:"size"`   // File size in bytes
}

// supportedContainers are the video containers the annotation tool accepts.
var supportedContainers = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
	".wmv": true,
}

// SupportedContainer reports whether the file extension is an accepted
// video container (MP4, MOV, AVI, MKV, WMV).
func SupportedContainer(path string) bool {
	return supportedContainers[strings.ToLower(filepath.Ext(path))]
}
