package types

import (
	"time"

	"github.com/surfscribe/annotator-api/internal/annotation"
	"github.com/surfscribe/annotator-api/internal/models"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// SessionResponse is the API representation of an annotation session
type SessionResponse struct {
	UUID        string    `json:"uuid"`
	VideoFile   string    `json:"video_file"`
	Duration    float64   `json:"duration"`
	FPS         float64   `json:"fps"`
	FrameWidth  int       `json:"frame_width,omitempty"`
	FrameHeight int       `json:"frame_height,omitempty"`
	SurferCount int       `json:"surfer_count"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
}

// SessionsResponse for session lists
type SessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Count    int               `json:"count"`
}

// SessionDetailResponse includes the surfer annotations
type SessionDetailResponse struct {
	SessionResponse
	Surfers []SurferResponse `json:"surfers"`
}

// SurferResponse is the API representation of one surfer annotation
type SurferResponse struct {
	ID        int                     `json:"id"`
	StartTime *float64                `json:"start_time"`
	EndTime   *float64                `json:"end_time"`
	Duration  *float64                `json:"duration"`
	BBox      *annotation.BBox        `json:"bbox"`
	Quality   string                  `json:"quality,omitempty"`
	Active    bool                    `json:"active"`
	Created   time.Time               `json:"created"`
	History   []annotation.BBoxSample `json:"bbox_history,omitempty"`
}

// SurferCreatedResponse returns the id assigned to a new surfer annotation
type SurferCreatedResponse struct {
	ID int `json:"id"`
}

// SessionFromLive builds a SessionResponse from a live session
func SessionFromLive(s *annotation.Session) SessionResponse {
	meta := s.Metadata()
	return SessionResponse{
		UUID:        s.UUID(),
		VideoFile:   s.VideoFile(),
		Duration:    meta.Duration,
		FPS:         meta.FPS,
		FrameWidth:  meta.FrameWidth,
		FrameHeight: meta.FrameHeight,
		SurferCount: s.Len(),
		Created:     s.Created(),
		Modified:    s.Modified(),
	}
}

// SessionDetailFromLive builds a SessionDetailResponse from a live session
func SessionDetailFromLive(s *annotation.Session) SessionDetailResponse {
	detail := SessionDetailResponse{
		SessionResponse: SessionFromLive(s),
		Surfers:         []SurferResponse{},
	}
	for _, surfer := range s.Surfers() {
		detail.Surfers = append(detail.Surfers, SurferFromLive(surfer))
	}
	return detail
}

// SurferFromLive builds a SurferResponse from a surfer annotation
func SurferFromLive(surfer *annotation.Surfer) SurferResponse {
	return SurferResponse{
		ID:        surfer.ID,
		StartTime: surfer.StartTime,
		EndTime:   surfer.EndTime,
		Duration:  surfer.Duration(),
		BBox:      surfer.BBox,
		Quality:   string(surfer.Quality),
		Active:    surfer.Active,
		Created:   surfer.Created,
		History:   surfer.History,
	}
}

// SessionFromModel builds a SessionResponse from a stored session row
func SessionFromModel(m *models.Session) SessionResponse {
	return SessionResponse{
		UUID:        m.UUID,
		VideoFile:   m.VideoFile,
		Duration:    m.Duration,
		FPS:         m.FPS,
		FrameWidth:  m.FrameWidth,
		FrameHeight: m.FrameHeight,
		SurferCount: len(m.Surfers),
		Created:     m.SessionCreated,
		Modified:    m.SessionModified,
	}
}
