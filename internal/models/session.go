package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session represents a persisted annotation session for one video file
type Session struct {
	gorm.Model
	UUID      string `json:"uuid" gorm:"uniqueIndex"`
	VideoFile string `json:"video_file" gorm:"not null;index"`

	// Probed video metadata
	Duration    float64 `json:"duration" gorm:"not null"` // Duration in seconds
	FPS         float64 `json:"fps" gorm:"not null"`
	FrameWidth  int     `json:"frame_width"`
	FrameHeight int     `json:"frame_height"`

	// Next surfer id to hand out; ids are never reused within a session
	NextSurferID int `json:"next_surfer_id" gorm:"default:1"`

	// Domain timestamps, distinct from the gorm bookkeeping columns
	SessionCreated  time.Time `json:"session_created"`
	SessionModified time.Time `json:"session_modified"`

	Surfers []Surfer `json:"surfers,omitempty" gorm:"foreignKey:SessionID"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == "" {
		s.UUID = uuid.New().String()
	}
	return nil
}

// TableName returns the table name for the Session model
func (Session) TableName() string {
	return "sessions"
}

// Surfer represents one annotated surfer within a session
type Surfer struct {
	gorm.Model
	SessionID uint `json:"session_id" gorm:"not null;index"`
	SurferID  int  `json:"surfer_id" gorm:"not null;index"` // Session-scoped id, assigned by the manager

	StartTime *float64 `json:"start_time"` // Time in seconds, nullable until annotated
	EndTime   *float64 `json:"end_time"`   // Time in seconds, nullable until annotated

	// Static bounding box in pixels; all four set together or none
	BBoxX      *float64 `json:"bbox_x"`
	BBoxY      *float64 `json:"bbox_y"`
	BBoxWidth  *float64 `json:"bbox_width"`
	BBoxHeight *float64 `json:"bbox_height"`

	Quality string `json:"quality"` // poor|average|good|excellent, empty until rated
	Active  bool   `json:"active" gorm:"default:false"`

	CreatedTime time.Time `json:"created_time"` // When the annotation was first added

	HistoryJSON string `json:"history_json,omitempty" gorm:"type:text"` // JSON-encoded bbox keyframes
	ExtraJSON   string `json:"extra_json,omitempty" gorm:"type:text"`   // JSON-encoded unknown import fields
}

// TableName returns the table name for the Surfer model
func (Surfer) TableName() string {
	return "surfers"
}
