package annotation

import (
	"encoding/json"
	"fmt"
	"time"
)

// Quality is the categorical rating of a ride's execution.
type Quality string

const (
	QualityPoor      Quality = "poor"
	QualityAverage   Quality = "average"
	QualityGood      Quality = "good"
	QualityExcellent Quality = "excellent"
)

// Qualities lists the valid ratings in ascending order.
var Qualities = []Quality{QualityPoor, QualityAverage, QualityGood, QualityExcellent}

// Valid reports whether q is one of the known ratings.
func (q Quality) Valid() bool {
	switch q {
	case QualityPoor, QualityAverage, QualityGood, QualityExcellent:
		return true
	}
	return false
}

// ParseQuality converts a string to a Quality, rejecting unknown values.
func ParseQuality(s string) (Quality, error) {
	q := Quality(s)
	if !q.Valid() {
		return "", &ValidationError{
			Err:    ErrInvalidQuality,
			Field:  "quality",
			Value:  s,
			Reason: "must be one of poor, average, good, excellent",
		}
	}
	return q, nil
}

// BBox is a rectangular pixel region marking a surfer's location in a frame.
// It serializes as a four-element JSON array [x, y, width, height].
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// MarshalJSON encodes the box as [x, y, w, h].
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X, b.Y, b.Width, b.Height})
}

// UnmarshalJSON decodes a four-element array into the box.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var vals []float64
	if err := json.Unmarshal(data, &vals); err != nil {
		return fmt.Errorf("bbox must be an array of numbers: %w", err)
	}
	if len(vals) != 4 {
		return fmt.Errorf("bbox must have exactly 4 elements, got %d", len(vals))
	}
	b.X, b.Y, b.Width, b.Height = vals[0], vals[1], vals[2], vals[3]
	return nil
}

// BBoxSample is one point of a time-varying bounding box track.
// Samples are immutable once appended.
type BBoxSample struct {
	Time float64 `json:"time"`
	Box  BBox    `json:"bbox"`
}

// Metadata holds the read-only video properties a session is created against.
// They are sourced from the video prober at load time and never change.
type Metadata struct {
	Duration    float64 `json:"duration"` // seconds
	FPS         float64 `json:"fps"`
	FrameWidth  int     `json:"frame_width"`
	FrameHeight int     `json:"frame_height"`
}

// Surfer is one ride annotation: a time segment, an optional bounding box,
// and an optional quality rating for a single surfer's wave attempt.
type Surfer struct {
	ID        int
	StartTime *float64
	EndTime   *float64
	BBox      *BBox
	Quality   Quality // empty until rated
	Active    bool
	Created   time.Time

	// History holds optional time-varying bounding box samples,
	// ordered by strictly increasing time.
	History []BBoxSample

	// Extra preserves unknown fields from imported documents so minor
	// schema drift survives an export/import round trip.
	Extra map[string]json.RawMessage
}

// Duration returns end-start when both endpoints are set, nil otherwise.
func (s *Surfer) Duration() *float64 {
	if s.StartTime == nil || s.EndTime == nil {
		return nil
	}
	d := *s.EndTime - *s.StartTime
	return &d
}

// clone returns a deep copy so callers can never mutate session state
// through a returned surfer.
func (s *Surfer) clone() *Surfer {
	c := *s
	if s.StartTime != nil {
		v := *s.StartTime
		c.StartTime = &v
	}
	if s.EndTime != nil {
		v := *s.EndTime
		c.EndTime = &v
	}
	if s.BBox != nil {
		v := *s.BBox
		c.BBox = &v
	}
	if s.History != nil {
		c.History = make([]BBoxSample, len(s.History))
		copy(c.History, s.History)
	}
	if s.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}
