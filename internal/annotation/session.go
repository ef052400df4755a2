package annotation

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session holds the annotation state for one loaded video: the surfer set,
// the video metadata the annotations are validated against, and the id
// counter. All operations are synchronous; a single RWMutex guards the whole
// session because SetActive touches every surfer.
//
// Validation failures leave the prior state entirely intact. There is no
// fatal error category here; every failure is recoverable by supplying
// corrected input.
type Session struct {
	mu        sync.RWMutex
	uuid      string
	videoFile string
	meta      Metadata
	surfers   map[int]*Surfer
	order     []int // insertion order, kept for deterministic export and stats
	nextID    int
	created   time.Time
	modified  time.Time
}

// NewSession creates an empty session for a loaded video. The metadata must
// describe a playable video: positive duration, fps, and frame dimensions.
func NewSession(videoFile string, meta Metadata) (*Session, error) {
	if meta.FrameWidth <= 0 || meta.FrameHeight <= 0 {
		return nil, fmt.Errorf("frame dimensions must be positive, got %dx%d", meta.FrameWidth, meta.FrameHeight)
	}
	return newSession(videoFile, meta)
}

func newSession(videoFile string, meta Metadata) (*Session, error) {
	if videoFile == "" {
		return nil, fmt.Errorf("video file name is required")
	}
	if meta.Duration <= 0 {
		return nil, fmt.Errorf("video duration must be positive, got %g", meta.Duration)
	}
	if meta.FPS <= 0 {
		return nil, fmt.Errorf("video fps must be positive, got %g", meta.FPS)
	}

	now := time.Now().UTC()
	return &Session{
		uuid:      uuid.New().String(),
		videoFile: videoFile,
		meta:      meta,
		surfers:   make(map[int]*Surfer),
		nextID:    1,
		created:   now,
		modified:  now,
	}, nil
}

// Restore rebuilds a session from previously validated state, preserving
// surfer ids, the id counter, and timestamps. The persistence layer and the
// importer use it; both are responsible for having validated fields first.
// Structural invariants (unique ids, at most one active, counter above every
// id) are still enforced here. Unlike NewSession, zero frame dimensions are
// tolerated: documents from before resolution was recorded lack them.
func Restore(sessionUUID, videoFile string, meta Metadata, created, modified time.Time, surfers []*Surfer, nextID int) (*Session, error) {
	s, err := newSession(videoFile, meta)
	if err != nil {
		return nil, err
	}
	if sessionUUID != "" {
		s.uuid = sessionUUID
	}
	if !created.IsZero() {
		s.created = created
	}
	if !modified.IsZero() {
		s.modified = modified
	}

	activeSeen := false
	maxID := 0
	for _, surfer := range surfers {
		if surfer.ID <= 0 {
			return nil, fmt.Errorf("surfer id must be positive, got %d", surfer.ID)
		}
		if _, dup := s.surfers[surfer.ID]; dup {
			return nil, fmt.Errorf("duplicate surfer id %d", surfer.ID)
		}
		if surfer.Active {
			if activeSeen {
				return nil, fmt.Errorf("more than one surfer marked active")
			}
			activeSeen = true
		}
		c := surfer.clone()
		s.surfers[c.ID] = c
		s.order = append(s.order, c.ID)
		if c.ID > maxID {
			maxID = c.ID
		}
	}

	s.nextID = maxID + 1
	if nextID > s.nextID {
		s.nextID = nextID
	}
	return s, nil
}

// UUID returns the stable session identifier.
func (s *Session) UUID() string { return s.uuid }

// VideoFile returns the name of the annotated video.
func (s *Session) VideoFile() string { return s.videoFile }

// Metadata returns the video properties the session was created against.
func (s *Session) Metadata() Metadata { return s.meta }

// Created returns the session creation time.
func (s *Session) Created() time.Time { return s.created }

// Modified returns the time of the last successful mutation.
func (s *Session) Modified() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified
}

// Len returns the number of surfer annotations.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.surfers)
}

// NextID returns the id the next added surfer will receive.
func (s *Session) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextID
}

// AddSurfer creates a new annotation with a fresh id. The optional start
// time (usually the current playback position) must lie within the video.
// Ids are never reused within a session, even after deletes.
func (s *Session) AddSurfer(startTime *float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if startTime != nil {
		if err := s.checkTime(0, "start_time", *startTime); err != nil {
			return 0, err
		}
	}

	id := s.nextID
	s.nextID++

	surfer := &Surfer{ID: id, Created: time.Now().UTC()}
	if startTime != nil {
		v := *startTime
		surfer.StartTime = &v
	}

	s.surfers[id] = surfer
	s.order = append(s.order, id)
	s.touch()
	return id, nil
}

// DeleteSurfer removes the annotation entirely. No tombstones are kept.
func (s *Session) DeleteSurfer(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.surfers[id]; !ok {
		return notFoundError(id)
	}
	delete(s.surfers, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.touch()
	return nil
}

// SetStartTime sets the ride start. The time must lie within the video and,
// when an end time is already stored, stay strictly before it.
func (s *Session) SetStartTime(id int, t float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	surfer, ok := s.surfers[id]
	if !ok {
		return notFoundError(id)
	}
	if err := s.checkTime(id, "start_time", t); err != nil {
		return err
	}
	if surfer.EndTime != nil && t >= *surfer.EndTime {
		return timeRangeError(id, "start_time", t,
			fmt.Sprintf("must be before end time %g", *surfer.EndTime))
	}

	surfer.StartTime = &t
	s.touch()
	return nil
}

// SetEndTime sets the ride end. The time must lie within the video and,
// when a start time is already stored, stay strictly after it. On failure
// the previously stored end time is unchanged.
func (s *Session) SetEndTime(id int, t float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	surfer, ok := s.surfers[id]
	if !ok {
		return notFoundError(id)
	}
	if err := s.checkTime(id, "end_time", t); err != nil {
		return err
	}
	if surfer.StartTime != nil && t <= *surfer.StartTime {
		return timeRangeError(id, "end_time", t,
			fmt.Sprintf("must be greater than start time %g", *surfer.StartTime))
	}

	surfer.EndTime = &t
	s.touch()
	return nil
}

// SetBBox sets the surfer's static bounding box. The box must be finite,
// non-negative, have positive width and height, and lie within the frame.
// On failure the prior box is retained.
func (s *Session) SetBBox(id int, box BBox) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	surfer, ok := s.surfers[id]
	if !ok {
		return notFoundError(id)
	}
	if err := s.checkBBox(id, box); err != nil {
		return err
	}

	surfer.BBox = &box
	s.touch()
	return nil
}

// SetQuality sets the ride's quality rating.
func (s *Session) SetQuality(id int, q Quality) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	surfer, ok := s.surfers[id]
	if !ok {
		return notFoundError(id)
	}
	if !q.Valid() {
		return &ValidationError{
			Err:      ErrInvalidQuality,
			SurferID: id,
			Field:    "quality",
			Value:    string(q),
			Reason:   "must be one of poor, average, good, excellent",
		}
	}

	surfer.Quality = q
	s.touch()
	return nil
}

// SetActive marks the surfer as the one being edited and clears the flag on
// every other annotation, so at most one surfer is ever active.
func (s *Session) SetActive(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.surfers[id]; !ok {
		return notFoundError(id)
	}
	for _, surfer := range s.surfers {
		surfer.Active = surfer.ID == id
	}
	s.touch()
	return nil
}

// ClearActive deselects every surfer. Zero active surfers is a legal state.
func (s *Session) ClearActive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, surfer := range s.surfers {
		surfer.Active = false
	}
	s.touch()
}

// ActiveSurfer returns a copy of the currently selected surfer, or nil when
// no surfer is active.
func (s *Session) ActiveSurfer() *Surfer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if surfer := s.surfers[id]; surfer.Active {
			return surfer.clone()
		}
	}
	return nil
}

// AddBBoxSample appends a time-varying bounding box sample. Samples are
// append-only at strictly increasing times; past samples are never mutated.
func (s *Session) AddBBoxSample(id int, t float64, box BBox) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	surfer, ok := s.surfers[id]
	if !ok {
		return notFoundError(id)
	}
	if err := s.checkTime(id, "bbox_history.time", t); err != nil {
		return err
	}
	if n := len(surfer.History); n > 0 && t <= surfer.History[n-1].Time {
		return timeRangeError(id, "bbox_history.time", t,
			fmt.Sprintf("must be greater than last sample time %g", surfer.History[n-1].Time))
	}
	if err := s.checkBBox(id, box); err != nil {
		return err
	}

	surfer.History = append(surfer.History, BBoxSample{Time: t, Box: box})
	s.touch()
	return nil
}

// BoxAt returns the surfer's bounding box at a timestamp. With history
// samples the box is linearly interpolated between the neighboring
// keyframes and clamped to the first/last sample outside the sampled range.
// Without history the static box is returned; nil means no box is known.
func (s *Session) BoxAt(id int, t float64) (*BBox, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	surfer, ok := s.surfers[id]
	if !ok {
		return nil, notFoundError(id)
	}

	hist := surfer.History
	if len(hist) == 0 {
		if surfer.BBox == nil {
			return nil, nil
		}
		box := *surfer.BBox
		return &box, nil
	}

	if t <= hist[0].Time {
		box := hist[0].Box
		return &box, nil
	}
	if t >= hist[len(hist)-1].Time {
		box := hist[len(hist)-1].Box
		return &box, nil
	}
	for i := 1; i < len(hist); i++ {
		if t > hist[i].Time {
			continue
		}
		prev, next := hist[i-1], hist[i]
		frac := (t - prev.Time) / (next.Time - prev.Time)
		box := BBox{
			X:      prev.Box.X + frac*(next.Box.X-prev.Box.X),
			Y:      prev.Box.Y + frac*(next.Box.Y-prev.Box.Y),
			Width:  prev.Box.Width + frac*(next.Box.Width-prev.Box.Width),
			Height: prev.Box.Height + frac*(next.Box.Height-prev.Box.Height),
		}
		return &box, nil
	}
	// Unreachable: t is bounded by the last sample above.
	box := hist[len(hist)-1].Box
	return &box, nil
}

// Surfer returns a deep copy of the annotation with the given id.
func (s *Session) Surfer(id int) (*Surfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	surfer, ok := s.surfers[id]
	if !ok {
		return nil, notFoundError(id)
	}
	return surfer.clone(), nil
}

// Surfers returns deep copies of every annotation in insertion order.
func (s *Session) Surfers() []*Surfer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surfersLocked()
}

func (s *Session) surfersLocked() []*Surfer {
	out := make([]*Surfer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.surfers[id].clone())
	}
	return out
}

// SurfersAt returns the surfers whose ride interval covers the timestamp.
// A surfer with only a start time is considered riding from that point on.
func (s *Session) SurfersAt(t float64) []*Surfer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Surfer
	for _, id := range s.order {
		surfer := s.surfers[id]
		if surfer.StartTime == nil || t < *surfer.StartTime {
			continue
		}
		if surfer.EndTime != nil && t > *surfer.EndTime {
			continue
		}
		out = append(out, surfer.clone())
	}
	return out
}

// touch updates the modification timestamp. Callers hold the write lock.
func (s *Session) touch() {
	s.modified = time.Now().UTC()
}

// checkTime validates that a timestamp lies within [0, duration].
func (s *Session) checkTime(id int, field string, t float64) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return timeRangeError(id, field, t, "must be a finite number")
	}
	if t < 0 {
		return timeRangeError(id, field, t, "must not be negative")
	}
	if t > s.meta.Duration {
		return timeRangeError(id, field, t,
			fmt.Sprintf("exceeds video duration %g", s.meta.Duration))
	}
	return nil
}

// checkBBox validates box geometry against the frame bounds. A zero frame
// size (metadata from an older export) skips only the bounds check.
func (s *Session) checkBBox(id int, box BBox) error {
	for _, v := range []float64{box.X, box.Y, box.Width, box.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return bboxError(id, box, "all values must be finite")
		}
		if v < 0 {
			return bboxError(id, box, "all values must be non-negative")
		}
	}
	if box.Width <= 0 || box.Height <= 0 {
		return bboxError(id, box, "width and height must be positive")
	}
	if s.meta.FrameWidth > 0 && box.X+box.Width > float64(s.meta.FrameWidth) {
		return bboxError(id, box,
			fmt.Sprintf("exceeds frame width %d", s.meta.FrameWidth))
	}
	if s.meta.FrameHeight > 0 && box.Y+box.Height > float64(s.meta.FrameHeight) {
		return bboxError(id, box,
			fmt.Sprintf("exceeds frame height %d", s.meta.FrameHeight))
	}
	return nil
}
