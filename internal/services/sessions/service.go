package sessions

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/surfscribe/annotator-api/internal/annotation"
	"github.com/surfscribe/annotator-api/internal/models"
	"github.com/surfscribe/annotator-api/pkg/ffmpeg"
)

// ServiceImpl implements the Service interface. Live sessions are cached in
// memory so annotation edits operate on one authoritative object; every
// mutation is snapshotted back to the repository before the call returns.
type ServiceImpl struct {
	repository Repository
	prober     Prober
	videoDir   string

	mu   sync.Mutex
	live map[string]*annotation.Session // keyed by session UUID
}

// NewService creates a new session service. videoDir is the directory video
// files are resolved against when a session names a relative path.
func NewService(repository Repository, prober Prober, videoDir string) Service {
	return &ServiceImpl{
		repository: repository,
		prober:     prober,
		videoDir:   videoDir,
		live:       make(map[string]*annotation.Session),
	}
}

// CreateSession probes the video file and creates an empty annotation
// session for it. One session per video file.
func (s *ServiceImpl) CreateSession(ctx context.Context, videoFile string) (*annotation.Session, error) {
	if videoFile == "" {
		return nil, fmt.Errorf("video file is required")
	}
	if !ffmpeg.SupportedContainer(videoFile) {
		return nil, fmt.Errorf("%w: %s", ffmpeg.ErrInvalidVideoFile, videoFile)
	}

	if _, err := s.repository.GetSessionByVideoFile(ctx, videoFile); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, videoFile)
	}

	videoPath := s.resolveVideoPath(videoFile)
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoPath)
	}

	meta, err := s.prober.Probe(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("probing video: %w", err)
	}

	session, err := annotation.NewSession(videoFile, annotation.Metadata{
		Duration:    meta.Duration,
		FPS:         meta.FPS,
		FrameWidth:  meta.Width,
		FrameHeight: meta.Height,
	})
	if err != nil {
		return nil, err
	}

	model, err := modelFromSession(session)
	if err != nil {
		return nil, err
	}
	if err := s.repository.CreateSession(ctx, model); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.live[session.UUID()] = session
	s.mu.Unlock()

	log.Printf("[INFO] Created session %s for %s (%.1fs, %dx%d, fps=%g)",
		session.UUID(), videoFile, meta.Duration, meta.Width, meta.Height, meta.FPS)
	return session, nil
}

// GetSession returns the live session for a UUID, loading it from the
// repository on first access.
func (s *ServiceImpl) GetSession(ctx context.Context, uuid string) (*annotation.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getSessionLocked(ctx, uuid)
}

func (s *ServiceImpl) getSessionLocked(ctx context.Context, uuid string) (*annotation.Session, error) {
	if session, ok := s.live[uuid]; ok {
		return session, nil
	}

	model, err := s.repository.GetSessionByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	session, err := sessionFromModel(model)
	if err != nil {
		return nil, fmt.Errorf("restoring session %s: %w", uuid, err)
	}
	s.live[uuid] = session
	return session, nil
}

// ListSessions returns every stored session without surfer rows
func (s *ServiceImpl) ListSessions(ctx context.Context) ([]models.Session, error) {
	return s.repository.ListSessions(ctx)
}

// DeleteSession removes a session and evicts it from the live cache
func (s *ServiceImpl) DeleteSession(ctx context.Context, uuid string) error {
	if err := s.repository.DeleteSession(ctx, uuid); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.live, uuid)
	s.mu.Unlock()
	log.Printf("[INFO] Deleted session %s", uuid)
	return nil
}

// Statistics computes the ride statistics for a session
func (s *ServiceImpl) Statistics(ctx context.Context, uuid string) (annotation.Statistics, error) {
	session, err := s.GetSession(ctx, uuid)
	if err != nil {
		return annotation.Statistics{}, err
	}
	return session.Statistics(), nil
}

// ExportJSON writes the session's annotation document to w
func (s *ServiceImpl) ExportJSON(ctx context.Context, uuid string, w io.Writer) error {
	session, err := s.GetSession(ctx, uuid)
	if err != nil {
		return err
	}
	return session.ExportJSON(w)
}

// ExportCSV writes the session's annotations as CSV rows to w
func (s *ServiceImpl) ExportCSV(ctx context.Context, uuid string, w io.Writer) error {
	session, err := s.GetSession(ctx, uuid)
	if err != nil {
		return err
	}
	return session.ExportCSV(w)
}

// ImportSession validates an annotation document and stores it as a new
// session. An existing session for the same video file is replaced.
func (s *ServiceImpl) ImportSession(ctx context.Context, r io.Reader) (*annotation.Session, error) {
	session, err := annotation.ImportJSON(r)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repository.GetSessionByVideoFile(ctx, session.VideoFile()); err == nil {
		if err := s.repository.DeleteSession(ctx, existing.UUID); err != nil {
			return nil, fmt.Errorf("replacing session for %s: %w", session.VideoFile(), err)
		}
		s.mu.Lock()
		delete(s.live, existing.UUID)
		s.mu.Unlock()
		log.Printf("[INFO] Replaced session %s for %s on import", existing.UUID, session.VideoFile())
	}

	model, err := modelFromSession(session)
	if err != nil {
		return nil, err
	}
	if err := s.repository.CreateSession(ctx, model); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.live[session.UUID()] = session
	s.mu.Unlock()

	log.Printf("[INFO] Imported session %s for %s (%d surfers)", session.UUID(), session.VideoFile(), session.Len())
	return session, nil
}

// FrameAt extracts a JPEG frame from the session's video at the timestamp
func (s *ServiceImpl) FrameAt(ctx context.Context, uuid string, timestamp float64) ([]byte, error) {
	session, err := s.GetSession(ctx, uuid)
	if err != nil {
		return nil, err
	}
	if timestamp < 0 || timestamp > session.Metadata().Duration {
		return nil, fmt.Errorf("%w: %g not in [0, %g]",
			ffmpeg.ErrTimestampOutOfFile, timestamp, session.Metadata().Duration)
	}
	return s.prober.FrameAt(ctx, s.resolveVideoPath(session.VideoFile()), timestamp)
}

// AddSurfer adds a surfer annotation, optionally with a start time
func (s *ServiceImpl) AddSurfer(ctx context.Context, uuid string, startTime *float64) (int, error) {
	session, err := s.GetSession(ctx, uuid)
	if err != nil {
		return 0, err
	}
	id, err := session.AddSurfer(startTime)
	if err != nil {
		return 0, err
	}
	if err := s.persist(ctx, session); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteSurfer removes a surfer annotation
func (s *ServiceImpl) DeleteSurfer(ctx context.Context, uuid string, surferID int) error {
	return s.mutate(ctx, uuid, func(session *annotation.Session) error {
		return session.DeleteSurfer(surferID)
	})
}

// SetStartTime sets a surfer's ride start time
func (s *ServiceImpl) SetStartTime(ctx context.Context, uuid string, surferID int, t float64) error {
	return s.mutate(ctx, uuid, func(session *annotation.Session) error {
		return session.SetStartTime(surferID, t)
	})
}

// SetEndTime sets a surfer's ride end time
func (s *ServiceImpl) SetEndTime(ctx context.Context, uuid string, surferID int, t float64) error {
	return s.mutate(ctx, uuid, func(session *annotation.Session) error {
		return session.SetEndTime(surferID, t)
	})
}

// SetBBox sets a surfer's static bounding box
func (s *ServiceImpl) SetBBox(ctx context.Context, uuid string, surferID int, box annotation.BBox) error {
	return s.mutate(ctx, uuid, func(session *annotation.Session) error {
		return session.SetBBox(surferID, box)
	})
}

// SetQuality sets a surfer's ride quality rating
func (s *ServiceImpl) SetQuality(ctx context.Context, uuid string, surferID int, quality annotation.Quality) error {
	return s.mutate(ctx, uuid, func(session *annotation.Session) error {
		return session.SetQuality(surferID, quality)
	})
}

// SetActive marks a surfer as the active annotation target
func (s *ServiceImpl) SetActive(ctx context.Context, uuid string, surferID int) error {
	return s.mutate(ctx, uuid, func(session *annotation.Session) error {
		return session.SetActive(surferID)
	})
}

// ClearActive clears the active annotation target
func (s *ServiceImpl) ClearActive(ctx context.Context, uuid string) error {
	return s.mutate(ctx, uuid, func(session *annotation.Session) error {
		session.ClearActive()
		return nil
	})
}

// AddBBoxSample appends a bounding box keyframe to a surfer's track
func (s *ServiceImpl) AddBBoxSample(ctx context.Context, uuid string, surferID int, t float64, box annotation.BBox) error {
	return s.mutate(ctx, uuid, func(session *annotation.Session) error {
		return session.AddBBoxSample(surferID, t, box)
	})
}

// BoxAt returns a surfer's interpolated bounding box at the timestamp
func (s *ServiceImpl) BoxAt(ctx context.Context, uuid string, surferID int, t float64) (*annotation.BBox, error) {
	session, err := s.GetSession(ctx, uuid)
	if err != nil {
		return nil, err
	}
	return session.BoxAt(surferID, t)
}

// SurfersAt returns the surfers whose rides span the timestamp
func (s *ServiceImpl) SurfersAt(ctx context.Context, uuid string, t float64) ([]*annotation.Surfer, error) {
	session, err := s.GetSession(ctx, uuid)
	if err != nil {
		return nil, err
	}
	return session.SurfersAt(t), nil
}

// mutate applies an edit to the live session and persists the result
func (s *ServiceImpl) mutate(ctx context.Context, uuid string, fn func(*annotation.Session) error) error {
	session, err := s.GetSession(ctx, uuid)
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		return err
	}
	return s.persist(ctx, session)
}

func (s *ServiceImpl) persist(ctx context.Context, session *annotation.Session) error {
	model, err := modelFromSession(session)
	if err != nil {
		return err
	}
	if err := s.repository.SaveSnapshot(ctx, model); err != nil {
		return fmt.Errorf("persisting session %s: %w", session.UUID(), err)
	}
	return nil
}

func (s *ServiceImpl) resolveVideoPath(videoFile string) string {
	if filepath.IsAbs(videoFile) {
		return videoFile
	}
	return filepath.Join(s.videoDir, videoFile)
}
