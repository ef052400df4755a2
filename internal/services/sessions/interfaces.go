package sessions

import (
	"context"
	"io"

	"github.com/surfscribe/annotator-api/internal/annotation"
	"github.com/surfscribe/annotator-api/internal/models"
	"github.com/surfscribe/annotator-api/pkg/ffmpeg"
)

// Repository defines the interface for session persistence
type Repository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByUUID(ctx context.Context, uuid string) (*models.Session, error)
	GetSessionByVideoFile(ctx context.Context, videoFile string) (*models.Session, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
	SaveSnapshot(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, uuid string) error
}

// Prober defines the interface for video metadata probing and frame extraction
type Prober interface {
	Probe(ctx context.Context, filePath string) (*ffmpeg.VideoMetadata, error)
	FrameAt(ctx context.Context, filePath string, timestamp float64) ([]byte, error)
}

// Service defines the business logic interface for annotation sessions.
// Mutating operations persist the updated session before returning.
type Service interface {
	// Session lifecycle
	CreateSession(ctx context.Context, videoFile string) (*annotation.Session, error)
	GetSession(ctx context.Context, uuid string) (*annotation.Session, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
	DeleteSession(ctx context.Context, uuid string) error

	// Aggregates and serialization
	Statistics(ctx context.Context, uuid string) (annotation.Statistics, error)
	ExportJSON(ctx context.Context, uuid string, w io.Writer) error
	ExportCSV(ctx context.Context, uuid string, w io.Writer) error
	ImportSession(ctx context.Context, r io.Reader) (*annotation.Session, error)

	// Video access
	FrameAt(ctx context.Context, uuid string, timestamp float64) ([]byte, error)

	// Surfer annotations
	AddSurfer(ctx context.Context, uuid string, startTime *float64) (int, error)
	DeleteSurfer(ctx context.Context, uuid string, surferID int) error
	SetStartTime(ctx context.Context, uuid string, surferID int, t float64) error
	SetEndTime(ctx context.Context, uuid string, surferID int, t float64) error
	SetBBox(ctx context.Context, uuid string, surferID int, box annotation.BBox) error
	SetQuality(ctx context.Context, uuid string, surferID int, quality annotation.Quality) error
	SetActive(ctx context.Context, uuid string, surferID int) error
	ClearActive(ctx context.Context, uuid string) error
	AddBBoxSample(ctx context.Context, uuid string, surferID int, t float64, box annotation.BBox) error
	BoxAt(ctx context.Context, uuid string, surferID int, t float64) (*annotation.BBox, error)
	SurfersAt(ctx context.Context, uuid string, t float64) ([]*annotation.Surfer, error)
}
