package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/surfscribe/annotator-api/internal/annotation"
	"github.com/surfscribe/annotator-api/internal/models"
	"github.com/surfscribe/annotator-api/pkg/ffmpeg"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockRepository) GetSessionByUUID(ctx context.Context, uuid string) (*models.Session, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockRepository) GetSessionByVideoFile(ctx context.Context, videoFile string) (*models.Session, error) {
	args := m.Called(ctx, videoFile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockRepository) ListSessions(ctx context.Context) ([]models.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Session), args.Error(1)
}

func (m *MockRepository) SaveSnapshot(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockRepository) DeleteSession(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

// MockProber is a mock implementation of the Prober interface
type MockProber struct {
	mock.Mock
}

func (m *MockProber) Probe(ctx context.Context, filePath string) (*ffmpeg.VideoMetadata, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ffmpeg.VideoMetadata), args.Error(1)
}

func (m *MockProber) FrameAt(ctx context.Context, filePath string, timestamp float64) ([]byte, error) {
	args := m.Called(ctx, filePath, timestamp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func testVideoDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("fake video"), 0644))
	}
	return dir
}

func testProbeMetadata() *ffmpeg.VideoMetadata {
	return &ffmpeg.VideoMetadata{
		Duration: 120.0,
		FPS:      29.97,
		Width:    1920,
		Height:   1080,
	}
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("probes video and persists empty session", func(t *testing.T) {
		dir := testVideoDir(t, "drone_run_01.mp4")
		mockRepo := new(MockRepository)
		mockProber := new(MockProber)
		service := NewService(mockRepo, mockProber, dir)

		mockRepo.On("GetSessionByVideoFile", ctx, "drone_run_01.mp4").Return(nil, ErrSessionNotFound)
		mockProber.On("Probe", ctx, filepath.Join(dir, "drone_run_01.mp4")).Return(testProbeMetadata(), nil)
		mockRepo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).
			Run(func(args mock.Arguments) {
				m := args.Get(1).(*models.Session)
				assert.Equal(t, "drone_run_01.mp4", m.VideoFile)
				assert.Equal(t, 120.0, m.Duration)
				assert.Equal(t, 1920, m.FrameWidth)
				assert.Equal(t, 1, m.NextSurferID)
				assert.Empty(t, m.Surfers)
			}).
			Return(nil)

		session, err := service.CreateSession(ctx, "drone_run_01.mp4")
		require.NoError(t, err)
		assert.NotEmpty(t, session.UUID())
		assert.Equal(t, 0, session.Len())

		mockRepo.AssertExpectations(t)
		mockProber.AssertExpectations(t)
	})

	t.Run("rejects unsupported container without probing", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProber := new(MockProber)
		service := NewService(mockRepo, mockProber, t.TempDir())

		_, err := service.CreateSession(ctx, "clip.webm")
		require.Error(t, err)
		assert.ErrorIs(t, err, ffmpeg.ErrInvalidVideoFile)
		mockProber.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate session for video", func(t *testing.T) {
		dir := testVideoDir(t, "drone_run_01.mp4")
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, new(MockProber), dir)

		mockRepo.On("GetSessionByVideoFile", ctx, "drone_run_01.mp4").
			Return(&models.Session{UUID: "existing", VideoFile: "drone_run_01.mp4"}, nil)

		_, err := service.CreateSession(ctx, "drone_run_01.mp4")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSessionExists)
	})

	t.Run("rejects missing video file", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, new(MockProber), t.TempDir())

		mockRepo.On("GetSessionByVideoFile", ctx, "gone.mp4").Return(nil, ErrSessionNotFound)

		_, err := service.CreateSession(ctx, "gone.mp4")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrVideoNotFound)
	})
}

func TestGetSessionLoadsFromRepository(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockProber), t.TempDir())

	start := 10.5
	end := 22.0
	model := &models.Session{
		UUID:         "abc-123",
		VideoFile:    "drone_run_01.mp4",
		Duration:     120.0,
		FPS:          29.97,
		FrameWidth:   1920,
		FrameHeight:  1080,
		NextSurferID: 2,
		Surfers: []models.Surfer{
			{SurferID: 1, StartTime: &start, EndTime: &end, Quality: "good"},
		},
	}

	// Only the first call hits the repository; after that the live cache serves
	mockRepo.On("GetSessionByUUID", ctx, "abc-123").Return(model, nil).Once()

	session, err := service.GetSession(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", session.UUID())
	assert.Equal(t, 1, session.Len())

	again, err := service.GetSession(ctx, "abc-123")
	require.NoError(t, err)
	assert.Same(t, session, again)

	mockRepo.AssertExpectations(t)
}

func TestGetSessionNotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockProber), t.TempDir())

	mockRepo.On("GetSessionByUUID", ctx, "missing").Return(nil, ErrSessionNotFound)

	_, err := service.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSurferMutationsPersistSnapshots(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockProber), t.TempDir())

	model := &models.Session{
		UUID:         "abc-123",
		VideoFile:    "drone_run_01.mp4",
		Duration:     120.0,
		FPS:          29.97,
		FrameWidth:   1920,
		FrameHeight:  1080,
		NextSurferID: 1,
	}
	mockRepo.On("GetSessionByUUID", ctx, "abc-123").Return(model, nil).Once()
	mockRepo.On("SaveSnapshot", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	id, err := service.AddSurfer(ctx, "abc-123", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	require.NoError(t, service.SetStartTime(ctx, "abc-123", id, 10.2))
	require.NoError(t, service.SetEndTime(ctx, "abc-123", id, 25.8))
	require.NoError(t, service.SetBBox(ctx, "abc-123", id, annotation.BBox{X: 100, Y: 150, Width: 200, Height: 300}))
	require.NoError(t, service.SetQuality(ctx, "abc-123", id, annotation.QualityGood))
	require.NoError(t, service.SetActive(ctx, "abc-123", id))

	// One snapshot per successful mutation
	mockRepo.AssertNumberOfCalls(t, "SaveSnapshot", 6)

	session, err := service.GetSession(ctx, "abc-123")
	require.NoError(t, err)
	surfer, err := session.Surfer(id)
	require.NoError(t, err)
	assert.InDelta(t, 15.6, *surfer.Duration(), 1e-9)
	assert.Equal(t, annotation.QualityGood, surfer.Quality)
	assert.True(t, surfer.Active)
}

func TestFailedMutationDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockProber), t.TempDir())

	model := &models.Session{
		UUID:         "abc-123",
		VideoFile:    "drone_run_01.mp4",
		Duration:     120.0,
		FPS:          29.97,
		FrameWidth:   1920,
		FrameHeight:  1080,
		NextSurferID: 1,
	}
	mockRepo.On("GetSessionByUUID", ctx, "abc-123").Return(model, nil).Once()

	err := service.SetStartTime(ctx, "abc-123", 99, 10.0)
	require.Error(t, err)
	assert.ErrorIs(t, err, annotation.ErrNotFound)
	mockRepo.AssertNotCalled(t, "SaveSnapshot", mock.Anything, mock.Anything)
}

func TestFrameAt(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to prober within duration", func(t *testing.T) {
		dir := t.TempDir()
		mockRepo := new(MockRepository)
		mockProber := new(MockProber)
		service := NewService(mockRepo, mockProber, dir)

		model := &models.Session{
			UUID: "abc-123", VideoFile: "drone_run_01.mp4",
			Duration: 120.0, FPS: 29.97, FrameWidth: 1920, FrameHeight: 1080, NextSurferID: 1,
		}
		mockRepo.On("GetSessionByUUID", ctx, "abc-123").Return(model, nil).Once()
		mockProber.On("FrameAt", ctx, filepath.Join(dir, "drone_run_01.mp4"), 30.5).
			Return([]byte("jpeg"), nil)

		frame, err := service.FrameAt(ctx, "abc-123", 30.5)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), frame)
	})

	t.Run("rejects timestamp past the end", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProber := new(MockProber)
		service := NewService(mockRepo, mockProber, t.TempDir())

		model := &models.Session{
			UUID: "abc-123", VideoFile: "drone_run_01.mp4",
			Duration: 120.0, FPS: 29.97, FrameWidth: 1920, FrameHeight: 1080, NextSurferID: 1,
		}
		mockRepo.On("GetSessionByUUID", ctx, "abc-123").Return(model, nil).Once()

		_, err := service.FrameAt(ctx, "abc-123", 500.0)
		require.Error(t, err)
		assert.ErrorIs(t, err, ffmpeg.ErrTimestampOutOfFile)
		mockProber.AssertNotCalled(t, "FrameAt", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestImportSession(t *testing.T) {
	ctx := context.Background()

	doc := map[string]any{
		"video_file":   "drone_run_01.mp4",
		"duration":     120.0,
		"fps":          29.97,
		"frame_width":  1920,
		"frame_height": 1080,
		"surfer_count": 1,
		"surfers": []map[string]any{
			{
				"id":         1,
				"start_time": 10.5,
				"end_time":   22.0,
				"quality":    "good",
				"created":    "2026-08-30T10:00:00Z",
			},
		},
	}
	payload, err := json.Marshal(doc)
	require.NoError(t, err)

	t.Run("stores validated document as new session", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, new(MockProber), t.TempDir())

		mockRepo.On("GetSessionByVideoFile", ctx, "drone_run_01.mp4").Return(nil, ErrSessionNotFound)
		mockRepo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

		session, err := service.ImportSession(ctx, bytes.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, 1, session.Len())
		mockRepo.AssertExpectations(t)
	})

	t.Run("replaces existing session for the same video", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, new(MockProber), t.TempDir())

		mockRepo.On("GetSessionByVideoFile", ctx, "drone_run_01.mp4").
			Return(&models.Session{UUID: "old-uuid", VideoFile: "drone_run_01.mp4"}, nil)
		mockRepo.On("DeleteSession", ctx, "old-uuid").Return(nil)
		mockRepo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

		_, err := service.ImportSession(ctx, bytes.NewReader(payload))
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects corrupt document without touching storage", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, new(MockProber), t.TempDir())

		corrupt := strings.Replace(string(payload), `"good"`, `"terrible"`, 1)
		_, err := service.ImportSession(ctx, strings.NewReader(corrupt))
		require.Error(t, err)
		assert.ErrorIs(t, err, annotation.ErrCorruptData)
		mockRepo.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
	})
}

func TestExportRoundTripThroughService(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockProber), t.TempDir())

	start := 10.5
	end := 22.0
	model := &models.Session{
		UUID:         "abc-123",
		VideoFile:    "drone_run_01.mp4",
		Duration:     120.0,
		FPS:          29.97,
		FrameWidth:   1920,
		FrameHeight:  1080,
		NextSurferID: 2,
		Surfers: []models.Surfer{
			{SurferID: 1, StartTime: &start, EndTime: &end, Quality: "excellent"},
		},
	}
	mockRepo.On("GetSessionByUUID", ctx, "abc-123").Return(model, nil).Once()

	var buf bytes.Buffer
	require.NoError(t, service.ExportJSON(ctx, "abc-123", &buf))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "drone_run_01.mp4", doc["video_file"])
	assert.Equal(t, float64(1), doc["surfer_count"])

	var csv bytes.Buffer
	require.NoError(t, service.ExportCSV(ctx, "abc-123", &csv))
	assert.Contains(t, csv.String(), "video_file,surfer_id,start_time")
	assert.Contains(t, csv.String(), "excellent")
}

func TestDeleteSessionEvictsLiveCache(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockProber), t.TempDir())

	model := &models.Session{
		UUID: "abc-123", VideoFile: "drone_run_01.mp4",
		Duration: 120.0, FPS: 29.97, FrameWidth: 1920, FrameHeight: 1080, NextSurferID: 1,
	}
	mockRepo.On("GetSessionByUUID", ctx, "abc-123").Return(model, nil).Once()
	_, err := service.GetSession(ctx, "abc-123")
	require.NoError(t, err)

	mockRepo.On("DeleteSession", ctx, "abc-123").Return(nil)
	require.NoError(t, service.DeleteSession(ctx, "abc-123"))

	// Next access goes back to the repository
	mockRepo.On("GetSessionByUUID", ctx, "abc-123").Return(nil, ErrSessionNotFound).Once()
	_, err = service.GetSession(ctx, "abc-123")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
