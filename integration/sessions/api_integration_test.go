package sessions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/surfscribe/annotator-api/api"
	"github.com/surfscribe/annotator-api/api/types"
	"github.com/surfscribe/annotator-api/internal/database"
	"github.com/surfscribe/annotator-api/internal/models"
	sessionsService "github.com/surfscribe/annotator-api/internal/services/sessions"
	"github.com/surfscribe/annotator-api/pkg/config"
	"github.com/surfscribe/annotator-api/pkg/ffmpeg"
)

// stubProber returns fixed metadata and frames without running ffmpeg
type stubProber struct {
	meta  *ffmpeg.VideoMetadata
	frame []byte
}

func (p *stubProber) Probe(ctx context.Context, filePath string) (*ffmpeg.VideoMetadata, error) {
	return p.meta, nil
}

func (p *stubProber) FrameAt(ctx context.Context, filePath string, timestamp float64) ([]byte, error) {
	return p.frame, nil
}

type IntegrationTestSuite struct {
	t      *testing.T
	db     *gorm.DB
	deps   *types.Dependencies
	router *gin.Engine
}

func setupIntegrationTestSuite(t *testing.T) *IntegrationTestSuite {
	gin.SetMode(gin.TestMode)

	require.NoError(t, config.Init(), "Failed to initialize config")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.AutoMigrate(&models.Session{}, &models.Surfer{}), "Failed to migrate test database")

	videoDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(videoDir, "dawn_patrol.mp4"), []byte("fake video"), 0644))

	prober := &stubProber{
		meta:  &ffmpeg.VideoMetadata{Duration: 90.0, FPS: 30.0, Width: 1920, Height: 1080},
		frame: []byte("jpeg-bytes"),
	}

	deps := &types.Dependencies{
		DB: &database.DB{DB: db},
		SessionService: sessionsService.NewService(
			sessionsService.NewRepository(db), prober, videoDir),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	rateLimiters := &sync.Map{}
	cleanupStop := make(chan struct{})
	cleanupInitialized := &sync.Once{}

	err = api.RegisterRoutes(router, deps, rateLimiters, cleanupStop, cleanupInitialized)
	require.NoError(t, err, "Failed to register routes")

	return &IntegrationTestSuite{t: t, db: db, deps: deps, router: router}
}

func (suite *IntegrationTestSuite) do(method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(suite.t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func TestFullAnnotationWorkflow(t *testing.T) {
	suite := setupIntegrationTestSuite(t)

	// Step 1: Create a session for the video
	w := suite.do(http.MethodPost, "/api/v1/sessions", map[string]interface{}{
		"video_file": "dawn_patrol.mp4",
	})
	require.Equal(t, http.StatusCreated, w.Code, "Failed to create session")

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	sessionUUID := created["uuid"].(string)
	require.NotEmpty(t, sessionUUID, "Created session should have a UUID")
	assert.Equal(t, "dawn_patrol.mp4", created["video_file"])
	assert.Equal(t, 90.0, created["duration"])

	base := fmt.Sprintf("/api/v1/sessions/%s", sessionUUID)

	// Step 2: Add a surfer starting at 10.5s
	w = suite.do(http.MethodPost, base+"/surfers", map[string]interface{}{
		"start_time": 10.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, "Failed to add surfer")

	var addResponse map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &addResponse))
	surferID := int(addResponse["id"].(float64))
	assert.Equal(t, 1, surferID, "First surfer should get id 1")

	surferBase := fmt.Sprintf("%s/surfers/%d", base, surferID)

	// Step 3: Finish the ride
	w = suite.do(http.MethodPut, surferBase+"/end", map[string]interface{}{"time": 42.0})
	require.Equal(t, http.StatusOK, w.Code, "Failed to set end time")

	w = suite.do(http.MethodPut, surferBase+"/bbox", map[string]interface{}{
		"bbox": []float64{640, 360, 120, 180},
	})
	require.Equal(t, http.StatusOK, w.Code, "Failed to set bounding box")

	w = suite.do(http.MethodPut, surferBase+"/quality", map[string]interface{}{"quality": "good"})
	require.Equal(t, http.StatusOK, w.Code, "Failed to set quality")

	var surfer map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &surfer))
	assert.Equal(t, 10.5, surfer["start_time"])
	assert.Equal(t, 42.0, surfer["end_time"])
	assert.Equal(t, 31.5, surfer["duration"])
	assert.Equal(t, "good", surfer["quality"])

	// Step 4: Statistics reflect the completed ride
	w = suite.do(http.MethodGet, base+"/statistics", nil)
	require.Equal(t, http.StatusOK, w.Code, "Failed to get statistics")

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1.0, stats["total_surfers"])
	assert.Equal(t, 1.0, stats["completed_surfers"])
	assert.Equal(t, 31.5, stats["avg_ride_duration"])
	assert.Equal(t, 1.0, stats["quality_distribution"].(map[string]interface{})["good"])

	// Step 5: Export, wipe, and re-import the annotations
	w = suite.do(http.MethodGet, base+"/export?format=json", nil)
	require.Equal(t, http.StatusOK, w.Code, "Failed to export session")
	exported := w.Body.Bytes()

	w = suite.do(http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, w.Code, "Failed to delete session")

	w = suite.do(http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "Deleted session should be gone")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/import", bytes.NewBuffer(exported))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, "Failed to import session")

	var imported map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &imported))
	importedUUID := imported["uuid"].(string)
	assert.NotEqual(t, sessionUUID, importedUUID, "Import should mint a new session UUID")

	surferList := imported["surfers"].([]interface{})
	require.Len(t, surferList, 1, "Imported session should keep its surfer")
	restored := surferList[0].(map[string]interface{})
	assert.Equal(t, 10.5, restored["start_time"])
	assert.Equal(t, 42.0, restored["end_time"])
	assert.Equal(t, "good", restored["quality"])

	// Step 6: Imported session survives a cold read from the database
	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/sessions/%s", importedUUID), nil)
	require.Equal(t, http.StatusOK, w.Code, "Failed to read imported session")
}

func TestSessionListAndHealth(t *testing.T) {
	suite := setupIntegrationTestSuite(t)

	w := suite.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, 0.0, listing["count"])

	w = suite.do(http.MethodPost, "/api/v1/sessions", map[string]interface{}{
		"video_file": "dawn_patrol.mp4",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, 1.0, listing["count"])

	sessions := listing["sessions"].([]interface{})
	require.Len(t, sessions, 1)
	assert.Equal(t, "dawn_patrol.mp4", sessions[0].(map[string]interface{})["video_file"])
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	suite := setupIntegrationTestSuite(t)

	w := suite.do(http.MethodGet, "/api/v1/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "error", response["status"])
	assert.Equal(t, "/api/v1/nope", response["path"])
}
