package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfscribe/annotator-api/internal/models"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name    string
		dbPath  string
		wantErr bool
	}{
		{
			name:   "in-memory database",
			dbPath: ":memory:",
		},
		{
			name:   "file database",
			dbPath: filepath.Join(t.TempDir(), "annotations.db"),
		},
		{
			name:   "file database with missing parent directory",
			dbPath: filepath.Join(t.TempDir(), "nested", "dir", "annotations.db"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.dbPath, false)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, conn)
			assert.NotNil(t, conn.DB)

			conn.Close()
		})
	}
}

func TestHealthCheck(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, conn.HealthCheck())

	var uninitialized *DB
	assert.Error(t, uninitialized.HealthCheck())
}

func TestMigrate(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Migrate())

	// Migrated schema accepts a session with surfers
	start := 10.5
	session := models.Session{
		VideoFile:    "drone_run_01.mp4",
		Duration:     120.0,
		FPS:          29.97,
		FrameWidth:   1920,
		FrameHeight:  1080,
		NextSurferID: 2,
		Surfers: []models.Surfer{
			{SurferID: 1, StartTime: &start},
		},
	}
	require.NoError(t, conn.Create(&session).Error)
	assert.NotEmpty(t, session.UUID)

	var loaded models.Session
	require.NoError(t, conn.Preload("Surfers").First(&loaded, "uuid = ?", session.UUID).Error)
	require.Len(t, loaded.Surfers, 1)
	assert.Equal(t, 1, loaded.Surfers[0].SurferID)
	require.NotNil(t, loaded.Surfers[0].StartTime)
	assert.Equal(t, 10.5, *loaded.Surfers[0].StartTime)
}

func TestClose(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)

	assert.NoError(t, conn.Close())
	assert.Error(t, conn.HealthCheck())
}
