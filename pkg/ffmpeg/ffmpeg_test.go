package ffmpeg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedContainer(t *testing.T) {
	tests := []struct {
		path      string
		supported bool
	}{
		{"session.mp4", true},
		{"SESSION.MP4", true},
		{"/videos/drone_run_01.mov", true},
		{"clip.avi", true},
		{"clip.mkv", true},
		{"clip.wmv", true},
		{"clip.webm", false},
		{"clip.flv", false},
		{"notes.txt", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.supported, SupportedContainer(tt.path))
		})
	}
}

func TestFrameArgs(t *testing.T) {
	args := frameArgs("/videos/session.mp4", 12.5)

	assert.Equal(t, []string{
		"-v", "error",
		"-ss", "12.500",
		"-i", "/videos/session.mp4",
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	}, args)
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name string
		rate string
		want float64
	}{
		{"ntsc fraction", "30000/1001", 29.97002997002997},
		{"integer fraction", "25/1", 25.0},
		{"plain number", "24", 24.0},
		{"zero over zero", "0/0", 0},
		{"empty", "", 0},
		{"zero denominator", "30/0", 0},
		{"garbage", "abc/def", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, parseFrameRate(tt.rate), 1e-9)
		})
	}
}

func TestParseMetadata(t *testing.T) {
	t.Run("complete stream", func(t *testing.T) {
		output := &ffprobeOutput{}
		output.Format.Duration = "120.5"
		output.Format.Size = "10485760"
		output.Format.FormatName = "mov,mp4,m4a,3gp,3g2,mj2"
		output.Streams = append(output.Streams, ffprobeStream{
			CodecType:    "video",
			CodecName:    "h264",
			Width:        1920,
			Height:       1080,
			AvgFrameRate: "30000/1001",
			RFrameRate:   "30000/1001",
			NbFrames:     "3612",
		})

		meta, err := parseMetadata(output, "session.mp4")
		require.NoError(t, err)
		assert.InDelta(t, 120.5, meta.Duration, 1e-9)
		assert.InDelta(t, 29.97, meta.FPS, 0.01)
		assert.Equal(t, 1920, meta.Width)
		assert.Equal(t, 1080, meta.Height)
		assert.Equal(t, int64(3612), meta.FrameCount)
		assert.Equal(t, "h264", meta.Codec)
		assert.Equal(t, int64(10485760), meta.Size)
	})

	t.Run("no video stream", func(t *testing.T) {
		output := &ffprobeOutput{}
		output.Format.Duration = "120.5"

		_, err := parseMetadata(output, "session.mp4")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoVideoStream)
	})

	t.Run("missing dimensions", func(t *testing.T) {
		output := &ffprobeOutput{}
		output.Format.Duration = "120.5"
		output.Streams = append(output.Streams, ffprobeStream{
			CodecType:    "video",
			CodecName:    "h264",
			AvgFrameRate: "25/1",
		})

		_, err := parseMetadata(output, "session.mp4")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidVideoFile)
	})
}

func TestProbeRejectsUnsupportedContainer(t *testing.T) {
	f := New("ffmpeg", "ffprobe", 0)

	_, err := f.Probe(context.Background(), "clip.webm")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidVideoFile)

	var procErr *ProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "metadata_extraction", procErr.Operation)
	assert.Equal(t, "clip.webm", procErr.File)
}
