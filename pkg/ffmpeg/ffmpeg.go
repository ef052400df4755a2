package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// FFmpeg wraps ffmpeg and ffprobe functionality for video probing and
// frame extraction. It is the concrete video source behind the annotation
// service; decoding beyond single-frame grabs is out of scope.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// New creates a new FFmpeg instance
func New(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}
	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}
	return nil
}

// FrameAt extracts a single JPEG frame at the given timestamp. The
// timestamp is expected to be validated against the probed duration by the
// caller; ffmpeg itself rejects seeks past the end of the file.
func (f *FFmpeg) FrameAt(ctx context.Context, filePath string, timestamp float64) ([]byte, error) {
	if timestamp < 0 {
		return nil, NewProcessingError("frame_extraction", filePath, ErrTimestampOutOfFile,
			fmt.Sprintf("negative timestamp %g", timestamp))
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	args := frameArgs(filePath, timestamp)
	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, NewProcessingError("frame_extraction", filePath, err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, NewProcessingError("frame_extraction", filePath, ErrTimestampOutOfFile, stderr.String())
	}

	return stdout.Bytes(), nil
}

// frameArgs builds the ffmpeg argument list for a single-frame grab.
// Seeking before the input is fast; accuracy is within one GOP, which is
// fine for an annotation preview.
func frameArgs(filePath string, timestamp float64) []string {
	return []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(timestamp, 'f', 3, 64),
		"-i", filePath,
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	}
}
