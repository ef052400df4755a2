package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ffprobeOutput represents the JSON structure returned by ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
}

// Probe extracts metadata from a video file using ffprobe
func (f *FFmpeg) Probe(ctx context.Context, filePath string) (*VideoMetadata, error) {
	if !SupportedContainer(filePath) {
		return nil, NewProcessingError("metadata_extraction", filePath, ErrInvalidVideoFile,
			"unsupported container, expected mp4/mov/avi/mkv/wmv")
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	args := []string{
		"-v", "quiet",
		"-show_format",
		"-show_streams",
		"-select_streams", "v:0", // Select first video stream
		"-of", "json",
		filePath,
	}

	cmd := exec.CommandContext(ctx, f.ffprobePath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, NewProcessingError("metadata_extraction", filePath, err, stderr.String())
	}

	var output ffprobeOutput
	if err := json.Unmarshal(stdout.Bytes(), &output); err != nil {
		return nil, NewProcessingError("metadata_parsing", filePath, err, "")
	}

	return parseMetadata(&output, filePath)
}

// parseMetadata converts ffprobe output to VideoMetadata
func parseMetadata(output *ffprobeOutput, filePath string) (*VideoMetadata, error) {
	if len(output.Streams) == 0 {
		return nil, NewProcessingError("metadata_extraction", filePath, ErrNoVideoStream, "")
	}

	metadata := &VideoMetadata{Format: output.Format.FormatName}

	// Parse container duration
	if output.Format.Duration != "" {
		if duration, err := strconv.ParseFloat(output.Format.Duration, 64); err == nil {
			metadata.Duration = duration
		}
	}

	// Parse file size
	if output.Format.Size != "" {
		if size, err := strconv.ParseInt(output.Format.Size, 10, 64); err == nil {
			metadata.Size = size
		}
	}

	stream := output.Streams[0]
	metadata.Codec = stream.CodecName
	metadata.Width = stream.Width
	metadata.Height = stream.Height

	// Prefer the stream duration when the container lacks one
	if metadata.Duration == 0 && stream.Duration != "" {
		if duration, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
			metadata.Duration = duration
		}
	}

	// ffprobe reports frame rates as rational strings like "30000/1001"
	metadata.FPS = parseFrameRate(stream.AvgFrameRate)
	if metadata.FPS == 0 {
		metadata.FPS = parseFrameRate(stream.RFrameRate)
	}

	if stream.NbFrames != "" {
		if frames, err := strconv.ParseInt(stream.NbFrames, 10, 64); err == nil {
			metadata.FrameCount = frames
		}
	}
	if metadata.FrameCount == 0 && metadata.FPS > 0 {
		metadata.FrameCount = int64(metadata.Duration * metadata.FPS)
	}

	if metadata.Duration <= 0 || metadata.FPS <= 0 || metadata.Width <= 0 || metadata.Height <= 0 {
		return nil, NewProcessingError("metadata_extraction", filePath, ErrInvalidVideoFile,
			fmt.Sprintf("incomplete metadata: duration=%g fps=%g size=%dx%d",
				metadata.Duration, metadata.FPS, metadata.Width, metadata.Height))
	}

	return metadata, nil
}

func parseFrameRate(rate string) float64 {
	if rate == "" || rate == "0/0" {
		return 0
	}
	parts := strings.SplitN(rate, "/", 2)
	if len(parts) == 1 {
		fps, _ := strconv.ParseFloat(parts[0], 64)
		return fps
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
