package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/surfscribe/annotator-api/pkg/config"
	"github.com/surfscribe/annotator-api/pkg/ffmpeg"
)

// probeCmd represents the probe command
var probeCmd = &cobra.Command{
	Use:   "probe [video file]",
	Short: "Probe a video file's metadata",
	Long: `Run ffprobe against a video file and print the metadata the annotator
validates against: duration, frame rate, and resolution.

Relative paths are resolved against the configured video directory.

Example:
  annotator probe drone_run_01.mp4
  annotator probe /footage/2026-08-30/drone_run_01.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Probe.VideoDir, path)
	}

	prober := ffmpeg.New(cfg.Probe.FFmpegPath, cfg.Probe.FFprobePath, cfg.Probe.Timeout)
	meta, err := prober.Probe(context.Background(), path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:        %s\n", path)
	fmt.Fprintf(out, "Container:   %s\n", meta.Format)
	fmt.Fprintf(out, "Codec:       %s\n", meta.Codec)
	fmt.Fprintf(out, "Duration:    %.3f s\n", meta.Duration)
	fmt.Fprintf(out, "Frame rate:  %.3f fps\n", meta.FPS)
	fmt.Fprintf(out, "Resolution:  %dx%d\n", meta.Width, meta.Height)
	fmt.Fprintf(out, "Frames:      %d\n", meta.FrameCount)
	fmt.Fprintf(out, "Size:        %d bytes\n", meta.Size)
	return nil
}
