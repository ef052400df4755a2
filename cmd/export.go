package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/surfscribe/annotator-api/internal/annotation"
	"github.com/surfscribe/annotator-api/internal/database"
	"github.com/surfscribe/annotator-api/internal/services/sessions"
	"github.com/surfscribe/annotator-api/pkg/config"
	"github.com/surfscribe/annotator-api/pkg/ffmpeg"
)

var (
	exportSession string
	exportFormat  string
	exportOut     string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a session's annotations to a file",
	Long: `Write a session's annotations to disk as JSON or CSV.

Without --out the file lands in the configured export directory, named
after the video file ("drone_run_01.mp4" becomes
"drone_run_01_annotations.json"). When backups are enabled an existing
file is copied aside with a timestamp suffix before being overwritten.

Example:
  annotator export --session 9f2c1e44-6f09-4f0a-8f2d-1be6f2f1a001
  annotator export --session 9f2c1e44-... --format csv --out ./annotations.csv`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportSession, "session", "", "session UUID (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "export format: json or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (defaults to the export directory)")
	_ = exportCmd.MarkFlagRequired("session")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format := strings.ToLower(exportFormat)
	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown export format %q, expected json or csv", exportFormat)
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	prober := ffmpeg.New(cfg.Probe.FFmpegPath, cfg.Probe.FFprobePath, cfg.Probe.Timeout)
	service := sessions.NewService(sessions.NewRepository(db.DB), prober, cfg.Probe.VideoDir)

	ctx := context.Background()
	session, err := service.GetSession(ctx, exportSession)
	if err != nil {
		return err
	}

	outPath := exportOut
	if outPath == "" {
		name := annotation.Filename(session.VideoFile())
		if format == "csv" {
			name = strings.TrimSuffix(name, ".json") + ".csv"
		}
		outPath = filepath.Join(cfg.Export.Dir, name)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	if cfg.Export.BackupExisting {
		backup, err := annotation.BackupFile(outPath)
		if err != nil {
			return fmt.Errorf("backing up existing export: %w", err)
		}
		if backup != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Backed up existing export to %s\n", backup)
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	switch format {
	case "json":
		err = service.ExportJSON(ctx, exportSession, f)
	case "csv":
		err = service.ExportCSV(ctx, exportSession, f)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d surfer(s) to %s\n", session.Len(), outPath)
	return nil
}
