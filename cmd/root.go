package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/surfscribe/annotator-api/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "annotator",
	Short: "Surf Ride Annotator API server",
	Long: `Surf Ride Annotator - annotation tooling for surf session videos

The annotator manages per-video annotation sessions: each surfer gets a
ride time range, a bounding box, and a quality rating, validated against
the probed video metadata.

Features:
  • One annotation session per session video
  • Ride time ranges, bounding boxes, and quality ratings
  • Bounding box keyframe tracks with interpolation
  • JSON export/import with strict validation, CSV export
  • Frame extraction for annotation previews`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose database logging")
}

// loadConfig loads the configuration when a command needs it
func loadConfig() {
	// Version and help never need config
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
