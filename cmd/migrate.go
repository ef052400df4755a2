package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/surfscribe/annotator-api/internal/database"
	"github.com/surfscribe/annotator-api/internal/models"
	"github.com/surfscribe/annotator-api/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Apply the annotation schema to the configured database.

Creates or updates the sessions and surfers tables via GORM auto
migration. Safe to run repeatedly; existing data is preserved.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().Bool("status", false, "show table status instead of migrating")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	status, _ := cmd.Flags().GetBool("status")
	if status {
		return printMigrationStatus(cmd, db)
	}

	if err := db.Migrate(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database schema is up to date at %s\n", cfg.Database.Path)
	return nil
}

func printMigrationStatus(cmd *cobra.Command, db *database.DB) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database Migration Status")

	for _, model := range []any{&models.Session{}, &models.Surfer{}} {
		exists := db.DB.Migrator().HasTable(model)
		name := ""
		switch model.(type) {
		case *models.Session:
			name = models.Session{}.TableName()
		case *models.Surfer:
			name = models.Surfer{}.TableName()
		}
		state := "missing"
		if exists {
			state = "present"
		}
		fmt.Fprintf(out, "  %-10s %s\n", name, state)
	}
	return nil
}
