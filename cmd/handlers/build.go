package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shinkeireview/internal/config"
	"shinkeireview/internal/logger"
	"shinkeireview/internal/render"
	"shinkeireview/internal/store"
)

// NewBuildCmd creates the site build command.
func NewBuildCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Rebuild the static site from stored records without fetching",
		Long: `Regenerate every page of the static site from the daily, disease, and
narrative records already on disk. No network calls are made.

By default the newest stored daily record is treated as the latest day;
pass --date to pin a specific one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runBuild(date); err != nil {
				logger.Error("Site build failed", err)
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "daily record to treat as latest (YYYY-MM-DD)")

	return cmd
}

func runBuild(date string) error {
	cfg := config.Get()

	tax, err := config.LoadTaxonomy(cfg.Pipeline.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}

	st := store.New(cfg.Pipeline.DataDir)
	renderer, err := render.New(cfg.Site.OutputDir, cfg.Site.RecentDates, tax, st)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := renderer.BuildSite(date); err != nil {
		return err
	}

	logger.Info("Site rebuilt", "output_dir", cfg.Site.OutputDir)
	return nil
}
