package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shinkeireview/internal/config"
	"shinkeireview/internal/llm"
	"shinkeireview/internal/logger"
	"shinkeireview/internal/pipeline"
	"shinkeireview/internal/render"
	"shinkeireview/internal/sources"
	"shinkeireview/internal/store"
)

// NewRunCmd creates the daily run command.
func NewRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daily pipeline: fetch, classify, summarize, and rebuild the site",
		Long: `Fetch yesterday's neurology articles from PubMed and Europe PMC, keep
those from allow-listed journals, classify them by disease and section,
generate Japanese summaries, persist the daily record, and rebuild the
static site.

Summaries are cached per article, so re-running the same day only pays
for articles not seen before. Set SKIP_SUMMARY=1 to run without calling
the generation service.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runDaily(cmd.Context()); err != nil {
				logger.Error("Daily run failed", err)
				os.Exit(1)
			}
			return nil
		},
	}
}

func runDaily(ctx context.Context) error {
	cfg := config.Get()

	// The credential check runs first, even under SKIP_SUMMARY, so a
	// misconfigured run aborts before touching any provider.
	gen, err := llm.NewClient(cfg.Gemini.Model)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}

	tax, err := config.LoadTaxonomy(cfg.Pipeline.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}
	journals, err := config.LoadJournals(cfg.Pipeline.ConfigDir)
	if err != nil {
		return fmt.Errorf("failed to load journal allow-list: %w", err)
	}

	st := store.New(cfg.Pipeline.DataDir)
	renderer, err := render.New(cfg.Site.OutputDir, cfg.Site.RecentDates, tax, st)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	fetcher := sources.NewManager(
		sources.NewPubMedProvider(),
		sources.NewEuropePMCProvider(),
	)

	p := pipeline.New(cfg, tax, journals, fetcher, gen, st, renderer)
	return p.Run(ctx)
}
