package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shinkeireview/internal/config"
	"shinkeireview/internal/logger"
	"shinkeireview/internal/store"
)

// NewCacheCmd creates the summary cache management command.
func NewCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Japanese summary cache",
		Long:  `Inspect the per-article summary cache used to avoid regenerating summaries.`,
	}

	cacheCmd.AddCommand(newCacheStatsCmd())

	return cacheCmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show summary cache statistics",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runCacheStats(); err != nil {
				logger.Error("Failed to get cache stats", err)
				os.Exit(1)
			}
		},
	}
}

func runCacheStats() error {
	cfg := config.Get()

	cache, err := store.New(cfg.Pipeline.DataDir).LoadCache()
	if err != nil {
		return err
	}

	fmt.Println("Summary cache")
	fmt.Println("=============")
	fmt.Printf("Entries:               %d\n", cache.Len())
	fmt.Printf("With both lengths:     %d\n", cache.CompleteCount())
	fmt.Printf("Missing short summary: %d\n", cache.Len()-cache.CompleteCount())

	return nil
}
