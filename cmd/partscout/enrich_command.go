package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"partscout/internal/catalog"
	"partscout/internal/config"
	"partscout/internal/enrich"
	"partscout/internal/paapi"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var (
		category     string
		limit        int
		delay        float64
		onlyMissing  bool
		filterMatch  bool
		dryRun       bool
		noResume     bool
		retryErrors  bool
		progressFile string
	)

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Search Amazon for water filters and link them to catalog models",
		Long: strings.TrimSpace(`
Searches Amazon for a water filter for every candidate model in the chosen
category, links matches into the catalog, and records every outcome in a
progress ledger so an interrupted run resumes where it stopped.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireCredentials(); err != nil {
				return fmt.Errorf("%w: %v", enrich.ErrConfiguration, err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := enrichOptions(cfg, cmd, category, limit, delay, onlyMissing,
				filterMatch, dryRun, noResume, retryErrors, progressFile)

			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner := enrich.NewRunner(store, paapi.NewClient(cfg), logger)
			summary, err := runner.Run(runCtx, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed: %d\n", summary.Processed)
			fmt.Fprintf(out, "Added or linked: %d\n", summary.AddedOrLinked)
			fmt.Fprintf(out, "Skipped (already recorded): %d\n", summary.Skipped)
			fmt.Fprintf(out, "Errors: %d\n", summary.Errors)
			if opts.DryRun {
				fmt.Fprintln(out, "Dry run: no catalog changes were made")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Appliance category to process (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum models to consider (default from config)")
	cmd.Flags().Float64Var(&delay, "delay", -1, "Seconds to wait between Amazon calls (default from config)")
	cmd.Flags().BoolVar(&onlyMissing, "only-missing", false, "Only process models without a water filter")
	cmd.Flags().BoolVar(&filterMatch, "require-filter-match", true, "Only accept results whose title reads as a water filter")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Search and record progress without writing to the catalog")
	cmd.Flags().BoolVar(&noResume, "no-resume", false, "Ignore prior progress and reprocess every model")
	cmd.Flags().BoolVar(&retryErrors, "retry-errors", false, "Reprocess models whose last attempt failed")
	cmd.Flags().StringVar(&progressFile, "progress-file", "", "Progress ledger location (default from config)")

	return cmd
}

func enrichOptions(cfg *config.Config, cmd *cobra.Command, category string, limit int, delay float64,
	onlyMissing, filterMatch, dryRun, noResume, retryErrors bool, progressFile string) enrich.Options {

	opts := enrich.Options{
		Category:           cfg.Enrich.Category,
		Limit:              cfg.Enrich.Limit,
		Delay:              time.Duration(cfg.Enrich.DelaySeconds * float64(time.Second)),
		OnlyMissing:        cfg.Enrich.OnlyMissing,
		RequireFilterMatch: cfg.Enrich.RequireFilterMatch,
		Resume:             !noResume,
		RetryErrors:        retryErrors,
		DryRun:             dryRun,
		PartnerTag:         cfg.Amazon.PartnerTag,
		ProgressPath:       cfg.ProgressPath(),
	}
	if strings.TrimSpace(category) != "" {
		opts.Category = category
	}
	if limit > 0 {
		opts.Limit = limit
	}
	if delay >= 0 {
		opts.Delay = time.Duration(delay * float64(time.Second))
	}
	if cmd.Flags().Changed("only-missing") {
		opts.OnlyMissing = onlyMissing
	}
	if cmd.Flags().Changed("require-filter-match") {
		opts.RequireFilterMatch = filterMatch
	}
	if strings.TrimSpace(progressFile) != "" {
		if expanded, err := config.ExpandPath(progressFile); err == nil {
			opts.ProgressPath = expanded
		} else {
			opts.ProgressPath = progressFile
		}
	}
	return opts
}
