package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"partscout/internal/catalog"
	"partscout/internal/config"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import models and consumables from a CSV export",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path, err := config.ExpandPath(inputPath)
			if err != nil {
				return fmt.Errorf("resolve input path: %w", err)
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer file.Close()

			store, err := catalog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			stats, err := store.ImportCSV(cmd.Context(), file)
			if err != nil {
				return fmt.Errorf("import csv: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rows read: %d (skipped %d)\n", stats.RowsRead, stats.RowsSkipped)
			fmt.Fprintf(out, "Models: %d\n", stats.Models)
			fmt.Fprintf(out, "New consumables: %d\n", stats.Consumables)
			fmt.Fprintf(out, "New links: %d\n", stats.Links)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "CSV file to import")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
