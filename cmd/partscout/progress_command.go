package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"partscout/internal/config"
	"partscout/internal/enrich"
)

func newProgressCommand(ctx *commandContext) *cobra.Command {
	var (
		progressFile string
		statusFilter string
	)

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show the enrichment progress ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path := cfg.ProgressPath()
			if strings.TrimSpace(progressFile) != "" {
				if expanded, err := config.ExpandPath(progressFile); err == nil {
					path = expanded
				} else {
					path = progressFile
				}
			}

			ledger := enrich.LoadLedger(path)
			out := cmd.OutOrStdout()
			if ledger.Len() == 0 {
				fmt.Fprintf(out, "No progress recorded at %s\n", path)
				return nil
			}

			filter := strings.ToLower(strings.TrimSpace(statusFilter))
			entries := ledger.Entries()
			ids := make([]string, 0, len(entries))
			counts := make(map[string]int)
			for id, entry := range entries {
				counts[entry.Status]++
				if filter != "" && entry.Status != filter {
					continue
				}
				ids = append(ids, id)
			}
			sort.Slice(ids, func(i, j int) bool {
				a, b := entries[ids[i]], entries[ids[j]]
				if a.Brand != b.Brand {
					return a.Brand < b.Brand
				}
				return a.ModelNumber < b.ModelNumber
			})

			tw := table.NewWriter()
			if isatty.IsTerminal(os.Stdout.Fd()) {
				tw.SetStyle(table.StyleRounded)
			} else {
				tw.SetStyle(table.StyleLight)
			}
			tw.AppendHeader(table.Row{"Model", "Brand", "Status", "ASIN", "Updated", "Message"})
			for _, id := range ids {
				entry := entries[id]
				tw.AppendRow(table.Row{
					entry.ModelNumber,
					entry.Brand,
					entry.Status,
					entry.ASIN,
					entry.UpdatedAt,
					truncate(entry.Message, 60),
				})
			}
			fmt.Fprintln(out, tw.Render())

			statuses := make([]string, 0, len(counts))
			for status := range counts {
				statuses = append(statuses, status)
			}
			sort.Strings(statuses)
			parts := make([]string, 0, len(statuses))
			for _, status := range statuses {
				parts = append(parts, status+"="+strconv.Itoa(counts[status]))
			}
			fmt.Fprintf(out, "%d models recorded (%s)\n", ledger.Len(), strings.Join(parts, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&progressFile, "progress-file", "", "Progress ledger location (default from config)")
	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show entries with this status")

	return cmd
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
