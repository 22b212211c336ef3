// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-research/internal/archive"
	"github.com/pdiddy/deep-research/pkg/types"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse the report archive",
	Long: `Reports lists, shows, and searches archived research reports. The
archive is a SQLite database with a full-text index over report content.`,
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		max, _ := cmd.Flags().GetInt("max-results")
		if max <= 0 {
			max = cfg.Archive.MaxResults
		}
		reports, err := store.List(cmd.Context(), max)
		if err != nil {
			return err
		}
		printReportTable(reports)
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one archived report's markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		report, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Print(report.Markdown)
		if len(report.Markdown) > 0 && report.Markdown[len(report.Markdown)-1] != '\n' {
			fmt.Println()
		}
		return nil
	},
}

var reportsSearchCmd = &cobra.Command{
	Use:   "search <terms>",
	Short: "Full-text search over archived reports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, cfg, err := openArchive()
		if err != nil {
			return err
		}
		defer store.Close()

		max, _ := cmd.Flags().GetInt("max-results")
		if max <= 0 {
			max = cfg.Archive.MaxResults
		}
		reports, err := store.Search(cmd.Context(), args[0], max)
		if err != nil {
			return err
		}
		printReportTable(reports)
		return nil
	},
}

func init() {
	reportsListCmd.Flags().Int("max-results", 0, "maximum number of reports to list")
	reportsSearchCmd.Flags().Int("max-results", 0, "maximum number of reports to return")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	reportsCmd.AddCommand(reportsSearchCmd)
	rootCmd.AddCommand(reportsCmd)
}

// openArchive loads config and opens the archive store.
func openArchive() (*archive.Store, types.PipelineConfig, error) {
	cfg, err := loadPipelineConfig()
	if err != nil {
		return nil, types.PipelineConfig{}, err
	}
	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return nil, types.PipelineConfig{}, err
	}
	return store, cfg, nil
}

// printReportTable writes a human-readable report listing to stdout.
func printReportTable(reports []types.ArchivedReport) {
	if len(reports) == 0 {
		fmt.Println("No reports found.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTASKS\tTITLE")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.TaskCount, truncateTitle(r.Title, 60))
	}
	tw.Flush()

	fmt.Printf("\n%d reports\n", len(reports))
}

// truncateTitle shortens title to at most max bytes, cutting on a rune
// boundary and appending "..." when truncated.
func truncateTitle(title string, max int) string {
	if len(title) <= max {
		return title
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return title[:cut] + "..."
}
