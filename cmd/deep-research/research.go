// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deep-research/internal/archive"
	"github.com/pdiddy/deep-research/internal/research"
	"github.com/pdiddy/deep-research/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research <query>",
	Short: "Run the research pipeline for one query",
	Long: `Research plans the query with the deep model, executes every planned
sub-task (web search + fetch + summarize, or direct model reasoning),
and synthesizes one cited markdown report.

The report is written to the configured output path; the plan is saved
alongside it as a YAML artifact. When the archive is enabled the report
is also stored in the report archive.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadPipelineConfig()
		if err != nil {
			return err
		}
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			cfg.Report.OutputPath = out
		}
		if partial, _ := cmd.Flags().GetBool("allow-partial"); partial {
			cfg.Research.AllowPartial = true
		}
		if noArchive, _ := cmd.Flags().GetBool("no-archive"); noArchive {
			cfg.Archive.Enabled = false
		}

		if cfg.AI.APIKey == "" {
			return fmt.Errorf("no Anthropic API key: set ai.api_key, .secrets/anthropic-api-key, or ANTHROPIC_API_KEY")
		}
		if cfg.Search.APIKey == "" {
			return fmt.Errorf("no %s API key configured", cfg.Search.Provider)
		}

		return runResearch(cmd.Context(), cfg, args[0])
	},
}

func init() {
	researchCmd.Flags().String("output", "", "report output path (overrides config)")
	researchCmd.Flags().Bool("allow-partial", false, "continue when individual tasks fail")
	researchCmd.Flags().Bool("no-archive", false, "skip archiving the finished report")

	rootCmd.AddCommand(researchCmd)
}

// runResearch drives one pipeline run and writes all artifacts.
func runResearch(ctx context.Context, cfg types.PipelineConfig, query string) error {
	pipeline, err := research.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	out, err := pipeline.Run(ctx, query, os.Stdout)
	if err != nil {
		return err
	}

	if err := writeReport(cfg.Report.OutputPath, out.Report); err != nil {
		return err
	}
	fmt.Printf("report written to %s\n", cfg.Report.OutputPath)

	if err := writePlan(cfg.Report.NotesDir, out.Plan); err != nil {
		fmt.Fprintf(os.Stderr, "warning: plan artifact not written: %v\n", err)
	}

	if cfg.Archive.Enabled {
		if err := archiveReport(ctx, cfg, query, out); err != nil {
			fmt.Fprintf(os.Stderr, "warning: report not archived: %v\n", err)
		}
	}

	fmt.Printf("research complete in %s\n", out.Elapsed.Round(time.Second))
	return nil
}

// writeReport writes the report markdown, creating parent directories.
func writeReport(path, report string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// writePlan saves the research plan as a YAML artifact in notesDir.
func writePlan(notesDir string, plan *types.ResearchPlan) error {
	if err := os.MkdirAll(notesDir, 0o755); err != nil {
		return fmt.Errorf("creating notes directory: %w", err)
	}
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	return os.WriteFile(filepath.Join(notesDir, "plan.yaml"), data, 0o644)
}

// archiveReport stores the finished run in the report archive.
func archiveReport(ctx context.Context, cfg types.PipelineConfig, query string, out *research.RunOutput) error {
	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	var refs []types.Reference
	for _, res := range out.Results {
		refs = append(refs, res.References...)
	}

	saved, err := store.Save(ctx, types.ArchivedReport{
		Query:      query,
		Title:      out.Plan.Title,
		Language:   out.Plan.Language,
		Markdown:   out.Report,
		References: refs,
		TaskCount:  len(out.Plan.Tasks),
		Elapsed:    out.Elapsed,
	})
	if err != nil {
		return err
	}

	if err := store.ExportYAML(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: export.yaml write failed: %v\n", err)
	}

	fmt.Printf("archived as %s\n", saved.ID)
	return nil
}
