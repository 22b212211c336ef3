// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the deep-research CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/deep-research/internal/secrets"
	"github.com/pdiddy/deep-research/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the deep-research CLI.
var rootCmd = &cobra.Command{
	Use:   "deep-research",
	Short: "Multi-source research reports from a single query",
	Long: `deep-research turns one natural-language query into a structured,
multi-source research report. It plans the research with a generative model,
fans out over web and model-only sub-tasks, summarizes fetched sources, and
synthesizes one cited markdown report.

Run a research query with the research subcommand; browse archived reports
with the reports subcommand.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./deep-research.yaml or ~/.config/deep-research/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("deep-research")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "deep-research"))
		}
	}

	viper.SetEnvPrefix("DEEP_RESEARCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadPipelineConfig unmarshals the viper state into a PipelineConfig,
// applies defaults, and resolves API keys from config, .secrets/, and the
// environment, in that order.
func loadPipelineConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return types.PipelineConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ApplyDefaults()

	cfg.AI.APIKey = secrets.Resolve(cfg.AI.APIKey, loadedSecrets, "anthropic-api-key", "ANTHROPIC_API_KEY")

	switch cfg.Search.Provider {
	case types.ProviderBrave:
		cfg.Search.APIKey = secrets.Resolve(cfg.Search.APIKey, loadedSecrets, "brave-api-key", "BRAVE_API_KEY")
	default:
		cfg.Search.APIKey = secrets.Resolve(cfg.Search.APIKey, loadedSecrets, "serper-api-key", "SERPER_API_KEY")
	}

	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
