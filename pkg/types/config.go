// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "deep-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchProviderName identifies the web search backend.
type SearchProviderName string

const (
	ProviderSerper SearchProviderName = "serper"
	ProviderBrave  SearchProviderName = "brave"
)

// SearchConfig holds settings for the web search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the search backend: serper or brave.
	Provider SearchProviderName `json:"provider" yaml:"provider"`

	// APIKey authenticates against the selected provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxPages caps pagination per task query (default 5). Pagination also
	// stops early at the first empty page.
	MaxPages int `json:"max_pages" yaml:"max_pages"`

	// PageSize is the number of hits requested per page (default 10).
	PageSize int `json:"page_size" yaml:"page_size"`
}

// FetchConfig holds settings for the page fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MinContentChars is the minimum cleaned-text length for a page to be
	// considered valid (default 100). Shorter pages are dropped.
	MinContentChars int `json:"min_content_chars" yaml:"min_content_chars"`

	// MaxParallel bounds concurrent fetches per task (0 = unbounded).
	MaxParallel int `json:"max_parallel" yaml:"max_parallel"`
}

// AIConfig holds settings for the generative model service. Two model tiers
// are used: Fast for bulk summarization and direct Q&A, Deep for planning,
// URL selection, and report synthesis.
type AIConfig struct {
	// FastModel is the cheap, high-throughput model identifier.
	FastModel string `json:"fast_model" yaml:"fast_model"`

	// DeepModel is the higher-capability model identifier.
	DeepModel string `json:"deep_model" yaml:"deep_model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens caps the response length per call (default 8192).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// RequestTimeout is the per-call deadline for generation requests
	// (default 120s).
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// SummarizeConfig holds settings for hierarchical summarization.
type SummarizeConfig struct {
	// ChunkSize is the fixed chunk length in characters (default 10000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// MaxParallel bounds concurrent chunk summaries per page (0 = unbounded).
	MaxParallel int `json:"max_parallel" yaml:"max_parallel"`
}

// ResearchConfig holds settings for task fan-out and failure policy.
type ResearchConfig struct {
	// MaxTaskParallel bounds concurrent task execution (0 = unbounded).
	MaxTaskParallel int `json:"max_task_parallel" yaml:"max_task_parallel"`

	// AllowPartial continues the run when individual tasks fail, dropping
	// their results with a warning. When false (the default) the first
	// task failure aborts the whole run.
	AllowPartial bool `json:"allow_partial" yaml:"allow_partial"`
}

// ReportConfig holds settings for the final report artifact.
type ReportConfig struct {
	// OutputPath is where the report markdown is written
	// (default "output/reports/report.md").
	OutputPath string `json:"output_path" yaml:"output_path"`

	// NotesDir is where the plan artifact is written
	// (default "output/notes").
	NotesDir string `json:"notes_dir" yaml:"notes_dir"`
}

// ArchiveConfig holds settings for the report archive.
type ArchiveConfig struct {
	// Enabled controls whether finished reports are archived.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the base directory for the archive (contains index/).
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of list/search results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize"`
	Research  ResearchConfig  `json:"research" yaml:"research"`
	Report    ReportConfig    `json:"report" yaml:"report"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
}

// ApplyDefaults fills zero-valued fields with their documented defaults.
func (c *PipelineConfig) ApplyDefaults() {
	if c.Search.Provider == "" {
		c.Search.Provider = ProviderSerper
	}
	if c.Search.MaxPages <= 0 {
		c.Search.MaxPages = 5
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 10
	}
	if c.Search.Timeout <= 0 {
		c.Search.Timeout = 15 * time.Second
	}
	if c.Search.UserAgent == "" {
		c.Search.UserAgent = "deep-research/0.1"
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 20 * time.Second
	}
	if c.Fetch.MinContentChars <= 0 {
		c.Fetch.MinContentChars = 100
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = c.Search.UserAgent
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = 8192
	}
	if c.AI.RequestTimeout <= 0 {
		c.AI.RequestTimeout = 120 * time.Second
	}
	if c.Summarize.ChunkSize <= 0 {
		c.Summarize.ChunkSize = 10000
	}
	if c.Report.OutputPath == "" {
		c.Report.OutputPath = "output/reports/report.md"
	}
	if c.Report.NotesDir == "" {
		c.Report.NotesDir = "output/notes"
	}
	if c.Archive.Dir == "" {
		c.Archive.Dir = "archive"
	}
	if c.Archive.MaxResults <= 0 {
		c.Archive.MaxResults = 20
	}
}
