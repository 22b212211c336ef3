// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries web search APIs and accumulates paginated results.
// Each provider (Serper, Brave) implements the Provider interface per the
// Strategy pattern; Accumulate drives pagination for one task query.
package search

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Provider searches a single web search API. Page numbers start at 1.
// An empty result list is the pagination-termination signal, not an error.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, page int) ([]types.SearchHit, error)
}

// NewProvider builds the configured search backend.
func NewProvider(cfg types.SearchConfig) (Provider, error) {
	switch cfg.Provider {
	case types.ProviderSerper:
		return &SerperProvider{cfg: cfg}, nil
	case types.ProviderBrave:
		return &BraveProvider{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unsupported search provider %q", cfg.Provider)
	}
}

// Accumulate issues paginated queries for pages 1..cfg.MaxPages and collects
// all hits. Pagination stops early at the first empty page. A page error is
// treated as an unavailable source: it is warned to w and terminates
// pagination with whatever was gathered so far — it never fails the task.
// No deduplication is performed across pages; duplicate hits are tolerated
// and resolved naturally downstream.
func Accumulate(ctx context.Context, p Provider, query string, cfg types.SearchConfig, w io.Writer) []types.SearchHit {
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 5
	}

	var all []types.SearchHit
	for page := 1; page <= maxPages; page++ {
		hits, err := p.Search(ctx, query, page)
		if err != nil {
			fmt.Fprintf(w, "warning: %s page %d failed: %v\n", p.Name(), page, err)
			break
		}
		if len(hits) == 0 {
			break
		}
		all = append(all, hits...)
	}
	return all
}
