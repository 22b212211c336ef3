// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

// braveAPIBase is the Brave web search endpoint. Declared as a var so tests
// can substitute an httptest server.
var braveAPIBase = "https://api.search.brave.com/res/v1/web/search"

// BraveProvider queries the Brave Search API.
type BraveProvider struct {
	cfg    types.SearchConfig
	Client *http.Client
}

// Name returns the provider identifier.
func (p *BraveProvider) Name() string { return "brave" }

// braveResponse holds the web results of a Brave response.
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search requests one page of web results. Brave paginates with an offset
// counted in result pages, so page N maps to offset N-1.
func (p *BraveProvider) Search(ctx context.Context, query string, page int) ([]types.SearchHit, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", p.cfg.PageSize))
	q.Set("offset", fmt.Sprintf("%d", page-1))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveAPIBase+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", p.cfg.APIKey)
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := httputil.Client(p.Client, p.cfg.Timeout).Do(req)
	if err != nil {
		return nil, fmt.Errorf("Brave API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Brave API returned HTTP %d", resp.StatusCode)
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing Brave response: %w", err)
	}

	var hits []types.SearchHit
	for _, r := range br.Web.Results {
		hits = append(hits, types.SearchHit{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Description,
		})
	}
	return hits, nil
}
