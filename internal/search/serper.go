// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

// serperAPIBase is the Serper search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serperAPIBase = "https://google.serper.dev/search"

// SerperProvider queries the Serper Google Search API.
type SerperProvider struct {
	cfg    types.SearchConfig
	Client *http.Client
}

// Name returns the provider identifier.
func (p *SerperProvider) Name() string { return "serper" }

// serperRequest is the POST body for the Serper API.
type serperRequest struct {
	Q    string `json:"q"`
	Num  int    `json:"num"`
	Page int    `json:"page"`
}

// serperResponse holds the organic results of a Serper response.
type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search requests one page of organic results.
func (p *SerperProvider) Search(ctx context.Context, query string, page int) ([]types.SearchHit, error) {
	body, err := json.Marshal(serperRequest{Q: query, Num: p.cfg.PageSize, Page: page})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := httputil.Client(p.Client, p.cfg.Timeout).Do(req)
	if err != nil {
		return nil, fmt.Errorf("Serper API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Serper API returned HTTP %d", resp.StatusCode)
	}

	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Serper response: %w", err)
	}

	var hits []types.SearchHit
	for _, r := range sr.Organic {
		hits = append(hits, types.SearchHit{
			Title:   r.Title,
			URL:     r.Link,
			Content: r.Snippet,
		})
	}
	return hits, nil
}
