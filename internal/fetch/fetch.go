// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch resolves URLs into cleaned page text. A fetch either yields
// a valid page or nothing: network failures, non-2xx statuses, unparseable
// documents, and pages below the minimum content length are all dropped
// silently. Source unavailability is steady-state behavior for the pipeline,
// never an error.
package fetch

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	readability "github.com/go-shiori/go-readability"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

// Fetcher downloads pages and extracts their main content.
type Fetcher struct {
	cfg    types.FetchConfig
	client *http.Client
}

// NewFetcher builds a Fetcher from FetchConfig. httpClient may be nil.
func NewFetcher(cfg types.FetchConfig, httpClient *http.Client) *Fetcher {
	return &Fetcher{cfg: cfg, client: httputil.Client(httpClient, cfg.Timeout)}
}

// Fetch resolves one URL into a FetchedPage, or nil when the page is
// unavailable or its cleaned content is shorter than MinContentChars.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) *types.FetchedPage {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil
	}

	article, err := readability.FromReader(resp.Body, u)
	if err != nil {
		return nil
	}

	content := strings.TrimSpace(article.TextContent)
	if len(content) < f.cfg.MinContentChars {
		return nil
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = pageURL
	}

	return &types.FetchedPage{
		Title:   title,
		URL:     pageURL,
		Content: content,
	}
}

// FetchAll fetches all URLs concurrently and returns the valid pages in
// input order, dropped fetches omitted. Concurrency is bounded by
// MaxParallel (0 = unbounded).
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []*types.FetchedPage {
	pages := make([]*types.FetchedPage, len(urls))

	var sem chan struct{}
	if f.cfg.MaxParallel > 0 {
		sem = make(chan struct{}, f.cfg.MaxParallel)
	}

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			pages[i] = f.Fetch(ctx, u)
		}(i, u)
	}
	wg.Wait()

	var valid []*types.FetchedPage
	for _, p := range pages {
		if p != nil {
			valid = append(valid, p)
		}
	}
	return valid
}
