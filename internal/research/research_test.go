// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

// Shared fakes for the pipeline stage tests.

import (
	"context"
	"sync"

	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/internal/summarize"
	"github.com/pdiddy/deep-research/pkg/types"
)

// stubGen answers generation calls from a scripted function and records
// every request. Safe for concurrent use.
type stubGen struct {
	mu    sync.Mutex
	reqs  []genai.Request
	reply func(req genai.Request) (string, error)
}

func (g *stubGen) Generate(_ context.Context, req genai.Request) (string, error) {
	g.mu.Lock()
	g.reqs = append(g.reqs, req)
	g.mu.Unlock()
	if g.reply != nil {
		return g.reply(req)
	}
	return "generated", nil
}

func (g *stubGen) requests() []genai.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]genai.Request(nil), g.reqs...)
}

// stubProvider serves canned search pages.
type stubProvider struct {
	pages map[int][]types.SearchHit
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(_ context.Context, _ string, page int) ([]types.SearchHit, error) {
	return p.pages[page], nil
}

// stubSelector returns a fixed URL list.
type stubSelector struct {
	urls []string
	err  error
}

func (s *stubSelector) Select(context.Context, []types.SearchHit, string) ([]string, error) {
	return s.urls, s.err
}

// stubFetcher maps URLs to pages; URLs without an entry are dropped.
type stubFetcher struct {
	pages map[string]*types.FetchedPage
}

func (f *stubFetcher) FetchAll(_ context.Context, urls []string) []*types.FetchedPage {
	var out []*types.FetchedPage
	for _, u := range urls {
		if p, ok := f.pages[u]; ok {
			out = append(out, p)
		}
	}
	return out
}

// stubSummarizer returns a fixed summary per URL.
type stubSummarizer struct {
	byURL map[string]string
	err   error
}

func (s *stubSummarizer) Summarize(_ context.Context, page summarize.Page) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if sum, ok := s.byURL[page.URL]; ok {
		return sum, nil
	}
	return "summary of " + page.URL, nil
}

func webTask(title string) types.ResearchTask {
	return types.ResearchTask{
		Title:            title,
		Objectives:       "objective of " + title,
		ExpectedOutcomes: "outcome of " + title,
		Kind:             types.TaskWeb,
		Query:            "query for " + title,
	}
}

func aiTask(title string) types.ResearchTask {
	return types.ResearchTask{
		Title:            title,
		Objectives:       "objective of " + title,
		ExpectedOutcomes: "outcome of " + title,
		Kind:             types.TaskModelOnly,
		Query:            "question for " + title,
	}
}
