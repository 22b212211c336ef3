// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/internal/summarize"
	"github.com/pdiddy/deep-research/pkg/types"
)

// Fetcher resolves selected URLs into valid pages. Implemented by
// fetch.Fetcher; tests supply fakes.
type Fetcher interface {
	FetchAll(ctx context.Context, urls []string) []*types.FetchedPage
}

// PageSummarizer reduces one page against an objective. Implemented by
// summarize.Summarizer.
type PageSummarizer interface {
	Summarize(ctx context.Context, page summarize.Page) (string, error)
}

// URLSelector picks the most promising URLs from a hit list. Implemented by
// Selector.
type URLSelector interface {
	Select(ctx context.Context, hits []types.SearchHit, objective string) ([]string, error)
}

// WebRunner executes one web research task:
// search -> select URLs -> fetch -> summarize -> synthesize.
type WebRunner struct {
	provider   search.Provider
	selector   URLSelector
	fetcher    Fetcher
	summarizer PageSummarizer
	gen        genai.Generator
	model      string
	searchCfg  types.SearchConfig
}

// NewWebRunner builds a WebRunner. model is the fast-tier model used for
// per-task synthesis.
func NewWebRunner(provider search.Provider, selector URLSelector, fetcher Fetcher, summarizer PageSummarizer, gen genai.Generator, model string, searchCfg types.SearchConfig) *WebRunner {
	return &WebRunner{
		provider:   provider,
		selector:   selector,
		fetcher:    fetcher,
		summarizer: summarizer,
		gen:        gen,
		model:      model,
		searchCfg:  searchCfg,
	}
}

// Run executes the task. Unavailable sources along the way (failed search
// pages, dropped fetches) are warned to w and omitted; they never fail the
// task. With zero surviving pages, synthesis still runs from no source
// material and the result carries empty references.
func (r *WebRunner) Run(ctx context.Context, task types.ResearchTask, w io.Writer) (types.TaskResult, error) {
	hits := search.Accumulate(ctx, r.provider, task.Query, r.searchCfg, w)
	fmt.Fprintf(w, "  [%s] %d search hits\n", task.Title, len(hits))

	urls, err := r.selector.Select(ctx, hits, task.Objectives)
	if err != nil {
		return types.TaskResult{}, err
	}
	fmt.Fprintf(w, "  [%s] %d URLs selected\n", task.Title, len(urls))

	pages := r.fetcher.FetchAll(ctx, urls)
	if dropped := len(urls) - len(pages); dropped > 0 {
		fmt.Fprintf(w, "  [%s] %d of %d pages dropped\n", task.Title, dropped, len(urls))
	}

	summaries, err := r.summarizeAll(ctx, task, pages)
	if err != nil {
		return types.TaskResult{}, err
	}

	answer, err := r.synthesize(ctx, task, pages, summaries)
	if err != nil {
		return types.TaskResult{}, err
	}

	// Every surviving page is cited, whether or not the answer names it.
	refs := make([]types.Reference, 0, len(pages))
	for _, p := range pages {
		refs = append(refs, types.Reference{URL: p.URL, Title: p.Title})
	}

	return types.TaskResult{Answer: answer, References: refs}, nil
}

// summarizeAll reduces each valid page independently and concurrently.
func (r *WebRunner) summarizeAll(ctx context.Context, task types.ResearchTask, pages []*types.FetchedPage) ([]string, error) {
	summaries := make([]string, len(pages))
	errs := make([]error, len(pages))

	done := make(chan int, len(pages))
	for i, p := range pages {
		go func(i int, p *types.FetchedPage) {
			defer func() { done <- i }()
			summaries[i], errs[i] = r.summarizer.Summarize(ctx, summarize.Page{
				Title:      p.Title,
				URL:        p.URL,
				Content:    p.Content,
				Objectives: task.Objectives,
			})
		}(i, p)
	}
	for range pages {
		<-done
	}

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTask, err)
		}
	}
	return summaries, nil
}

// synthesize merges the per-page summaries into the task answer.
func (r *WebRunner) synthesize(ctx context.Context, task types.ResearchTask, pages []*types.FetchedPage, summaries []string) (string, error) {
	var b strings.Builder
	for i, sum := range summaries {
		fmt.Fprintf(&b, "--- Source: %s (%s) ---\n%s\n\n", pages[i].Title, pages[i].URL, sum)
	}
	if b.Len() == 0 {
		b.WriteString("(no source material survived fetching)\n")
	}

	prompt := fmt.Sprintf(`Research task: %s

Objectives:
%s

Expected outcomes:
%s

Source summaries:
%s
Write a thorough answer for this research task based on the source summaries above. Where the sources are silent, say so rather than inventing facts.`, task.Title, task.Objectives, task.ExpectedOutcomes, b.String())

	answer, err := r.gen.Generate(ctx, genai.Request{Prompt: prompt, Model: r.model})
	if err != nil {
		return "", fmt.Errorf("%w: synthesizing task %q: %w", ErrTask, task.Title, err)
	}
	return answer, nil
}

// ModelOnlyRunner executes an "ai" task: a single direct call to the fast
// model with the task query as the entire prompt and no system framing.
type ModelOnlyRunner struct {
	gen   genai.Generator
	model string
}

// NewModelOnlyRunner builds a ModelOnlyRunner. model is the fast-tier model.
func NewModelOnlyRunner(gen genai.Generator, model string) *ModelOnlyRunner {
	return &ModelOnlyRunner{gen: gen, model: model}
}

// Run answers the task query directly. The result always carries zero
// references.
func (r *ModelOnlyRunner) Run(ctx context.Context, task types.ResearchTask, _ io.Writer) (types.TaskResult, error) {
	answer, err := r.gen.Generate(ctx, genai.Request{Prompt: task.Query, Model: r.model})
	if err != nil {
		return types.TaskResult{}, fmt.Errorf("%w: answering task %q: %w", ErrTask, task.Title, err)
	}
	return types.TaskResult{Answer: answer, References: nil}, nil
}
