// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize reduces long page content to one summary through a
// two-level map/reduce: fixed-size chunks are summarized independently and
// concurrently, then a single reduction call merges the chunk summaries.
// This keeps every model call within a bounded input size regardless of
// source page length.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/pkg/types"
)

// Summarizer reduces page content against a research objective.
type Summarizer struct {
	gen   genai.Generator
	model string
	cfg   types.SummarizeConfig
}

// NewSummarizer builds a Summarizer. model is the fast-tier model used for
// bulk summarization.
func NewSummarizer(gen genai.Generator, model string, cfg types.SummarizeConfig) *Summarizer {
	return &Summarizer{gen: gen, model: model, cfg: cfg}
}

// Page is the input to one summarization: the cleaned page content plus the
// anchors every prompt carries.
type Page struct {
	Title      string
	URL        string
	Content    string
	Objectives string
}

// Summarize reduces one page to a single summary. Content that fits in one
// chunk produces exactly one model call whose output is returned unmodified;
// K>1 chunks produce K concurrent map calls plus one reduce call.
func (s *Summarizer) Summarize(ctx context.Context, page Page) (string, error) {
	chunkSize := s.cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 10000
	}

	chunks := splitChunks(page.Content, chunkSize)

	summaries := make([]string, len(chunks))
	errs := make([]error, len(chunks))

	var sem chan struct{}
	if s.cfg.MaxParallel > 0 {
		sem = make(chan struct{}, s.cfg.MaxParallel)
	}

	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk string) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			summaries[i], errs[i] = s.summarizeChunk(ctx, page, chunk, i+1, len(chunks))
		}(i, chunk)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return "", err
		}
	}

	if len(summaries) == 1 {
		return summaries[0], nil
	}

	return s.reduce(ctx, page, summaries)
}

// splitChunks cuts content into pieces of at most size bytes, never splitting
// a UTF-8 rune across a boundary. The last chunk may be shorter; no word or
// sentence boundary awareness is applied.
func splitChunks(content string, size int) []string {
	if len(content) <= size {
		return []string{content}
	}
	var chunks []string
	for start := 0; start < len(content); {
		end := start + size
		if end >= len(content) {
			end = len(content)
		} else {
			for end > start && !utf8.RuneStart(content[end]) {
				end--
			}
			// Invalid UTF-8 could back up all the way; cut at size then.
			if end == start {
				end = start + size
			}
		}
		chunks = append(chunks, content[start:end])
		start = end
	}
	return chunks
}

// summarizeChunk issues one map-level summarization call.
func (s *Summarizer) summarizeChunk(ctx context.Context, page Page, chunk string, index, total int) (string, error) {
	prompt := fmt.Sprintf(`Summarize part %d of %d of the page %q (%s).

Research objective:
%s

Keep every fact, figure, name, and date that bears on the objective. Omit navigation text, boilerplate, and content unrelated to the objective.

Page content (part %d/%d):
%s`, index, total, page.Title, page.URL, page.Objectives, index, total, chunk)

	out, err := s.gen.Generate(ctx, genai.Request{Prompt: prompt, Model: s.model})
	if err != nil {
		return "", fmt.Errorf("summarizing chunk %d/%d of %s: %w", index, total, page.URL, err)
	}
	return out, nil
}

// reduce merges the chunk summaries into one coherent summary.
func (s *Summarizer) reduce(ctx context.Context, page Page, summaries []string) (string, error) {
	var b strings.Builder
	for i, sum := range summaries {
		fmt.Fprintf(&b, "--- Part %d ---\n%s\n\n", i+1, sum)
	}

	prompt := fmt.Sprintf(`The following are partial summaries of the page %q (%s), in order.

Research objective:
%s

Merge them into one coherent summary focused on the objective. Preserve concrete facts, figures, names, and dates; remove repetition between parts.

%s`, page.Title, page.URL, page.Objectives, b.String())

	out, err := s.gen.Generate(ctx, genai.Request{Prompt: prompt, Model: s.model})
	if err != nil {
		return "", fmt.Errorf("reducing summaries of %s: %w", page.URL, err)
	}
	return out, nil
}
