// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/pkg/types"
)

// Selector ranks search hits against a research objective and returns the
// URLs most likely to satisfy it, using the deep model tier.
type Selector struct {
	gen   genai.Generator
	model string
}

// NewSelector builds a Selector. model is the deep-tier model identifier.
func NewSelector(gen genai.Generator, model string) *Selector {
	return &Selector{gen: gen, model: model}
}

// selectedURL is one element of the model's selection response.
type selectedURL struct {
	URL string `json:"url"`
}

// Select returns the model-chosen URLs in the model's order. The selection
// count is model-determined, including zero; no minimum or maximum is
// enforced and no deduplication is imposed. A service error or undecodable
// response wraps ErrTask.
func (s *Selector) Select(ctx context.Context, hits []types.SearchHit, objective string) ([]string, error) {
	if len(hits) == 0 {
		return nil, nil
	}

	var b strings.Builder
	for i, h := range hits {
		fmt.Fprintf(&b, "%d. %s\n   url: %s\n   snippet: %s\n", i+1, h.Title, h.URL, h.Content)
	}

	prompt := fmt.Sprintf(`Research objective:
%s

Search results:
%s
From the search results above, pick the URLs most likely to satisfy the research objective. Respond with a single JSON array of objects of the form {"url": "..."} and nothing else. Order the array by how promising each URL is. Pick as many or as few as are genuinely promising; an empty array is a valid answer.`, objective, b.String())

	raw, err := s.gen.Generate(ctx, genai.Request{Prompt: prompt, Model: s.model})
	if err != nil {
		return nil, fmt.Errorf("%w: selecting URLs: %w", ErrTask, err)
	}

	var selected []selectedURL
	if err := genai.DecodeJSON(raw, &selected); err != nil {
		return nil, fmt.Errorf("%w: selecting URLs: %w", ErrTask, err)
	}

	var urls []string
	for _, sel := range selected {
		if sel.URL != "" {
			urls = append(urls, sel.URL)
		}
	}
	return urls, nil
}
