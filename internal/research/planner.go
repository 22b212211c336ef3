// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research implements the research pipeline: plan generation,
// concurrent fan-out over web and model-only tasks, URL relevance selection,
// and final report synthesis. The orchestration lives in pipeline.go; the
// stages are one file each.
package research

import (
	"context"
	"fmt"

	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/pkg/types"
)

// plannerSystem frames the three-phase methodology the model decomposes the
// query with. The field-level rules mirror the plan schema below.
const plannerSystem = `You are a research planning system. You decompose a user's research query into a structured plan following a three-phase methodology: research (gather information), analysis (interpret and connect it), and reporting (present it).

Rules for the plan:
- Detect the language of the user's query; the final report will be written in that language.
- Keep each sub-task narrow and specific rather than broad. Prefer several focused tasks over one sweeping one.
- Set kind to "web" when the task needs external or current information from the internet. Set kind to "ai" when the task is reasoning, comparison, or summarization over information a capable model already knows.
- For "web" tasks, phrase the query in the detected language of the user's query, worded the way an effective search-engine query would be. For "ai" tasks, the query is the full question to answer.

Respond with a single JSON object and nothing else:
{
  "title": "short title for the research effort",
  "language": "detected output language, e.g. English",
  "objectives": "overall goals",
  "expected_outcomes": "what the finished report should deliver",
  "tasks": [
    {
      "title": "...",
      "objectives": "...",
      "expected_outcomes": "...",
      "kind": "web" or "ai",
      "query": "search query or direct question"
    }
  ]
}`

// Planner turns a raw user query into a validated research plan using the
// deep model tier.
type Planner struct {
	gen   genai.Generator
	model string
}

// NewPlanner builds a Planner. model is the deep-tier model identifier.
func NewPlanner(gen genai.Generator, model string) *Planner {
	return &Planner{gen: gen, model: model}
}

// Plan generates and validates the research plan for query. Any service
// error, undecodable response, or structural violation wraps ErrPlanning and
// is fatal to the run.
func (p *Planner) Plan(ctx context.Context, query string) (*types.ResearchPlan, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrPlanning)
	}

	prompt := fmt.Sprintf("Create a research plan for the following query:\n\n%s", query)

	raw, err := p.gen.Generate(ctx, genai.Request{
		System: plannerSystem,
		Prompt: prompt,
		Model:  p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanning, err)
	}

	var plan types.ResearchPlan
	if err := genai.DecodeJSON(raw, &plan); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanning, err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanning, err)
	}

	return &plan, nil
}
