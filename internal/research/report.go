// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/pkg/types"
)

// reportSystem carries the formatting contract for the final report.
const reportSystem = `You are a research report writer. You merge the answers of several research tasks into one coherent narrative report.

Formatting requirements:
- Write markdown prose.
- Every paragraph and every substantive claim must carry its source references in square brackets, e.g. [https://example.com/page]. Multiple references in one bracket are separated by semicolons.
- References are full URLs, never bare domains.
- Do NOT reproduce the plan, objectives, or expected-outcomes text in the output. Only the narrative report itself.
- Write the report in the requested output language.`

// Synthesizer produces the final report from the plan and the ordered task
// results, using the deep model tier.
type Synthesizer struct {
	gen   genai.Generator
	model string
}

// NewSynthesizer builds a Synthesizer. model is the deep-tier model.
func NewSynthesizer(gen genai.Generator, model string) *Synthesizer {
	return &Synthesizer{gen: gen, model: model}
}

// Synthesize builds the report prompt from the plan recap and every task's
// answer plus reference block, and returns the generated markdown verbatim.
// Results must be in plan order. A failure wraps ErrSynthesis and is fatal.
func (s *Synthesizer) Synthesize(ctx context.Context, plan *types.ResearchPlan, results []types.TaskResult) (string, error) {
	if len(results) != len(plan.Tasks) {
		return "", fmt.Errorf("%w: %d results for %d tasks", ErrSynthesis, len(results), len(plan.Tasks))
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Research title: %s\n", plan.Title)
	fmt.Fprintf(&b, "Output language: %s\n\n", plan.Language)
	fmt.Fprintf(&b, "Objectives:\n%s\n\n", plan.Objectives)
	fmt.Fprintf(&b, "Expected outcomes:\n%s\n\n", plan.ExpectedOutcomes)

	b.WriteString("Task plan:\n")
	for i, t := range plan.Tasks {
		fmt.Fprintf(&b, "%d. %s (query: %s)\n", i+1, t.Title, t.Query)
	}
	b.WriteString("\n")

	for i, res := range results {
		fmt.Fprintf(&b, "=== Task %d: %s ===\n", i+1, plan.Tasks[i].Title)
		fmt.Fprintf(&b, "Answer:\n%s\n", res.Answer)
		if len(res.References) > 0 {
			b.WriteString("References:\n")
			for _, ref := range res.References {
				fmt.Fprintf(&b, "- [%s] %s\n", ref.URL, ref.Title)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Write the final research report now, following the formatting requirements.")

	report, err := s.gen.Generate(ctx, genai.Request{
		System: reportSystem,
		Prompt: b.String(),
		Model:  s.model,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSynthesis, err)
	}
	return report, nil
}
