// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pdiddy/deep-research/internal/fetch"
	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/internal/summarize"
	"github.com/pdiddy/deep-research/pkg/types"
)

// PlanGenerator produces the research plan. Implemented by Planner.
type PlanGenerator interface {
	Plan(ctx context.Context, query string) (*types.ResearchPlan, error)
}

// TaskRunner executes one research task. Implemented by WebRunner and
// ModelOnlyRunner.
type TaskRunner interface {
	Run(ctx context.Context, task types.ResearchTask, w io.Writer) (types.TaskResult, error)
}

// ReportSynthesizer produces the final report. Implemented by Synthesizer.
type ReportSynthesizer interface {
	Synthesize(ctx context.Context, plan *types.ResearchPlan, results []types.TaskResult) (string, error)
}

// Pipeline is the top-level driver: plan, fan out over tasks, synthesize.
type Pipeline struct {
	planner PlanGenerator
	web     TaskRunner
	ai      TaskRunner
	synth   ReportSynthesizer
	cfg     types.ResearchConfig
}

// NewPipeline wires a Pipeline from its stage implementations.
func NewPipeline(planner PlanGenerator, web, ai TaskRunner, synth ReportSynthesizer, cfg types.ResearchConfig) *Pipeline {
	return &Pipeline{planner: planner, web: web, ai: ai, synth: synth, cfg: cfg}
}

// NewFromConfig builds the full production pipeline: Claude client, search
// provider, readability fetcher, hierarchical summarizer, and all stages
// wired with the configured model tiers.
func NewFromConfig(cfg types.PipelineConfig) (*Pipeline, error) {
	gen := genai.NewClient(cfg.AI, nil)

	provider, err := search.NewProvider(cfg.Search)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.NewFetcher(cfg.Fetch, nil)
	summarizer := summarize.NewSummarizer(gen, cfg.AI.FastModel, cfg.Summarize)
	selector := NewSelector(gen, cfg.AI.DeepModel)

	return NewPipeline(
		NewPlanner(gen, cfg.AI.DeepModel),
		NewWebRunner(provider, selector, fetcher, summarizer, gen, cfg.AI.FastModel, cfg.Search),
		NewModelOnlyRunner(gen, cfg.AI.FastModel),
		NewSynthesizer(gen, cfg.AI.DeepModel),
		cfg.Research,
	), nil
}

// RunOutput is the result of one pipeline run.
type RunOutput struct {
	Plan    *types.ResearchPlan
	Results []types.TaskResult
	Report  string
	Elapsed time.Duration
}

// outcome is one task's tagged result, so a failure is data rather than a
// panic across the fan-out boundary.
type outcome struct {
	result types.TaskResult
	err    error
}

// syncWriter serializes progress writes from concurrently running tasks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Run executes the whole pipeline for query, writing progress to w. Every
// planned task is dispatched to the runner matching its kind, all running
// concurrently (bounded by MaxTaskParallel when set), and results are
// collected in plan order. By default the first task failure aborts the run;
// with AllowPartial, failed tasks are dropped with a warning and synthesis
// proceeds over the survivors.
func (p *Pipeline) Run(ctx context.Context, query string, w io.Writer) (*RunOutput, error) {
	start := time.Now()
	w = &syncWriter{w: w}

	fmt.Fprintf(w, "planning research for: %s\n", query)
	plan, err := p.planner.Plan(ctx, query)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "plan: %q (%s), %d tasks\n", plan.Title, plan.Language, len(plan.Tasks))

	outcomes := make([]outcome, len(plan.Tasks))

	var sem chan struct{}
	if p.cfg.MaxTaskParallel > 0 {
		sem = make(chan struct{}, p.cfg.MaxTaskParallel)
	}

	var wg sync.WaitGroup
	for i, task := range plan.Tasks {
		wg.Add(1)
		go func(i int, task types.ResearchTask) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			runner := p.ai
			if task.Kind == types.TaskWeb {
				runner = p.web
			}
			fmt.Fprintf(w, "task %d/%d (%s): %s\n", i+1, len(plan.Tasks), task.Kind, task.Title)
			res, err := runner.Run(ctx, task, w)
			outcomes[i] = outcome{result: res, err: err}
		}(i, task)
	}
	wg.Wait()

	results := make([]types.TaskResult, 0, len(plan.Tasks))
	kept := plan
	var keptTasks []types.ResearchTask
	for i, o := range outcomes {
		if o.err != nil {
			if !p.cfg.AllowPartial {
				return nil, o.err
			}
			fmt.Fprintf(w, "warning: dropping task %d (%s): %v\n", i+1, plan.Tasks[i].Title, o.err)
			continue
		}
		results = append(results, o.result)
		keptTasks = append(keptTasks, plan.Tasks[i])
	}

	if p.cfg.AllowPartial && len(keptTasks) != len(plan.Tasks) {
		if len(keptTasks) == 0 {
			return nil, fmt.Errorf("%w: all %d tasks failed", ErrTask, len(plan.Tasks))
		}
		trimmed := *plan
		trimmed.Tasks = keptTasks
		kept = &trimmed
	}

	fmt.Fprintf(w, "synthesizing report from %d task results\n", len(results))
	report, err := p.synth.Synthesize(ctx, kept, results)
	if err != nil {
		return nil, err
	}

	return &RunOutput{
		Plan:    plan,
		Results: results,
		Report:  report,
		Elapsed: time.Since(start),
	}, nil
}
