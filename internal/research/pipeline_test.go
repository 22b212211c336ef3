// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pdiddy/deep-research/pkg/types"
)

// stubPlanner returns a fixed plan.
type stubPlanner struct {
	plan *types.ResearchPlan
	err  error
}

func (p *stubPlanner) Plan(context.Context, string) (*types.ResearchPlan, error) {
	return p.plan, p.err
}

// stubRunner answers each task from a scripted function and records the task
// titles it saw.
type stubRunner struct {
	mu    sync.Mutex
	seen  []string
	delay time.Duration
	run   func(task types.ResearchTask) (types.TaskResult, error)
}

func (r *stubRunner) Run(_ context.Context, task types.ResearchTask, _ io.Writer) (types.TaskResult, error) {
	r.mu.Lock()
	r.seen = append(r.seen, task.Title)
	r.mu.Unlock()
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.run != nil {
		return r.run(task)
	}
	return types.TaskResult{Answer: "answer for " + task.Title}, nil
}

func (r *stubRunner) tasks() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

// stubSynth records its inputs and returns a fixed report.
type stubSynth struct {
	plan    *types.ResearchPlan
	results []types.TaskResult
	err     error
}

func (s *stubSynth) Synthesize(_ context.Context, plan *types.ResearchPlan, results []types.TaskResult) (string, error) {
	s.plan = plan
	s.results = results
	if s.err != nil {
		return "", s.err
	}
	return "final report", nil
}

func fourTaskPlan() *types.ResearchPlan {
	return &types.ResearchPlan{
		Title:    "Mixed Plan",
		Language: "English",
		Tasks: []types.ResearchTask{
			webTask("w1"), aiTask("a1"), webTask("w2"), aiTask("a2"),
		},
	}
}

func TestPipelineRunDispatchesByKindInPlanOrder(t *testing.T) {
	web := &stubRunner{}
	ai := &stubRunner{}
	synth := &stubSynth{}
	p := NewPipeline(&stubPlanner{plan: fourTaskPlan()}, web, ai, synth, types.ResearchConfig{})

	var buf bytes.Buffer
	out, err := p.Run(context.Background(), "query", &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Report != "final report" {
		t.Errorf("Report = %q", out.Report)
	}
	if out.Elapsed <= 0 {
		t.Error("Elapsed should be positive")
	}

	// Each kind went to its runner.
	if got := web.tasks(); len(got) != 2 {
		t.Errorf("web runner saw %v, want the 2 web tasks", got)
	}
	if got := ai.tasks(); len(got) != 2 {
		t.Errorf("ai runner saw %v, want the 2 ai tasks", got)
	}

	// Results reach synthesis in plan order regardless of completion order.
	if len(synth.results) != 4 {
		t.Fatalf("synthesis got %d results, want 4", len(synth.results))
	}
	wantOrder := []string{"w1", "a1", "w2", "a2"}
	for i, want := range wantOrder {
		if synth.results[i].Answer != "answer for "+want {
			t.Errorf("results[%d].Answer = %q, want answer for %s", i, synth.results[i].Answer, want)
		}
	}
}

func TestPipelineRunOrderWithSkewedCompletion(t *testing.T) {
	// Web tasks finish much later than ai tasks; order must still hold.
	web := &stubRunner{delay: 60 * time.Millisecond}
	ai := &stubRunner{}
	synth := &stubSynth{}
	p := NewPipeline(&stubPlanner{plan: fourTaskPlan()}, web, ai, synth, types.ResearchConfig{})

	var buf bytes.Buffer
	if _, err := p.Run(context.Background(), "query", &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantOrder := []string{"w1", "a1", "w2", "a2"}
	for i, want := range wantOrder {
		if synth.results[i].Answer != "answer for "+want {
			t.Errorf("results[%d].Answer = %q, want answer for %s", i, synth.results[i].Answer, want)
		}
	}
}

func TestPipelinePlanningErrorIsFatal(t *testing.T) {
	planErr := fmt.Errorf("%w: bad plan", ErrPlanning)
	p := NewPipeline(&stubPlanner{err: planErr}, &stubRunner{}, &stubRunner{}, &stubSynth{}, types.ResearchConfig{})

	var buf bytes.Buffer
	_, err := p.Run(context.Background(), "query", &buf)
	if !errors.Is(err, ErrPlanning) {
		t.Errorf("error = %v, want ErrPlanning", err)
	}
}

func TestPipelineTaskFailureAbortsByDefault(t *testing.T) {
	web := &stubRunner{run: func(task types.ResearchTask) (types.TaskResult, error) {
		if task.Title == "w2" {
			return types.TaskResult{}, fmt.Errorf("%w: boom", ErrTask)
		}
		return types.TaskResult{Answer: "ok"}, nil
	}}
	synth := &stubSynth{}
	p := NewPipeline(&stubPlanner{plan: fourTaskPlan()}, web, &stubRunner{}, synth, types.ResearchConfig{})

	var buf bytes.Buffer
	_, err := p.Run(context.Background(), "query", &buf)
	if !errors.Is(err, ErrTask) {
		t.Fatalf("error = %v, want ErrTask", err)
	}
	if synth.results != nil {
		t.Error("synthesis must not run after a task failure")
	}
}

func TestPipelineAllowPartialDropsFailedTasks(t *testing.T) {
	web := &stubRunner{run: func(task types.ResearchTask) (types.TaskResult, error) {
		if task.Title == "w2" {
			return types.TaskResult{}, fmt.Errorf("%w: boom", ErrTask)
		}
		return types.TaskResult{Answer: "answer for " + task.Title}, nil
	}}
	synth := &stubSynth{}
	p := NewPipeline(&stubPlanner{plan: fourTaskPlan()}, web, &stubRunner{}, synth,
		types.ResearchConfig{AllowPartial: true})

	var buf bytes.Buffer
	out, err := p.Run(context.Background(), "query", &buf)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Results) != 3 {
		t.Errorf("len(Results) = %d, want 3 survivors", len(out.Results))
	}
	// Synthesis sees a plan trimmed to the surviving tasks so counts match.
	if len(synth.plan.Tasks) != 3 {
		t.Errorf("synthesis plan has %d tasks, want 3", len(synth.plan.Tasks))
	}
	if len(synth.results) != 3 {
		t.Errorf("synthesis got %d results, want 3", len(synth.results))
	}
	if !strings.Contains(buf.String(), "dropping task") {
		t.Errorf("progress output %q missing the drop warning", buf.String())
	}
	// The returned plan is the full original one.
	if len(out.Plan.Tasks) != 4 {
		t.Errorf("out.Plan has %d tasks, want the original 4", len(out.Plan.Tasks))
	}
}

func TestPipelineAllowPartialAllFailed(t *testing.T) {
	failing := &stubRunner{run: func(types.ResearchTask) (types.TaskResult, error) {
		return types.TaskResult{}, fmt.Errorf("%w: boom", ErrTask)
	}}
	p := NewPipeline(&stubPlanner{plan: fourTaskPlan()}, failing, failing, &stubSynth{},
		types.ResearchConfig{AllowPartial: true})

	var buf bytes.Buffer
	_, err := p.Run(context.Background(), "query", &buf)
	if !errors.Is(err, ErrTask) {
		t.Errorf("error = %v, want ErrTask when every task failed", err)
	}
}

func TestPipelineSynthesisErrorIsFatal(t *testing.T) {
	synth := &stubSynth{err: fmt.Errorf("%w: bad report", ErrSynthesis)}
	p := NewPipeline(&stubPlanner{plan: fourTaskPlan()}, &stubRunner{}, &stubRunner{}, synth, types.ResearchConfig{})

	var buf bytes.Buffer
	_, err := p.Run(context.Background(), "query", &buf)
	if !errors.Is(err, ErrSynthesis) {
		t.Errorf("error = %v, want ErrSynthesis", err)
	}
}

func TestPipelineBoundedTaskParallelism(t *testing.T) {
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	track := func(types.ResearchTask) (types.TaskResult, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return types.TaskResult{Answer: "ok"}, nil
	}

	p := NewPipeline(&stubPlanner{plan: fourTaskPlan()},
		&stubRunner{run: track}, &stubRunner{run: track}, &stubSynth{},
		types.ResearchConfig{MaxTaskParallel: 2})

	var buf bytes.Buffer
	if _, err := p.Run(context.Background(), "query", &buf); err != nil {
		t.Fatalf("Run: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if maxInFlight > 2 {
		t.Errorf("max in-flight tasks = %d, want <= 2", maxInFlight)
	}
}
