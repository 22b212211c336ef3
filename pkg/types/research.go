// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deep-research pipeline:
// the research plan produced by the planner, the per-task results produced by
// the task runners, and the configuration structs consumed by every stage.
package types

import (
	"fmt"
	"time"
)

// TaskKind selects which runner executes a research task.
type TaskKind string

const (
	// TaskWeb marks a task that needs external, current information and is
	// executed through search, fetch, and summarization.
	TaskWeb TaskKind = "web"

	// TaskModelOnly marks a task answerable by model reasoning alone, with
	// a single direct generation call and no sources.
	TaskModelOnly TaskKind = "ai"
)

// Valid reports whether the kind is one of the two recognized values.
func (k TaskKind) Valid() bool {
	return k == TaskWeb || k == TaskModelOnly
}

// ResearchTask is one unit of research work within a plan. Each task is
// consumed exactly once by the runner matching its Kind.
type ResearchTask struct {
	// Title is a short human-readable name for the task.
	Title string `json:"title" yaml:"title"`

	// Objectives states what this task is meant to establish.
	Objectives string `json:"objectives" yaml:"objectives"`

	// ExpectedOutcomes describes the shape of a satisfactory answer.
	ExpectedOutcomes string `json:"expected_outcomes" yaml:"expected_outcomes"`

	// Kind selects the runner: "web" or "ai".
	Kind TaskKind `json:"kind" yaml:"kind"`

	// Query is the search query (web tasks) or the full prompt (ai tasks).
	Query string `json:"query" yaml:"query"`
}

// ResearchPlan is the structured decomposition of a user query, produced once
// per run by the planner and immutable thereafter.
type ResearchPlan struct {
	// Title names the overall research effort.
	Title string `json:"title" yaml:"title"`

	// Language is the detected output language for the final report
	// (e.g. "English", "German").
	Language string `json:"language" yaml:"language"`

	// Objectives states the overall goals of the research.
	Objectives string `json:"objectives" yaml:"objectives"`

	// ExpectedOutcomes describes what the finished report should deliver.
	ExpectedOutcomes string `json:"expected_outcomes" yaml:"expected_outcomes"`

	// Tasks is the ordered list of sub-tasks to execute.
	Tasks []ResearchTask `json:"tasks" yaml:"tasks"`
}

// Validate checks the structural invariants the planner must satisfy before
// the plan is accepted: a title, at least one task, and for every task a
// recognized kind and a non-empty query.
func (p *ResearchPlan) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("plan has no title")
	}
	if len(p.Tasks) == 0 {
		return fmt.Errorf("plan has no tasks")
	}
	for i, t := range p.Tasks {
		if !t.Kind.Valid() {
			return fmt.Errorf("task %d (%q): invalid kind %q", i, t.Title, t.Kind)
		}
		if t.Query == "" {
			return fmt.Errorf("task %d (%q): empty query", i, t.Title)
		}
	}
	return nil
}

// SearchHit is a raw candidate returned by a search provider, before
// relevance filtering.
type SearchHit struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Content string `json:"content" yaml:"content"`
}

// FetchedPage is resolved page text for a selected URL. Only pages whose
// content meets the fetcher's minimum length are produced; everything else
// is dropped before it reaches the summarizer.
type FetchedPage struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Content string `json:"content" yaml:"content"`
}

// Reference is a cited source attached to a task result.
type Reference struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title" yaml:"title"`
}

// TaskResult is the outcome of one executed research task. Web tasks attach
// one reference per fetched page that contributed; model-only tasks attach
// none. Results are kept in plan order for final synthesis.
type TaskResult struct {
	Answer     string      `json:"answer" yaml:"answer"`
	References []Reference `json:"references" yaml:"references"`
}

// ArchivedReport is the persisted record of a finished run.
type ArchivedReport struct {
	// ID is a UUID assigned when the report is archived.
	ID string `json:"id" yaml:"id"`

	// Query is the original user query.
	Query string `json:"query" yaml:"query"`

	// Title and Language come from the research plan.
	Title    string `json:"title" yaml:"title"`
	Language string `json:"language" yaml:"language"`

	// Markdown is the full report text.
	Markdown string `json:"markdown" yaml:"markdown"`

	// References is the union of all task references, in task order.
	References []Reference `json:"references" yaml:"references"`

	// TaskCount is the number of tasks the plan contained.
	TaskCount int `json:"task_count" yaml:"task_count"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// CreatedAt is when the report was archived.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
