// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import "errors"

// The pipeline's fatal error taxonomy. All three abort the run; callers can
// classify failures with errors.Is. Unavailable sources (failed search pages,
// dropped fetches) are deliberately absent — they are steady-state behavior,
// warned to the progress writer and never surfaced as errors.
var (
	// ErrPlanning marks a failed or invalid research plan. No retry, no
	// partial plan.
	ErrPlanning = errors.New("research planning failed")

	// ErrTask marks an unexpected failure inside a task runner.
	ErrTask = errors.New("research task failed")

	// ErrSynthesis marks a failed final report generation.
	ErrSynthesis = errors.New("report synthesis failed")
)
