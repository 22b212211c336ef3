// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genai provides the generative model service used by every pipeline
// stage: a text generation client for the Anthropic Messages API and helpers
// for decoding schema-shaped JSON out of model responses.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Request is a single generation call. Model selects the tier; the caller
// chooses the fast tier for bulk summarization and direct Q&A, and the deep
// tier for planning, URL selection, and report synthesis.
type Request struct {
	// System is an optional system instruction.
	System string

	// Prompt is the user-turn content.
	Prompt string

	// Model is the model identifier for this call.
	Model string

	// MaxTokens caps the response length. Zero uses the client default.
	MaxTokens int
}

// Generator produces free-form text for a prompt. Implementations must be
// safe for concurrent use; the pipeline fans out calls across tasks, pages,
// and chunks.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// DecodeJSON extracts a JSON value from a model response and unmarshals it
// into out. Models wrap JSON in markdown code fences or surround it with
// prose often enough that the raw text cannot be unmarshaled directly; this
// strips fences and trims to the outermost JSON object or array before
// decoding. The caller validates the decoded value — a decode here only
// guarantees shape, not semantics.
func DecodeJSON(raw string, out any) error {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return fmt.Errorf("no JSON value in model response")
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("parsing model response JSON: %w", err)
	}
	return nil
}

// extractJSON returns the outermost JSON object or array in raw, after
// removing markdown code fences.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip ```json ... ``` or ``` ... ``` fences.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}

	var closer byte
	if s[start] == '{' {
		closer = '}'
	} else {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return ""
	}
	return s[start : end+1]
}
