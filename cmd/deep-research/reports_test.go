// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		max   int
		want  string
	}{
		{"short title untouched", "Brief", 60, "Brief"},
		{"exactly max untouched", strings.Repeat("a", 60), 60, strings.Repeat("a", 60)},
		{"long ASCII truncated", strings.Repeat("a", 70), 60, strings.Repeat("a", 57) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateTitle(tt.title, tt.max); got != tt.want {
				t.Errorf("truncateTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateTitleRuneBoundary(t *testing.T) {
	// 4-byte runes: byte 57 falls mid-rune, so the cut must back up rather
	// than leave invalid UTF-8 before the ellipsis.
	title := strings.Repeat("𝔘", 20)
	got := truncateTitle(title, 60)

	if !utf8.ValidString(got) {
		t.Errorf("truncated title is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated title %q missing ellipsis", got)
	}
	if len(got) > 60 {
		t.Errorf("truncated title is %d bytes, want <= 60", len(got))
	}
	if !strings.HasPrefix(title, strings.TrimSuffix(got, "...")) {
		t.Errorf("truncated title %q is not a prefix of the original", got)
	}
}
