// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages. Every
// external call in the pipeline runs under a bounded deadline; these helpers
// keep that discipline in one place.
package httputil

import (
	"net/http"
	"time"
)

// Client returns c with the given timeout applied, or a new client when c is
// nil. A zero timeout leaves the client unbounded; callers get their default
// from config, so this only happens when explicitly configured.
func Client(c *http.Client, timeout time.Duration) *http.Client {
	if c == nil {
		return &http.Client{Timeout: timeout}
	}
	if c.Timeout == 0 && timeout > 0 {
		clone := *c
		clone.Timeout = timeout
		return &clone
	}
	return c
}
