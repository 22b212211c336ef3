// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBraveSearchRequestShape(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"web":{"results":[]}}`)
	}))
	defer ts.Close()

	old := braveAPIBase
	braveAPIBase = ts.URL
	defer func() { braveAPIBase = old }()

	p := &BraveProvider{cfg: testSearchCfg(), Client: ts.Client()}
	_, err := p.Search(context.Background(), "golang concurrency", 4)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if capturedReq.Method != http.MethodGet {
		t.Errorf("method = %q, want GET", capturedReq.Method)
	}
	if got := capturedReq.Header.Get("X-Subscription-Token"); got != "test-key" {
		t.Errorf("X-Subscription-Token header = %q", got)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("q"); got != "golang concurrency" {
		t.Errorf("q param = %q", got)
	}
	if got := q.Get("count"); got != "10" {
		t.Errorf("count param = %q, want 10", got)
	}
	// Page 4 maps to offset 3.
	if got := q.Get("offset"); got != "3" {
		t.Errorf("offset param = %q, want 3", got)
	}
}

func TestBraveSearchParsesWebResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"web":{"results":[
			{"title":"Go","url":"https://go.dev","description":"The Go language"}
		]}}`)
	}))
	defer ts.Close()

	old := braveAPIBase
	braveAPIBase = ts.URL
	defer func() { braveAPIBase = old }()

	p := &BraveProvider{cfg: testSearchCfg(), Client: ts.Client()}
	hits, err := p.Search(context.Background(), "go", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("len(hits) = %d, want 1", len(hits))
	}
	if hits[0].Title != "Go" || hits[0].URL != "https://go.dev" || hits[0].Content != "The Go language" {
		t.Errorf("hits[0] = %+v", hits[0])
	}
}

func TestBraveSearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			"HTTP error status",
			func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
			"HTTP 401",
		},
		{
			"malformed JSON",
			func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, `not json`) },
			"parsing Brave response",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			old := braveAPIBase
			braveAPIBase = ts.URL
			defer func() { braveAPIBase = old }()

			p := &BraveProvider{cfg: testSearchCfg(), Client: ts.Client()}
			_, err := p.Search(context.Background(), "q", 1)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}
