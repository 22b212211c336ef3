// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deep-research/pkg/types"
)

// scanReport reads one row into an ArchivedReport. The column order must
// match the SELECT lists below.
func scanReport(scan func(...any) error) (types.ArchivedReport, error) {
	var (
		r         types.ArchivedReport
		refsJSON  sql.NullString
		elapsedMS int64
		createdAt string
	)
	if err := scan(&r.ID, &r.Query, &r.Title, &r.Language, &r.Markdown,
		&refsJSON, &r.TaskCount, &elapsedMS, &createdAt); err != nil {
		return types.ArchivedReport{}, err
	}
	if refsJSON.Valid {
		json.Unmarshal([]byte(refsJSON.String), &r.References)
	}
	r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		r.CreatedAt = t
	}
	return r, nil
}

const reportColumns = `r.id, r.query, r.title, r.language, r.markdown, r.refs, r.task_count, r.elapsed_ms, r.created_at`

// List returns archived reports, newest first, up to max (0 = store default).
func (s *Store) List(ctx context.Context, max int) ([]types.ArchivedReport, error) {
	if max <= 0 {
		max = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports r ORDER BY r.created_at DESC LIMIT ?`, max)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []types.ArchivedReport
	for rows.Next() {
		r, err := scanReport(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// Get returns one archived report by ID.
func (s *Store) Get(ctx context.Context, id string) (types.ArchivedReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports r WHERE r.id = ?`, id)

	r, err := scanReport(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.ArchivedReport{}, fmt.Errorf("report %s not found", id)
		}
		return types.ArchivedReport{}, fmt.Errorf("looking up report: %w", err)
	}
	return r, nil
}

// Search runs an FTS5 full-text query over report titles and markdown,
// ranked by relevance, up to max results (0 = store default).
func (s *Store) Search(ctx context.Context, query string, max int) ([]types.ArchivedReport, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	if max <= 0 {
		max = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reportColumns+`
		 FROM reports_fts
		 JOIN reports r ON r.rowid = reports_fts.rowid
		 WHERE reports_fts MATCH ?
		 ORDER BY reports_fts.rank
		 LIMIT ?`, query, max)
	if err != nil {
		return nil, fmt.Errorf("searching reports: %w", err)
	}
	defer rows.Close()

	var reports []types.ArchivedReport
	for rows.Next() {
		r, err := scanReport(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// exportEntry is the metadata written per report by ExportYAML. The markdown
// body stays in the database; the export is a browsable index.
type exportEntry struct {
	ID         string            `yaml:"id"`
	Query      string            `yaml:"query"`
	Title      string            `yaml:"title"`
	Language   string            `yaml:"language"`
	TaskCount  int               `yaml:"task_count"`
	References []types.Reference `yaml:"references"`
	CreatedAt  time.Time         `yaml:"created_at"`
}

const exportLimit = 100000

// ExportYAML writes report metadata to archiveDir/index/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	reports, err := s.List(ctx, exportLimit)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]exportEntry, len(reports))
	for i, r := range reports {
		entries[i] = exportEntry{
			ID:         r.ID,
			Query:      r.Query,
			Title:      r.Title,
			Language:   r.Language,
			TaskCount:  r.TaskCount,
			References: r.References,
			CreatedAt:  r.CreatedAt,
		}
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.archiveDir, indexDir, "export.yaml")
	return os.WriteFile(path, data, 0o644)
}
