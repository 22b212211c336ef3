// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists finished research reports in a SQLite database
// with a full-text index over the report markdown. Only the final artifact
// of a run is stored — no intermediate research state survives a run.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/deep-research/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "reports.db"
)

// Store manages the report archive SQLite database.
type Store struct {
	db         *sql.DB
	archiveDir string
	maxResults int
}

// NewStore opens or creates the archive database at cfg.Dir/index/reports.db
// and creates the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		archiveDir: cfg.Dir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			query TEXT NOT NULL,
			title TEXT,
			language TEXT,
			markdown TEXT NOT NULL,
			refs TEXT,
			task_count INTEGER,
			elapsed_ms INTEGER,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='reports_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE reports_fts USING fts5(title, markdown, content=reports, content_rowid=rowid)`,
			`CREATE TRIGGER reports_ai AFTER INSERT ON reports BEGIN
				INSERT INTO reports_fts(rowid, title, markdown) VALUES (new.rowid, new.title, new.markdown);
			END`,
			`CREATE TRIGGER reports_ad AFTER DELETE ON reports BEGIN
				INSERT INTO reports_fts(reports_fts, rowid, title, markdown) VALUES('delete', old.rowid, old.title, old.markdown);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Save archives one finished report. A missing ID or CreatedAt is filled in;
// the stored record is returned.
func (s *Store) Save(ctx context.Context, report types.ArchivedReport) (types.ArchivedReport, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	refsJSON, err := json.Marshal(report.References)
	if err != nil {
		return types.ArchivedReport{}, fmt.Errorf("marshaling references: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, query, title, language, markdown, refs, task_count, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Query, report.Title, report.Language, report.Markdown,
		string(refsJSON), report.TaskCount, report.Elapsed.Milliseconds(),
		report.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return types.ArchivedReport{}, fmt.Errorf("inserting report: %w", err)
	}

	return report, nil
}
