// Package history records completed analysis runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"perf-analyzer/src/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id                TEXT PRIMARY KEY,
    root              TEXT NOT NULL,
    started_at        TEXT NOT NULL,
    duration_ms       INTEGER NOT NULL,
    total_files       INTEGER NOT NULL,
    problematic_files INTEGER NOT NULL,
    total_lines       INTEGER NOT NULL,
    issue_count       INTEGER NOT NULL,
    critical_count    INTEGER NOT NULL,
    high_count        INTEGER NOT NULL,
    health_score      REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// timeLayout is fixed width so stored times sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNoRuns is returned by Latest when nothing has been recorded
var ErrNoRuns = errors.New("no recorded runs")

// Run is the summary of one completed analysis
type Run struct {
	ID               string        `json:"id" yaml:"id"`
	Root             string        `json:"root" yaml:"root"`
	StartedAt        time.Time     `json:"started_at" yaml:"started_at"`
	Duration         time.Duration `json:"duration" yaml:"duration"`
	TotalFiles       int           `json:"total_files" yaml:"total_files"`
	ProblematicFiles int           `json:"problematic_files" yaml:"problematic_files"`
	TotalLines       int           `json:"total_lines" yaml:"total_lines"`
	IssueCount       int           `json:"issue_count" yaml:"issue_count"`
	CriticalCount    int           `json:"critical_count" yaml:"critical_count"`
	HighCount        int           `json:"high_count" yaml:"high_count"`
	HealthScore      float64       `json:"health_score" yaml:"health_score"`
}

// NewRun summarizes a finalized report under a fresh run ID
func NewRun(root string, startedAt time.Time, duration time.Duration, report *model.PerformanceReport) Run {
	return Run{
		ID:               uuid.NewString(),
		Root:             root,
		StartedAt:        startedAt.UTC(),
		Duration:         duration,
		TotalFiles:       report.ProjectStats.TotalFiles,
		ProblematicFiles: report.ProjectStats.ProblematicFiles,
		TotalLines:       report.ProjectStats.TotalLines,
		IssueCount:       report.TotalIssues(),
		CriticalCount:    report.IssueCountBySeverity[model.SeverityCritical],
		HighCount:        report.IssueCountBySeverity[model.SeverityHigh],
		HealthScore:      report.ProjectStats.HealthScore,
	}
}

// Store persists runs
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a run
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, root, started_at, duration_ms, total_files, problematic_files,
		                  total_lines, issue_count, critical_count, high_count, health_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.StartedAt.UTC().Format(timeLayout), run.Duration.Milliseconds(),
		run.TotalFiles, run.ProblematicFiles, run.TotalLines, run.IssueCount,
		run.CriticalCount, run.HighCount, run.HealthScore,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// List returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, root, started_at, duration_ms, total_files, problematic_files,
	                 total_lines, issue_count, critical_count, high_count, health_score
	          FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Latest returns the most recent run
func (s *Store) Latest(ctx context.Context) (Run, error) {
	runs, err := s.List(ctx, 1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNoRuns
	}
	return runs[0], nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run        Run
		startedAt  string
		durationMS int64
	)
	err := rows.Scan(&run.ID, &run.Root, &startedAt, &durationMS, &run.TotalFiles, &run.ProblematicFiles,
		&run.TotalLines, &run.IssueCount, &run.CriticalCount, &run.HighCount, &run.HealthScore)
	if err != nil {
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}

	run.StartedAt, err = time.Parse(timeLayout, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: invalid start time %q: %w", run.ID, startedAt, err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return run, nil
}
