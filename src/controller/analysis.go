package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"perf-analyzer/src/config"
	"perf-analyzer/src/model"
	"perf-analyzer/src/service/analyzer"
	"perf-analyzer/src/service/engine"
	"perf-analyzer/src/service/history"
	"perf-analyzer/src/service/rule"
	"perf-analyzer/src/service/scan"
	"perf-analyzer/src/util"
)

// AnalysisController orchestrates the analysis pipeline
type AnalysisController struct {
	cfg *config.Config
}

// NewAnalysisController creates a new analysis controller
func NewAnalysisController(cfg *config.Config) *AnalysisController {
	return &AnalysisController{cfg: cfg}
}

// AnalyzeRequest represents a request to analyze a source tree
type AnalyzeRequest struct {
	Root     string
	Progress engine.ProgressFunc // Optional: called after each file
	// Started is called once the file set is known
	Started func(total int)
}

// AnalyzeResult is a finalized report with the run it was recorded as
type AnalyzeResult struct {
	Report *model.PerformanceReport
	Run    history.Run
	// Recorded is false when history is disabled or recording failed
	Recorded bool
}

// Analyze runs the full analysis pipeline
func (c *AnalysisController) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	startTime := time.Now()
	util.Info("Starting analysis of %s", req.Root)

	// Compile every rule before touching any file
	registry, err := rule.NewRegistry(c.cfg.Analysis)
	if err != nil {
		util.Error("Rule setup failed: %v", err)
		return nil, fmt.Errorf("rule setup: %w", err)
	}

	files, err := scan.NewWalker(c.cfg.Scan).Collect(req.Root)
	if err != nil {
		util.Error("File collection failed: %v", err)
		return nil, err
	}
	util.Debug("Collected %d files with extensions %v", len(files), c.cfg.Scan.Extensions)
	if req.Started != nil {
		req.Started(len(files))
	}

	runner := engine.NewRunner(analyzer.NewFileAnalyzer(registry), c.cfg.Concurrency.Workers)
	if req.Progress != nil {
		runner.OnProgress(req.Progress)
	}

	report, err := runner.Run(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	result := &AnalyzeResult{
		Report: report,
		Run:    history.NewRun(req.Root, startTime, time.Since(startTime), report),
	}
	if c.cfg.History.Enabled {
		result.Recorded = c.record(ctx, result.Run)
	}

	util.Info("Analysis of %s complete: %d issues in %d files, health score %.1f (took %v)",
		req.Root, report.TotalIssues(), report.ProjectStats.TotalFiles, report.ProjectStats.HealthScore, time.Since(startTime))
	return result, nil
}

// record stores the run summary. Failures are logged and do not fail the run.
func (c *AnalysisController) record(ctx context.Context, run history.Run) bool {
	store, err := history.Open(c.cfg.History.Path)
	if err != nil {
		util.Warn("History unavailable at %s: %v", c.cfg.History.Path, err)
		return false
	}
	defer store.Close()

	previous, err := store.Latest(ctx)
	switch {
	case err == nil:
		util.Info("Health score %.1f (previous run %.1f, %+.1f)", run.HealthScore, previous.HealthScore, run.HealthScore-previous.HealthScore)
	case !errors.Is(err, history.ErrNoRuns):
		util.Debug("No previous run available: %v", err)
	}

	if err := store.Record(ctx, run); err != nil {
		util.Warn("Failed to record run: %v", err)
		return false
	}
	util.Debug("Recorded run %s in %s", run.ID, c.cfg.History.Path)
	return true
}

// History returns up to limit recorded runs, newest first
func (c *AnalysisController) History(ctx context.Context, limit int) ([]history.Run, error) {
	store, err := history.Open(c.cfg.History.Path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.List(ctx, limit)
}

// Rules lists the rules a run with the current configuration would use
func (c *AnalysisController) Rules() ([]rule.Info, error) {
	registry, err := rule.NewRegistry(c.cfg.Analysis)
	if err != nil {
		return nil, err
	}
	return registry.Catalog(), nil
}
