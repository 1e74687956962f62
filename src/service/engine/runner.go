// Package engine fans file analysis out over a worker pool and aggregates
// the results into a project report.
package engine

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"perf-analyzer/src/model"
	"perf-analyzer/src/util"
)

// FileAnalyzer analyzes one file. Implementations must be safe for
// concurrent use and must not fail: unreadable files yield empty results.
type FileAnalyzer interface {
	Analyze(path string) model.AnalysisResult
}

// ProgressFunc is called after each file with the number of files done
type ProgressFunc func(done, total int, path string)

// Runner analyzes a set of files with a bounded number of workers
type Runner struct {
	analyzer FileAnalyzer
	workers  int
	progress ProgressFunc
}

// NewRunner creates a runner. workers <= 0 uses one worker per CPU.
func NewRunner(analyzer FileAnalyzer, workers int) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		analyzer: analyzer,
		workers:  workers,
	}
}

// OnProgress registers a progress callback. It may be called from several
// workers at once.
func (r *Runner) OnProgress(fn ProgressFunc) {
	r.progress = fn
}

// Workers returns the size of the worker pool
func (r *Runner) Workers() int {
	return r.workers
}

// Run analyzes every path and returns the finalized report. It only fails
// when ctx is cancelled before all files are done.
func (r *Runner) Run(ctx context.Context, paths []string) (*model.PerformanceReport, error) {
	startTime := time.Now()
	util.Info("Analyzing %d files with %d workers", len(paths), r.workers)

	agg := NewAggregator(len(paths))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result := r.analyzer.Analyze(path)
			if err := agg.Add(result); err != nil {
				return err
			}

			n := int(done.Add(1))
			util.Debug("Analyzed %s: %d issues (%d/%d)", path, len(result.Issues), n, len(paths))
			if r.progress != nil {
				r.progress(n, len(paths), path)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		util.Error("Analysis aborted: %v", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := agg.Finalize()
	util.Info("Analysis complete: %d files, %d issues, health score %.1f (took %v)",
		len(report.FilesAnalyzed), report.TotalIssues(), report.ProjectStats.HealthScore, time.Since(startTime))
	return report, nil
}
