package engine

import (
	"errors"
	"sort"
	"sync"

	"perf-analyzer/src/model"
	"perf-analyzer/src/service/scoring"
)

// ErrReportFinalized is returned when a result arrives after Finalize
var ErrReportFinalized = errors.New("report already finalized")

// Aggregator merges per-file results into one PerformanceReport. Add is
// safe for concurrent use; each result is merged in one critical section.
type Aggregator struct {
	mu        sync.Mutex
	report    *model.PerformanceReport
	finalized bool
}

// NewAggregator creates an aggregator for a run over totalFiles files
func NewAggregator(totalFiles int) *Aggregator {
	return &Aggregator{report: model.NewPerformanceReport(totalFiles)}
}

// Add merges one file result into the report
func (a *Aggregator) Add(result model.AnalysisResult) error {
	score := scoring.CriticalityScore(&result)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.finalized {
		return ErrReportFinalized
	}

	r := a.report
	for _, issue := range result.Issues {
		r.IssueCountByType[issue.Type]++
		r.IssueCountBySeverity[issue.Severity]++
	}
	r.ProjectStats.TotalLines += result.LineCount
	if len(result.Issues) > 0 {
		r.ProjectStats.ProblematicFiles++
	}
	if score > 0 {
		r.Hotspots = append(r.Hotspots, model.HotspotFile{
			FilePath:         result.FilePath,
			IssueCount:       len(result.Issues),
			CriticalityScore: score,
		})
	}
	r.FilesAnalyzed = append(r.FilesAnalyzed, result)
	return nil
}

// Finalize ranks hotspots and computes the health score. The report must
// not be modified afterwards; calling Finalize again returns the same value.
func (a *Aggregator) Finalize() *model.PerformanceReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.finalized {
		return a.report
	}
	a.finalized = true

	r := a.report

	// Workers finish in any order
	sort.Slice(r.FilesAnalyzed, func(i, j int) bool {
		return r.FilesAnalyzed[i].FilePath < r.FilesAnalyzed[j].FilePath
	})

	sort.Slice(r.Hotspots, func(i, j int) bool {
		if r.Hotspots[i].CriticalityScore != r.Hotspots[j].CriticalityScore {
			return r.Hotspots[i].CriticalityScore > r.Hotspots[j].CriticalityScore
		}
		return r.Hotspots[i].FilePath < r.Hotspots[j].FilePath
	})
	if len(r.Hotspots) > model.MaxHotspots {
		r.Hotspots = r.Hotspots[:model.MaxHotspots]
	}

	r.ProjectStats.HealthScore = scoring.HealthScore(r.ProjectStats, r.IssueCountBySeverity)
	return r
}
