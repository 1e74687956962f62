package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-analyzer/src/config"
	"perf-analyzer/src/model"
	"perf-analyzer/src/service/analyzer"
	"perf-analyzer/src/service/rule"
)

// fakeAnalyzer derives a deterministic result from the path index
type fakeAnalyzer struct {
	mu    sync.Mutex
	calls map[string]int
}

func newFakeAnalyzer() *fakeAnalyzer {
	return &fakeAnalyzer{calls: make(map[string]int)}
}

func (f *fakeAnalyzer) Analyze(path string) model.AnalysisResult {
	f.mu.Lock()
	f.calls[path]++
	f.mu.Unlock()

	var n int
	fmt.Sscanf(path, "file%d.swift", &n)

	issues := []model.Issue{}
	for i := 0; i < n%4; i++ {
		issues = append(issues, model.Issue{
			Type:     model.AllIssueTypes[(n+i)%len(model.AllIssueTypes)],
			Severity: model.AllSeverities[(n+i)%len(model.AllSeverities)],
			Line:     i + 1,
		})
	}
	return model.AnalysisResult{
		FilePath:  path,
		LineCount: 10 * n,
		Metrics:   model.FileMetrics{MaxCyclomaticComplexity: float64(n % 7)},
		Issues:    issues,
	}
}

func paths(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("file%d.swift", i)
	}
	return out
}

func TestRunnerReportInvariants(t *testing.T) {
	fa := newFakeAnalyzer()
	r := NewRunner(fa, 4)

	report, err := r.Run(context.Background(), paths(50))
	require.NoError(t, err)

	assert.Len(t, report.FilesAnalyzed, 50)
	assert.Equal(t, 50, report.ProjectStats.TotalFiles)
	for _, p := range paths(50) {
		assert.Equal(t, 1, fa.calls[p], p)
	}

	totalIssues := 0
	totalLines := 0
	problematic := 0
	for _, result := range report.FilesAnalyzed {
		totalIssues += len(result.Issues)
		totalLines += result.LineCount
		if len(result.Issues) > 0 {
			problematic++
		}
	}

	sumBySeverity := 0
	for _, n := range report.IssueCountBySeverity {
		sumBySeverity += n
	}
	sumByType := 0
	for _, n := range report.IssueCountByType {
		sumByType += n
	}
	assert.Equal(t, totalIssues, sumBySeverity)
	assert.Equal(t, totalIssues, sumByType)
	assert.Equal(t, totalLines, report.ProjectStats.TotalLines)
	assert.Equal(t, problematic, report.ProjectStats.ProblematicFiles)

	require.Len(t, report.Hotspots, model.MaxHotspots)
	for i := 1; i < len(report.Hotspots); i++ {
		assert.GreaterOrEqual(t, report.Hotspots[i-1].CriticalityScore, report.Hotspots[i].CriticalityScore)
	}

	assert.GreaterOrEqual(t, report.ProjectStats.HealthScore, 0.0)
	assert.LessOrEqual(t, report.ProjectStats.HealthScore, 100.0)
}

func TestRunnerIsIdempotent(t *testing.T) {
	first, err := NewRunner(newFakeAnalyzer(), 8).Run(context.Background(), paths(30))
	require.NoError(t, err)
	second, err := NewRunner(newFakeAnalyzer(), 3).Run(context.Background(), paths(30))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunnerNoFiles(t *testing.T) {
	report, err := NewRunner(newFakeAnalyzer(), 0).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Empty(t, report.FilesAnalyzed)
	assert.Empty(t, report.Hotspots)
	assert.Equal(t, 100.0, report.ProjectStats.HealthScore)
}

func TestRunnerProgress(t *testing.T) {
	r := NewRunner(newFakeAnalyzer(), 2)

	var mu sync.Mutex
	seen := make(map[int]bool)
	r.OnProgress(func(done, total int, path string) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 12, total)
		seen[done] = true
	})

	_, err := r.Run(context.Background(), paths(12))
	require.NoError(t, err)
	assert.Len(t, seen, 12)
	assert.True(t, seen[12])
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(newFakeAnalyzer(), 2).Run(ctx, paths(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRunnerDefaultsWorkers(t *testing.T) {
	assert.Positive(t, NewRunner(newFakeAnalyzer(), 0).Workers())
	assert.Equal(t, 3, NewRunner(newFakeAnalyzer(), 3).Workers())
}

func TestAggregatorHotspots(t *testing.T) {
	agg := NewAggregator(3)

	require.NoError(t, agg.Add(model.AnalysisResult{FilePath: "clean.swift", LineCount: 10, Issues: []model.Issue{}}))
	require.NoError(t, agg.Add(model.AnalysisResult{
		FilePath: "b.swift", LineCount: 10,
		Issues: []model.Issue{{Type: model.IssueNesting, Severity: model.SeverityLow, Line: 1}},
	}))
	require.NoError(t, agg.Add(model.AnalysisResult{
		FilePath: "a.swift", LineCount: 10,
		Issues: []model.Issue{{Type: model.IssueNesting, Severity: model.SeverityLow, Line: 1}},
	}))

	report := agg.Finalize()

	require.Len(t, report.Hotspots, 2)
	assert.Equal(t, "a.swift", report.Hotspots[0].FilePath)
	assert.Equal(t, "b.swift", report.Hotspots[1].FilePath)
	assert.Equal(t, 1, report.Hotspots[0].IssueCount)
	assert.Equal(t, 2, report.ProjectStats.ProblematicFiles)
	assert.Equal(t, []string{"a.swift", "b.swift", "clean.swift"}, []string{
		report.FilesAnalyzed[0].FilePath, report.FilesAnalyzed[1].FilePath, report.FilesAnalyzed[2].FilePath,
	})
}

func TestAggregatorRejectsLateResults(t *testing.T) {
	agg := NewAggregator(1)
	first := agg.Finalize()

	err := agg.Add(model.AnalysisResult{FilePath: "late.swift"})
	assert.ErrorIs(t, err, ErrReportFinalized)
	assert.Same(t, first, agg.Finalize())
	assert.Empty(t, first.FilesAnalyzed)
}

func TestRunnerUnreadableFileDoesNotAbort(t *testing.T) {
	reg, err := rule.NewRegistry(config.DefaultConfig().Analysis)
	require.NoError(t, err)

	dir := t.TempDir()
	good := filepath.Join(dir, "Feed.swift")
	require.NoError(t, os.WriteFile(good, []byte("var delegate: FeedDelegate?\n"), 0644))
	missing := filepath.Join(dir, "Gone.swift")

	report, err := NewRunner(analyzer.NewFileAnalyzer(reg), 2).Run(context.Background(), []string{missing, good})
	require.NoError(t, err)

	require.Len(t, report.FilesAnalyzed, 2)
	assert.Equal(t, good, report.FilesAnalyzed[0].FilePath)
	assert.Equal(t, missing, report.FilesAnalyzed[1].FilePath)
	assert.Zero(t, report.FilesAnalyzed[1].LineCount)
	assert.Empty(t, report.FilesAnalyzed[1].Issues)
	assert.Equal(t, 1, report.ProjectStats.TotalLines)
	assert.Equal(t, 1, report.IssueCountBySeverity[model.SeverityHigh])
}
