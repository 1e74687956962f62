package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"perf-analyzer/src/model"
)

func issues(severities ...model.Severity) []model.Issue {
	out := make([]model.Issue, len(severities))
	for i, s := range severities {
		out[i] = model.Issue{Type: model.IssueComplexity, Severity: s, Line: i + 1}
	}
	return out
}

func TestSeverityWeight(t *testing.T) {
	assert.Equal(t, 10.0, SeverityWeight(model.SeverityCritical))
	assert.Equal(t, 5.0, SeverityWeight(model.SeverityHigh))
	assert.Equal(t, 2.0, SeverityWeight(model.SeverityMedium))
	assert.Equal(t, 0.5, SeverityWeight(model.SeverityLow))
}

func TestCriticalityScore(t *testing.T) {
	tests := []struct {
		name   string
		result model.AnalysisResult
		want   float64
	}{
		{
			name:   "empty file",
			result: model.AnalysisResult{},
			want:   0,
		},
		{
			name: "issues and metrics",
			result: model.AnalysisResult{
				LineCount: 250,
				Metrics:   model.FileMetrics{MaxCyclomaticComplexity: 12, MaxNestingDepth: 5},
				Issues:    issues(model.SeverityCritical, model.SeverityMedium, model.SeverityLow),
			},
			// (10 + 2 + 0.5 + 6 + 1.5) * 1.5
			want: 30,
		},
		{
			name: "size multiplier caps at two",
			result: model.AnalysisResult{
				LineCount: 5000,
				Issues:    issues(model.SeverityHigh),
			},
			want: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CriticalityScore(&tt.result), 1e-9)
		})
	}
}

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name       string
		stats      model.ProjectStats
		bySeverity map[model.Severity]int
		want       float64
	}{
		{
			name: "no files",
			want: 100,
		},
		{
			name:  "no lines",
			stats: model.ProjectStats{TotalFiles: 3},
			want:  100,
		},
		{
			name:  "clean project",
			stats: model.ProjectStats{TotalFiles: 4, TotalLines: 1000},
			want:  100,
		},
		{
			name:       "half problematic",
			stats:      model.ProjectStats{TotalFiles: 4, ProblematicFiles: 2, TotalLines: 10000},
			bySeverity: map[model.Severity]int{model.SeverityHigh: 10, model.SeverityLow: 50},
			// 100 - (25 + (20 + 5) * 1000 / 10000)
			want: 72.5,
		},
		{
			name:       "severity penalty capped",
			stats:      model.ProjectStats{TotalFiles: 1, ProblematicFiles: 1, TotalLines: 10},
			bySeverity: map[model.Severity]int{model.SeverityCritical: 100},
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HealthScore(tt.stats, tt.bySeverity)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}
