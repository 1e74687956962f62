// Package scoring computes per-file criticality and project health.
package scoring

import (
	"math"

	"perf-analyzer/src/model"
)

const (
	complexityWeight = 0.5
	nestingWeight    = 0.3
	// sizeScaleLines is the line count at which the size multiplier reaches 2
	sizeScaleLines = 500.0
	// problemRatioWeight and maxSeverityPenalty each account for half of
	// the health score
	problemRatioWeight = 50.0
	maxSeverityPenalty = 50.0
	severityPerLines   = 1000.0
)

// SeverityWeight returns the criticality weight of one issue
func SeverityWeight(s model.Severity) float64 {
	switch s {
	case model.SeverityCritical:
		return 10
	case model.SeverityHigh:
		return 5
	case model.SeverityMedium:
		return 2
	case model.SeverityLow:
		return 0.5
	default:
		return 0
	}
}

// healthWeight returns the per-issue health penalty weight
func healthWeight(s model.Severity) float64 {
	switch s {
	case model.SeverityCritical:
		return 5
	case model.SeverityHigh:
		return 2
	case model.SeverityMedium:
		return 0.5
	case model.SeverityLow:
		return 0.1
	default:
		return 0
	}
}

// CriticalityScore ranks a file: the severity weights of its issues plus
// its worst complexity and nesting, scaled by up to 2x for large files.
func CriticalityScore(result *model.AnalysisResult) float64 {
	score := 0.0
	for _, issue := range result.Issues {
		score += SeverityWeight(issue.Severity)
	}
	score += complexityWeight * result.Metrics.MaxCyclomaticComplexity
	score += nestingWeight * float64(result.Metrics.MaxNestingDepth)

	return score * (1 + math.Min(float64(result.LineCount)/sizeScaleLines, 1))
}

// HealthScore returns the project health in [0, 100]. Projects without
// files or lines are fully healthy.
func HealthScore(stats model.ProjectStats, bySeverity map[model.Severity]int) float64 {
	if stats.TotalFiles == 0 || stats.TotalLines == 0 {
		return 100
	}

	problemRatio := float64(stats.ProblematicFiles) / float64(stats.TotalFiles)

	weighted := 0.0
	for _, severity := range model.AllSeverities {
		weighted += healthWeight(severity) * float64(bySeverity[severity])
	}
	severityScore := math.Min(maxSeverityPenalty, weighted*severityPerLines/float64(stats.TotalLines))

	return clamp(100-(problemRatio*problemRatioWeight+severityScore), 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
