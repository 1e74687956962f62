package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"perf-analyzer/src/model"
)

// defaultConsoleIssues is used when max_console_issues is not positive
const defaultConsoleIssues = 20

var (
	titleColor  = color.New(color.Bold, color.Underline)
	headerColor = color.New(color.Bold)
	dimColor    = color.New(color.Faint)
)

func severityColor(s model.Severity) *color.Color {
	switch s {
	case model.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case model.SeverityHigh:
		return color.New(color.FgRed)
	case model.SeverityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func healthColor(score float64) *color.Color {
	switch healthClass(score) {
	case "good":
		return color.New(color.FgGreen, color.Bold)
	case "fair":
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// generateConsole renders the terminal summary: totals, counts, the
// hotspot ranking and the most severe issues. Colors follow color.NoColor.
func (g *Generator) generateConsole(report *model.PerformanceReport) string {
	var sb strings.Builder
	stats := report.ProjectStats

	sb.WriteString(titleColor.Sprint("Performance Analysis Summary"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "  Files analyzed:     %d\n", stats.TotalFiles)
	fmt.Fprintf(&sb, "  Problematic files:  %d\n", stats.ProblematicFiles)
	fmt.Fprintf(&sb, "  Total lines:        %d\n", stats.TotalLines)
	fmt.Fprintf(&sb, "  Total issues:       %d\n", report.TotalIssues())
	fmt.Fprintf(&sb, "  Health score:       %s\n\n", healthColor(stats.HealthScore).Sprintf("%.1f/100", stats.HealthScore))

	sb.WriteString(headerColor.Sprint("Issues by severity"))
	sb.WriteString("\n")
	for _, sev := range model.AllSeverities {
		fmt.Fprintf(&sb, "  %s %d\n", severityColor(sev).Sprintf("%-10s", sev), report.IssueCountBySeverity[sev])
	}
	sb.WriteString("\n")

	sb.WriteString(headerColor.Sprint("Issues by type"))
	sb.WriteString("\n")
	for _, typ := range model.AllIssueTypes {
		if n := report.IssueCountByType[typ]; n > 0 {
			fmt.Fprintf(&sb, "  %-34s %d\n", typ.Title(), n)
		}
	}
	if len(report.IssueCountByType) == 0 {
		sb.WriteString(dimColor.Sprint("  none"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(report.Hotspots) > 0 {
		sb.WriteString(headerColor.Sprintf("Top %d hotspots", len(report.Hotspots)))
		sb.WriteString("\n")
		for i, hs := range report.Hotspots {
			fmt.Fprintf(&sb, "  %2d. %s (score %.2f, %d issues)\n", i+1, hs.FilePath, hs.CriticalityScore, hs.IssueCount)
		}
		sb.WriteString("\n")
	}

	limit := g.cfg.MaxConsoleIssues
	if limit <= 0 {
		limit = defaultConsoleIssues
	}
	severe := report.IssuesAtLeast(model.SeverityHigh)
	if len(severe) == 0 {
		return sb.String()
	}

	shown := severe
	if len(shown) > limit {
		shown = shown[:limit]
	}
	sb.WriteString(headerColor.Sprintf("Critical and high issues (%d of %d)", len(shown), len(severe)))
	sb.WriteString("\n")
	for _, located := range shown {
		issue := located.Issue
		fmt.Fprintf(&sb, "  %s %s:%d %s\n",
			severityColor(issue.Severity).Sprint(severityTag(issue.Severity)),
			located.FilePath, issue.Line, issue.Message)
		if g.cfg.IncludeSuggestions && issue.Suggestion != "" {
			fmt.Fprintf(&sb, "      %s\n", dimColor.Sprint(issue.Suggestion))
		}
	}
	return sb.String()
}
