package report

import (
	"fmt"
	"html/template"
	"strings"

	"perf-analyzer/src/model"
)

type htmlIssue struct {
	FilePath   string
	Line       int
	Severity   string
	Type       string
	Message    string
	Suggestion string
	Snippet    string
}

type htmlPage struct {
	Tool        string
	Version     string
	Stats       model.ProjectStats
	TotalIssues int
	HealthClass string
	Severities  []countRow
	Types       []countRow
	Hotspots    []model.HotspotFile
	Issues      []htmlIssue
}

type countRow struct {
	Name  string
	Class string
	Count int
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"score": func(f float64) string { return fmt.Sprintf("%.1f", f) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Tool}} report</title>
<style>
body { font-family: -apple-system, Helvetica, Arial, sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ddd; padding: 4px 10px; text-align: left; }
th { background: #f4f4f4; }
.critical { color: #b00020; font-weight: bold; }
.high { color: #d9480f; }
.medium { color: #b08900; }
.low { color: #555; }
.good { color: #2b8a3e; }
.fair { color: #b08900; }
.poor { color: #b00020; }
pre { background: #f7f7f7; padding: 6px; margin: 4px 0; }
</style>
</head>
<body>
<h1>Performance Analysis Report</h1>
<p>Generated by {{.Tool}} {{.Version}}</p>

<h2>Summary</h2>
<table>
<tr><th>Files analyzed</th><td>{{.Stats.TotalFiles}}</td></tr>
<tr><th>Problematic files</th><td>{{.Stats.ProblematicFiles}}</td></tr>
<tr><th>Total lines</th><td>{{.Stats.TotalLines}}</td></tr>
<tr><th>Total issues</th><td>{{.TotalIssues}}</td></tr>
<tr><th>Health score</th><td class="{{.HealthClass}}">{{score .Stats.HealthScore}}/100</td></tr>
</table>

<h2>Issues by severity</h2>
<table>
<tr><th>Severity</th><th>Count</th></tr>
{{range .Severities}}<tr><td class="{{.Class}}">{{.Name}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>Issues by type</h2>
<table>
<tr><th>Type</th><th>Count</th></tr>
{{range .Types}}<tr><td>{{.Name}}</td><td>{{.Count}}</td></tr>
{{end}}</table>

{{if .Hotspots}}<h2>Hotspots</h2>
<table>
<tr><th>File</th><th>Issues</th><th>Criticality</th></tr>
{{range .Hotspots}}<tr><td>{{.FilePath}}</td><td>{{.IssueCount}}</td><td>{{score .CriticalityScore}}</td></tr>
{{end}}</table>
{{end}}
<h2>Issues</h2>
{{if .Issues}}<table>
<tr><th>Severity</th><th>Location</th><th>Type</th><th>Description</th></tr>
{{range .Issues}}<tr>
<td class="{{.Severity}}">{{.Severity}}</td>
<td>{{.FilePath}}:{{.Line}}</td>
<td>{{.Type}}</td>
<td>{{.Message}}{{if .Suggestion}}<br><em>{{.Suggestion}}</em>{{end}}{{if .Snippet}}<pre>{{.Snippet}}</pre>{{end}}</td>
</tr>
{{end}}</table>
{{else}}<p>No issues found.</p>
{{end}}
</body>
</html>
`))

func (g *Generator) generateHTML(report *model.PerformanceReport) (string, error) {
	page := htmlPage{
		Tool:        toolName,
		Version:     g.version,
		Stats:       report.ProjectStats,
		TotalIssues: report.TotalIssues(),
		HealthClass: healthClass(report.ProjectStats.HealthScore),
		Hotspots:    report.Hotspots,
	}
	for _, sev := range model.AllSeverities {
		page.Severities = append(page.Severities, countRow{Name: sev.String(), Class: sev.String(), Count: report.IssueCountBySeverity[sev]})
	}
	for _, typ := range model.AllIssueTypes {
		page.Types = append(page.Types, countRow{Name: typ.Title(), Count: report.IssueCountByType[typ]})
	}
	for _, located := range report.IssuesAtLeast(model.SeverityLow) {
		issue := located.Issue
		row := htmlIssue{
			FilePath: located.FilePath,
			Line:     issue.Line,
			Severity: issue.Severity.String(),
			Type:     issue.Type.Title(),
			Message:  issue.Message,
		}
		if g.cfg.IncludeSuggestions {
			row.Suggestion = issue.Suggestion
		}
		if g.cfg.IncludeCodeSnippets {
			row.Snippet = issue.CodeSnippet
		}
		page.Issues = append(page.Issues, row)
	}

	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, page); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return sb.String(), nil
}

// healthClass buckets a health score for styling
func healthClass(score float64) string {
	switch {
	case score >= 80:
		return "good"
	case score >= 50:
		return "fair"
	default:
		return "poor"
	}
}
