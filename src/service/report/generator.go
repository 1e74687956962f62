package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"perf-analyzer/src/config"
	"perf-analyzer/src/model"
	"perf-analyzer/src/util"
)

const (
	toolName    = "perf-analyzer"
	toolInfoURI = "https://github.com/perf-analyzer/perf-analyzer"
)

// Generator generates reports in various formats
type Generator struct {
	cfg     config.OutputConfig
	version string
}

// NewGenerator creates a new report generator
func NewGenerator(cfg config.OutputConfig, version string) *Generator {
	return &Generator{cfg: cfg, version: version}
}

// Generate generates a report in the specified format
func (g *Generator) Generate(report *model.PerformanceReport, format string) (string, error) {
	util.Debug("Generating report in %s format (%d issues)", format, report.TotalIssues())
	switch strings.ToLower(format) {
	case "json":
		return g.generateJSON(report)
	case "yaml":
		return g.generateYAML(report)
	case "markdown", "md":
		return g.generateMarkdown(report)
	case "sarif":
		return g.generateSARIF(report)
	case "html":
		return g.generateHTML(report)
	case "console":
		return g.generateConsole(report), nil
	default:
		util.Warn("Unsupported report format requested: %s", format)
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// Extension returns the file extension used for a format
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return "md"
	case "console":
		return "txt"
	case "sarif":
		return "sarif.json"
	default:
		return strings.ToLower(format)
	}
}

// trimmed returns a copy of report without the issue fields the output
// settings exclude. The input report is not modified.
func (g *Generator) trimmed(report *model.PerformanceReport) *model.PerformanceReport {
	if g.cfg.IncludeSuggestions && g.cfg.IncludeMetrics && g.cfg.IncludeCodeSnippets {
		return report
	}

	out := *report
	out.FilesAnalyzed = make([]model.AnalysisResult, len(report.FilesAnalyzed))
	for i, result := range report.FilesAnalyzed {
		result.Issues = make([]model.Issue, len(report.FilesAnalyzed[i].Issues))
		for j, issue := range report.FilesAnalyzed[i].Issues {
			if !g.cfg.IncludeSuggestions {
				issue.Suggestion = ""
			}
			if !g.cfg.IncludeMetrics {
				issue.DetailMetrics = nil
			}
			if !g.cfg.IncludeCodeSnippets {
				issue.CodeSnippet = ""
			}
			result.Issues[j] = issue
		}
		out.FilesAnalyzed[i] = result
	}
	return &out
}

func (g *Generator) generateJSON(report *model.PerformanceReport) (string, error) {
	data, err := json.MarshalIndent(g.trimmed(report), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) generateYAML(report *model.PerformanceReport) (string, error) {
	data, err := yaml.Marshal(g.trimmed(report))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) generateMarkdown(report *model.PerformanceReport) (string, error) {
	var sb strings.Builder
	stats := report.ProjectStats

	// Header
	sb.WriteString("# Performance Analysis Report\n\n")

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Files Analyzed:** %d\n", stats.TotalFiles))
	sb.WriteString(fmt.Sprintf("- **Problematic Files:** %d\n", stats.ProblematicFiles))
	sb.WriteString(fmt.Sprintf("- **Total Lines:** %d\n", stats.TotalLines))
	sb.WriteString(fmt.Sprintf("- **Total Issues:** %d\n", report.TotalIssues()))
	sb.WriteString(fmt.Sprintf("- **Health Score:** %.1f/100\n\n", stats.HealthScore))

	// By Severity
	sb.WriteString("### Issues by Severity\n\n")
	sb.WriteString("| Severity | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, sev := range model.AllSeverities {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", sev, report.IssueCountBySeverity[sev]))
	}
	sb.WriteString("\n")

	// By Type
	sb.WriteString("### Issues by Type\n\n")
	sb.WriteString("| Type | Count |\n")
	sb.WriteString("|------|-------|\n")
	for _, typ := range model.AllIssueTypes {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", typ, report.IssueCountByType[typ]))
	}
	sb.WriteString("\n")

	// Hotspots
	if len(report.Hotspots) > 0 {
		sb.WriteString("### Hotspot Files\n\n")
		sb.WriteString("| File | Issues | Criticality |\n")
		sb.WriteString("|------|--------|-------------|\n")
		for _, hs := range report.Hotspots {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f |\n", hs.FilePath, hs.IssueCount, hs.CriticalityScore))
		}
		sb.WriteString("\n")
	}

	// Issues by type
	sb.WriteString("## Issues\n\n")

	byType := make(map[model.IssueType][]model.LocatedIssue)
	for _, located := range report.IssuesAtLeast(model.SeverityLow) {
		byType[located.Issue.Type] = append(byType[located.Issue.Type], located)
	}

	for _, typ := range model.AllIssueTypes {
		issues := byType[typ]
		if len(issues) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("### %s (%d issues)\n\n", typ.Title(), len(issues)))

		for _, located := range issues {
			issue := located.Issue
			sb.WriteString(fmt.Sprintf("#### %s `%s:%d`\n\n", severityTag(issue.Severity), located.FilePath, issue.Line))
			sb.WriteString(fmt.Sprintf("- **Severity:** %s\n", issue.Severity))
			sb.WriteString(fmt.Sprintf("- **Description:** %s\n", issue.Message))

			if g.cfg.IncludeSuggestions && issue.Suggestion != "" {
				sb.WriteString(fmt.Sprintf("- **Suggestion:** %s\n", issue.Suggestion))
			}

			if g.cfg.IncludeMetrics && len(issue.DetailMetrics) > 0 {
				sb.WriteString("- **Metrics:**\n")
				for _, k := range sortedKeys(issue.DetailMetrics) {
					sb.WriteString(fmt.Sprintf("  - %s: %v\n", k, issue.DetailMetrics[k]))
				}
			}

			if g.cfg.IncludeCodeSnippets && issue.CodeSnippet != "" {
				sb.WriteString("\n**Code:**\n```swift\n")
				sb.WriteString(issue.CodeSnippet)
				sb.WriteString("\n```\n")
			}

			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

func (g *Generator) generateSARIF(report *model.PerformanceReport) (string, error) {
	issues := report.IssuesAtLeast(model.SeverityLow)

	sarif := map[string]any{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":           toolName,
						"version":        g.version,
						"informationUri": toolInfoURI,
						"rules":          g.buildSARIFRules(issues),
					},
				},
				"results": g.buildSARIFResults(issues),
			},
		},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) buildSARIFRules(issues []model.LocatedIssue) []map[string]any {
	ruleMap := make(map[model.IssueType]bool)
	rules := []map[string]any{}

	for _, located := range issues {
		typ := located.Issue.Type
		if ruleMap[typ] {
			continue
		}
		ruleMap[typ] = true

		rules = append(rules, map[string]any{
			"id":   string(typ),
			"name": typ.Title(),
			"shortDescription": map[string]any{
				"text": typ.Title(),
			},
		})
	}

	return rules
}

func (g *Generator) buildSARIFResults(issues []model.LocatedIssue) []map[string]any {
	results := []map[string]any{}

	for _, located := range issues {
		issue := located.Issue
		region := map[string]any{
			"startLine": issue.Line,
		}
		if issue.Column != nil {
			region["startColumn"] = *issue.Column
		}
		if g.cfg.IncludeCodeSnippets && issue.CodeSnippet != "" {
			region["snippet"] = map[string]any{"text": issue.CodeSnippet}
		}

		result := map[string]any{
			"ruleId":  string(issue.Type),
			"level":   sarifLevel(issue.Severity),
			"message": map[string]any{"text": issue.Message},
			"locations": []map[string]any{
				{
					"physicalLocation": map[string]any{
						"artifactLocation": map[string]any{
							"uri": located.FilePath,
						},
						"region": region,
					},
				},
			},
		}

		if g.cfg.IncludeSuggestions && issue.Suggestion != "" {
			result["fixes"] = []map[string]any{
				{
					"description": map[string]any{"text": issue.Suggestion},
				},
			}
		}
		if g.cfg.IncludeMetrics && len(issue.DetailMetrics) > 0 {
			result["properties"] = issue.DetailMetrics
		}

		results = append(results, result)
	}

	return results
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func severityTag(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "[CRITICAL]"
	case model.SeverityHigh:
		return "[HIGH]"
	case model.SeverityMedium:
		return "[MEDIUM]"
	default:
		return "[LOW]"
	}
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityCritical, model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
