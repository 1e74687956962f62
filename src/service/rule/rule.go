package rule

import (
	"strings"

	"perf-analyzer/src/model"
)

// Source is the text of one file. Lines are split once and shared by
// every rule that runs against the file.
type Source struct {
	Path    string
	Content string
	Lines   []string
}

// NewSource splits content into lines. Line terminators (\n or \r\n) are
// removed and a trailing terminator does not produce an empty last line.
func NewSource(path, content string) *Source {
	return &Source{
		Path:    path,
		Content: content,
		Lines:   splitLines(content),
	}
}

func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Accumulator collects the issues and metrics of one file while its rules
// run in order. Each file analysis owns its accumulator.
type Accumulator struct {
	Metrics model.FileMetrics
	Issues  []model.Issue
}

func (a *Accumulator) add(issue model.Issue) {
	a.Issues = append(a.Issues, issue)
}

// Rule is a single detector. Evaluate must only read src and must not
// retain acc after returning; rules are shared by concurrent analyses.
type Rule interface {
	// Name returns the rule identifier
	Name() string

	// Description returns a one-line summary for listings
	Description() string

	// Evaluate appends the rule's issues and metric updates to acc
	Evaluate(src *Source, acc *Accumulator)
}

type issueSpec struct {
	typ        model.IssueType
	severity   model.Severity
	message    string
	suggestion string
}

// newIssue builds an issue for the 0-based line index idx
func newIssue(spec issueSpec, lines []string, idx int) model.Issue {
	issue := model.Issue{
		Type:       spec.typ,
		Severity:   spec.severity,
		Line:       idx + 1,
		Message:    spec.message,
		Suggestion: spec.suggestion,
	}
	if idx >= 0 && idx < len(lines) {
		issue.CodeSnippet = strings.TrimRight(lines[idx], " \t")
	}
	return issue
}

func column(byteOffset int) *int {
	c := byteOffset + 1
	return &c
}

// window joins lines[from:to] after clamping both bounds
func window(lines []string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from >= to {
		return ""
	}
	return strings.Join(lines[from:to], "\n")
}

// lineOfOffset returns the 0-based line index containing byte offset off
func lineOfOffset(content string, off int) int {
	return strings.Count(content[:off], "\n")
}
