package model

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of an issue.
// Lower values are more severe; Critical sorts first.
type Severity int

const (
	SeverityCritical Severity = iota
	SeverityHigh
	SeverityMedium
	SeverityLow
)

// AllSeverities lists severities from most to least severe
var AllSeverities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseSeverity parses a severity name, case-insensitively
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical, nil
	case "high":
		return SeverityHigh, nil
	case "medium":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	default:
		return SeverityLow, fmt.Errorf("unknown severity %q", s)
	}
}

// AtLeast reports whether s is as severe as, or more severe than, min.
func (s Severity) AtLeast(min Severity) bool {
	return s <= min
}

// MarshalText encodes the severity by name so it can key JSON and YAML maps
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityCritical || s > SeverityLow {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IssueType is the category an issue belongs to
type IssueType string

const (
	IssueComplexity            IssueType = "complexity"
	IssueNesting               IssueType = "nesting"
	IssueUnsafeCapture         IssueType = "unsafe_capture"
	IssueWrongThreadAccess     IssueType = "data_access_wrong_thread"
	IssueMissingErrorHandling  IssueType = "missing_error_handling"
	IssueDataRace              IssueType = "data_race_risk"
	IssueInefficientCollection IssueType = "inefficient_collection_operation"
	IssueMemoryLeak            IssueType = "memory_leak_risk"
	IssueRedundantComputation  IssueType = "redundant_computation"
)

// AllIssueTypes lists every issue category in report order
var AllIssueTypes = []IssueType{
	IssueComplexity,
	IssueNesting,
	IssueUnsafeCapture,
	IssueWrongThreadAccess,
	IssueMissingErrorHandling,
	IssueDataRace,
	IssueInefficientCollection,
	IssueMemoryLeak,
	IssueRedundantComputation,
}

var issueTitles = map[IssueType]string{
	IssueComplexity:            "Cyclomatic complexity",
	IssueNesting:               "Nesting depth",
	IssueUnsafeCapture:         "Unsafe self capture",
	IssueWrongThreadAccess:     "Data access on the wrong thread",
	IssueMissingErrorHandling:  "Missing error handling",
	IssueDataRace:              "Data race risk",
	IssueInefficientCollection: "Inefficient collection operation",
	IssueMemoryLeak:            "Memory leak risk",
	IssueRedundantComputation:  "Redundant computation",
}

// Title returns a human-readable name for the issue type
func (t IssueType) Title() string {
	if title, ok := issueTitles[t]; ok {
		return title
	}
	return string(t)
}

// ParseIssueType validates an issue type name
func ParseIssueType(s string) (IssueType, error) {
	t := IssueType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllIssueTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown issue type %q", s)
}

// Issue is a single finding on a 1-based source line
type Issue struct {
	Type          IssueType      `json:"type" yaml:"type"`
	Severity      Severity       `json:"severity" yaml:"severity"`
	Line          int            `json:"line" yaml:"line"`
	Column        *int           `json:"column,omitempty" yaml:"column,omitempty"`
	Message       string         `json:"message" yaml:"message"`
	Suggestion    string         `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	CodeSnippet   string         `json:"code_snippet,omitempty" yaml:"code_snippet,omitempty"`
	DetailMetrics map[string]any `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}
