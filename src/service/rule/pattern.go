package rule

import (
	"fmt"
	"regexp"

	"perf-analyzer/src/config"
	"perf-analyzer/src/model"
)

// PatternRule is a user-declared rule: one regular expression applied to
// every line.
type PatternRule struct {
	id      string
	pattern *regexp.Regexp
	spec    issueSpec
}

func newPatternRule(c *compiler, custom config.CustomRule) (*PatternRule, error) {
	typ, err := model.ParseIssueType(custom.IssueType)
	if err != nil {
		return nil, fmt.Errorf("custom rule %s: %w", custom.ID, err)
	}
	severity, err := model.ParseSeverity(custom.Severity)
	if err != nil {
		return nil, fmt.Errorf("custom rule %s: %w", custom.ID, err)
	}

	re := c.compileCase(custom.Pattern, custom.CaseInsensitive)
	if c.err != nil {
		return nil, c.err
	}

	message := custom.Message
	if message == "" {
		message = fmt.Sprintf("Line matches custom rule %s", custom.ID)
	}

	return &PatternRule{
		id:      custom.ID,
		pattern: re,
		spec: issueSpec{
			typ:        typ,
			severity:   severity,
			message:    message,
			suggestion: custom.Suggestion,
		},
	}, nil
}

// Name returns the rule identifier
func (r *PatternRule) Name() string {
	return r.id
}

// Description returns the rule summary
func (r *PatternRule) Description() string {
	return fmt.Sprintf("Custom %s rule matching %s", r.spec.typ, r.pattern.String())
}

// Evaluate reports every matching line once, at its first match
func (r *PatternRule) Evaluate(src *Source, acc *Accumulator) {
	for i, line := range src.Lines {
		loc := r.pattern.FindStringIndex(line)
		if loc == nil {
			continue
		}
		issue := newIssue(r.spec, src.Lines, i)
		issue.Column = column(loc[0])
		acc.add(issue)
	}
}
