package rule

import (
	"fmt"
	"regexp"

	"perf-analyzer/src/model"
)

// ComplexityRule approximates the cyclomatic complexity of every function,
// method and computed property with a braced body.
type ComplexityRule struct {
	threshold int
	header    *regexp.Regexp
	decision  *regexp.Regexp
}

func newComplexityRule(c *compiler, threshold int) *ComplexityRule {
	c.rule = "complexity"
	return &ComplexityRule{
		threshold: threshold,
		header: c.compile(
			`^\s*(?:(?:@\w+|public|private|fileprivate|internal|open|static|class|override|final|mutating|nonisolated)\s+)*(?:func|var|let)\s+(\w+).*\{\s*$`),
		decision: c.compile(`\b(?:if|while|for|switch|guard)\b([ \t]*:)?|\bcase\b[^:]*:|&&|\|\|`),
	}
}

// Name returns the rule name
func (r *ComplexityRule) Name() string {
	return "complexity"
}

// Description returns the rule summary
func (r *ComplexityRule) Description() string {
	return fmt.Sprintf("Cyclomatic complexity per function (threshold %d)", r.threshold)
}

// Evaluate measures every function body. Bodies whose braces never
// balance are counted as functions but not measured.
func (r *ComplexityRule) Evaluate(src *Source, acc *Accumulator) {
	var (
		functions int
		measured  int
		total     int
		max       int
	)

	for i, line := range src.Lines {
		m := r.header.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		functions++

		end, ok := blockEnd(src.Lines, i)
		if !ok {
			continue
		}
		complexity := 1 + r.decisions(src.Lines[i:end+1])

		measured++
		total += complexity
		if complexity > max {
			max = complexity
		}

		if severity, found := r.severity(complexity); found {
			name := m[1]
			issue := newIssue(issueSpec{
				typ:      model.IssueComplexity,
				severity: severity,
				message: fmt.Sprintf("Function '%s' has a cyclomatic complexity of %d, above the threshold of %d",
					name, complexity, r.threshold),
				suggestion: fmt.Sprintf("Split '%s' into smaller functions or methods", name),
			}, src.Lines, i)
			issue.DetailMetrics = map[string]any{
				"function":   name,
				"complexity": complexity,
				"threshold":  r.threshold,
				"end_line":   end + 1,
			}
			acc.add(issue)
		}
	}

	acc.Metrics.FunctionCount = functions
	acc.Metrics.MaxCyclomaticComplexity = float64(max)
	if measured > 0 {
		acc.Metrics.AvgCyclomaticComplexity = float64(total) / float64(measured)
	}
}

// decisions counts the branch points in body. String literals, comments
// and argument labels such as for: are not branches.
func (r *ComplexityRule) decisions(body []string) int {
	n := 0
	for _, line := range body {
		for _, m := range r.decision.FindAllStringSubmatchIndex(codeOnly(line), -1) {
			if m[2] < 0 {
				n++
			}
		}
	}
	return n
}

func (r *ComplexityRule) severity(complexity int) (model.Severity, bool) {
	switch {
	case complexity > r.threshold*2:
		return model.SeverityCritical, true
	case complexity > r.threshold+5:
		return model.SeverityHigh, true
	case complexity > r.threshold:
		return model.SeverityMedium, true
	default:
		return model.SeverityLow, false
	}
}
