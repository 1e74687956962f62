package rule

import (
	"fmt"
	"regexp"
	"strings"

	"perf-analyzer/src/model"
)

// indentWidth is the number of columns that make up one nesting level
const indentWidth = 4

// NestingRule approximates nesting depth from indentation
type NestingRule struct {
	threshold int
	control   *regexp.Regexp
}

func newNestingRule(c *compiler, threshold int) *NestingRule {
	c.rule = "nesting"
	return &NestingRule{
		threshold: threshold,
		control:   c.compile(`^\s*(?:\}\s*else\s+)?(?:if|for|while|switch|guard|repeat)\b`),
	}
}

// Name returns the rule name
func (r *NestingRule) Name() string {
	return "nesting"
}

// Description returns the rule summary
func (r *NestingRule) Description() string {
	return fmt.Sprintf("Control constructs opened deeper than %d indentation levels", r.threshold)
}

// Evaluate flags control constructs opened past the nesting threshold and
// records the deepest indentation level seen in the file.
func (r *NestingRule) Evaluate(src *Source, acc *Accumulator) {
	maxDepth := 0

	for i, line := range src.Lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth := indentation(line) / indentWidth
		if depth > maxDepth {
			maxDepth = depth
		}

		if depth > r.threshold && r.control.MatchString(line) {
			issue := newIssue(issueSpec{
				typ:        model.IssueNesting,
				severity:   model.SeverityMedium,
				message:    fmt.Sprintf("Excessive nesting depth (%d)", depth),
				suggestion: "Extract this code into a separate function or use early exits",
			}, src.Lines, i)
			issue.DetailMetrics = map[string]any{
				"depth":     depth,
				"threshold": r.threshold,
			}
			acc.add(issue)
		}
	}

	acc.Metrics.MaxNestingDepth = maxDepth
}

// indentation returns the width of the leading whitespace, counting a tab
// as one full level
func indentation(line string) int {
	width := 0
	for _, c := range line {
		switch c {
		case ' ':
			width++
		case '\t':
			width += indentWidth
		default:
			return width
		}
	}
	return width
}
