package rule

import (
	"fmt"
	"regexp"
	"strings"

	"perf-analyzer/src/model"
)

// MemoryRule flags strong delegate references and empty collection
// declarations that are never given a capacity.
type MemoryRule struct {
	property   *regexp.Regexp
	collection *regexp.Regexp
}

func newMemoryRule(c *compiler) *MemoryRule {
	c.rule = "memory"
	return &MemoryRule{
		property:   c.compile(`(?:\b(weak|unowned)\s+)?\bvar\s+(\w+)\s*:\s*([\w.?!<>]+)`),
		collection: c.compile(`\bvar\s+(\w+)\s*:\s*\[.*\]\s*=\s*\[\]`),
	}
}

// Name returns the rule name
func (r *MemoryRule) Name() string {
	return "memory"
}

// Description returns the rule summary
func (r *MemoryRule) Description() string {
	return "Strong delegate references and large collections without capacity hints"
}

// Evaluate checks property declarations line by line
func (r *MemoryRule) Evaluate(src *Source, acc *Accumulator) {
	for i, line := range src.Lines {
		if m := r.property.FindStringSubmatchIndex(line); m != nil && m[2] < 0 {
			name := line[m[4]:m[5]]
			typ := line[m[6]:m[7]]
			if strings.Contains(strings.ToLower(name), "delegate") || strings.Contains(strings.ToLower(typ), "delegate") {
				issue := newIssue(issueSpec{
					typ:        model.IssueMemoryLeak,
					severity:   model.SeverityHigh,
					message:    fmt.Sprintf("Delegate '%s' is held strongly and may cause a retain cycle", name),
					suggestion: "Declare delegate properties as 'weak var'",
				}, src.Lines, i)
				issue.Column = column(m[0])
				acc.add(issue)
			}
		}

		if m := r.collection.FindStringSubmatchIndex(line); m != nil {
			name := line[m[2]:m[3]]
			if strings.Contains(src.Content, name+".reserveCapacity(") {
				continue
			}
			issue := newIssue(issueSpec{
				typ:        model.IssueRedundantComputation,
				severity:   model.SeverityLow,
				message:    fmt.Sprintf("Collection '%s' has no initial capacity", name),
				suggestion: "Reserve capacity when the final size is known in advance",
			}, src.Lines, i)
			issue.Column = column(m[0])
			acc.add(issue)
		}
	}
}
