package rule

import (
	"regexp"
	"strings"

	"perf-analyzer/src/model"
)

// CaptureRule flags closures that reference self without a weak or
// unowned capture list.
type CaptureRule struct {
	captureList *regexp.Regexp
	weakList    *regexp.Regexp
	selfAccess  *regexp.Regexp
	declaration *regexp.Regexp
}

func newCaptureRule(c *compiler) *CaptureRule {
	c.rule = "closure_captures"
	return &CaptureRule{
		captureList: c.compile(`\{\s*\[[^\]]*\]`),
		weakList:    c.compile(`\[\s*(?:weak|unowned(?:\(\w+\))?)\s+self\s*\]`),
		selfAccess:  c.compile(`\{[^{}]*\bself\.`),
		declaration: c.compile(
			`^\s*(?:\}\s*)?(?:(?:@\w+|public|private|fileprivate|internal|open|static|override|final|mutating|lazy)\s+)*(?:(?:if|guard|for|while|switch|else|func|init|deinit|do|repeat|catch|defer|class|struct|enum|extension|protocol|actor)\b|(?:var|let)\s+[^=]*$)`),
	}
}

// Name returns the rule name
func (r *CaptureRule) Name() string {
	return "closure_captures"
}

// Description returns the rule summary
func (r *CaptureRule) Description() string {
	return "Closures capturing self strongly (retain cycle risk)"
}

// Evaluate reports at most one issue per line
func (r *CaptureRule) Evaluate(src *Source, acc *Accumulator) {
	for i, line := range src.Lines {
		if r.captureList.MatchString(line) {
			acc.Metrics.SelfCaptureCount++
		}
		if r.weakList.MatchString(line) {
			continue
		}

		loc := r.selfAccess.FindStringIndex(line)
		if loc == nil {
			continue
		}

		// Braces opening a statement or declaration body are not closures.
		// Only the text since the previous brace belongs to the construct
		// the matched brace opens.
		prefix := line[:loc[0]]
		if k := strings.LastIndexAny(prefix, "{}"); k >= 0 {
			if prefix[k] == '{' {
				k++
			}
			prefix = prefix[k:]
		}
		if r.declaration.MatchString(prefix) {
			continue
		}

		issue := newIssue(issueSpec{
			typ:        model.IssueUnsafeCapture,
			severity:   model.SeverityHigh,
			message:    "Closure references 'self' without a [weak self] capture",
			suggestion: "Capture self with [weak self] or [unowned self] to avoid a retain cycle",
		}, src.Lines, i)
		issue.Column = column(loc[0])
		acc.add(issue)
	}
}
