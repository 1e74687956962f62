package rule

import (
	"regexp"

	"perf-analyzer/src/model"
)

// ConcurrencyRule flags main queue dispatch mixed with async work and
// mutable collections declared once asynchronous code has appeared.
type ConcurrencyRule struct {
	async            *regexp.Regexp
	primitive        *regexp.Regexp
	race             *regexp.Regexp
	sharedCollection *regexp.Regexp
}

func newConcurrencyRule(c *compiler) *ConcurrencyRule {
	c.rule = "concurrency"
	return &ConcurrencyRule{
		async:            c.compile(`\basync\b|\bawait\b|\bcompletionHandler\b|\b(?:DispatchQueue|Task|TaskGroup|OperationQueue)\b`),
		primitive:        c.compile(`DispatchQueue|Task|Thread`),
		race:             c.compile(`\bDispatchQueue\.main\b.*\basync\b`),
		sharedCollection: c.compile(`(?:\b(weak|unowned)\s+)?\bvar\s+\w+\s*:\s*(?:(?:Array|Dictionary|Set)<|\[)`),
	}
}

// Name returns the rule name
func (r *ConcurrencyRule) Name() string {
	return "concurrency"
}

// Description returns the rule summary
func (r *ConcurrencyRule) Description() string {
	return "Data race risks around dispatch queues and shared mutable collections"
}

// Evaluate scans lines in order. The async marker count includes the
// current line, so a declaration on the first async line is reported.
func (r *ConcurrencyRule) Evaluate(src *Source, acc *Accumulator) {
	asyncSeen := 0

	for i, line := range src.Lines {
		if r.async.MatchString(line) {
			asyncSeen++
			acc.Metrics.AsyncOperationCount++
			if r.primitive.MatchString(line) {
				acc.Metrics.ConcurrencyPrimitiveCount++
			}

			if loc := r.race.FindStringIndex(line); loc != nil {
				issue := newIssue(issueSpec{
					typ:        model.IssueDataRace,
					severity:   model.SeverityHigh,
					message:    "Possible race condition between main queue dispatch and async work",
					suggestion: "Isolate the shared state with an actor or @MainActor",
				}, src.Lines, i)
				issue.Column = column(loc[0])
				acc.add(issue)
			}
		}

		if asyncSeen == 0 {
			continue
		}
		m := r.sharedCollection.FindStringSubmatchIndex(line)
		if m == nil || m[2] >= 0 {
			continue
		}
		issue := newIssue(issueSpec{
			typ:        model.IssueDataRace,
			severity:   model.SeverityMedium,
			message:    "Mutable collection may be shared between threads",
			suggestion: "Protect the collection with an actor, @MainActor or explicit synchronization",
		}, src.Lines, i)
		issue.Column = column(m[0])
		acc.add(issue)
	}
}
