package rule

import (
	"regexp"
	"strings"

	"perf-analyzer/src/model"
)

// CollectionRule flags imperative loops that filter or accumulate into a
// collection without combinators or preallocation.
type CollectionRule struct {
	loopHeader  *regexp.Regexp
	combinator  *regexp.Regexp
	conditional *regexp.Regexp
	mutation    *regexp.Regexp
}

func newCollectionRule(c *compiler) *CollectionRule {
	c.rule = "collections"
	return &CollectionRule{
		loopHeader:  c.compile(`^\s*for\s+.+\s+in\s+.+\{`),
		combinator:  c.compile(`\.(?:filter|map|compactMap|flatMap|reduce)\s*[({]|\.first\(where:|\.contains\(where:`),
		conditional: c.compile(`^\s*if\s`),
		mutation:    c.compile(`\.append\(|\[\w+\]\s*=[^=]`),
	}
}

// Name returns the rule name
func (r *CollectionRule) Name() string {
	return "collections"
}

// Description returns the rule summary
func (r *CollectionRule) Description() string {
	return "Loops replaceable by combinators and collections grown without reserved capacity"
}

// Evaluate inspects the body of every for-in loop
func (r *CollectionRule) Evaluate(src *Source, acc *Accumulator) {
	reserves := strings.Contains(src.Content, "reserveCapacity")

	for i, line := range src.Lines {
		if !r.loopHeader.MatchString(line) {
			continue
		}
		body, ok := blockBody(src.Lines, i)
		if !ok {
			continue
		}

		if r.conditional.MatchString(body) && !r.combinator.MatchString(line) {
			acc.add(newIssue(issueSpec{
				typ:        model.IssueInefficientCollection,
				severity:   model.SeverityLow,
				message:    "Loop with a condition could be written with filter, compactMap or first(where:)",
				suggestion: "Use filter, map, compactMap or reduce",
			}, src.Lines, i))
		}

		if r.mutation.MatchString(body) && !reserves {
			acc.add(newIssue(issueSpec{
				typ:        model.IssueInefficientCollection,
				severity:   model.SeverityMedium,
				message:    "Collection grown inside a loop without preallocation",
				suggestion: "Call reserveCapacity before the loop or build the collection with map",
			}, src.Lines, i))
		}
	}
}
