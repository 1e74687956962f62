package rule

import (
	"fmt"
	"regexp"
	"strings"

	"perf-analyzer/src/model"
)

const (
	// fetchBoundLookahead is how many lines after a fetch request are
	// searched for fetchLimit and fetchBatchSize
	fetchBoundLookahead = 5
	// redirectLookbehind is how many preceding lines may hold a background
	// context redirect for a main context call
	redirectLookbehind = 3
	saveLookbehind     = 5
	loopLookbehind     = 10
	maxPredicateTerms  = 3
)

// PersistenceRule detects Core Data misuse: unbounded queries, heavy work
// on the main context, unhandled fetch errors, row-level writes in loops,
// relationship traversal in loops and costly predicates.
type PersistenceRule struct {
	marker       *regexp.Regexp
	fetchRequest *regexp.Regexp
	mainContext  *regexp.Regexp
	heavyCall    *regexp.Regexp
	background   *regexp.Regexp
	fetchCall    *regexp.Regexp
	tryKeyword   *regexp.Regexp
	saveCall     *regexp.Regexp
	loopHeader   *regexp.Regexp
	rowWrite     *regexp.Regexp
	batchAPI     *regexp.Regexp
	relationship *regexp.Regexp
	loopMarker   *regexp.Regexp
	predicate    *regexp.Regexp
	textSearch   *regexp.Regexp
	index        *regexp.Regexp
	andTerm      *regexp.Regexp
	orTerm       *regexp.Regexp
}

func newPersistenceRule(c *compiler) *PersistenceRule {
	c.rule = "persistence"
	return &PersistenceRule{
		marker: c.compile(
			`\b(?:NSManagedObjectContext|NSManagedObject|NSFetchRequest|NSPredicate|NSFetchedResultsController|NSBatch(?:Delete|Insert|Update)Request|NSPersistentContainer|viewContext|mainContext)\b|\.fetchRequest\(\)|@FetchRequest\b`),
		fetchRequest: c.compileCase(`NSFetchRequest\s*<[^>]*>\s*\(|\.fetchRequest\(\)|\bFetchRequest\s*\(`, true),
		mainContext:  c.compile(`\bviewContext\b|\bmainContext\b`),
		heavyCall:    c.compile(`\.(?:fetch|save|delete|execute|count)\(`),
		background:   c.compile(`performBackgroundTask|newBackgroundContext\(\)|\.perform\s*(?:\(|\{)|performAndWait`),
		fetchCall:    c.compile(`\.fetch\(`),
		tryKeyword:   c.compile(`\btry\b|\bcatch\b`),
		saveCall:     c.compile(`\.save\(\)`),
		loopHeader:   c.compile(`^\s*for\s+.+\s+in\s+.+\{`),
		rowWrite:     c.compile(`\.(?:insert|delete)\(|insertNewObject|\(context:\s*\w+\)`),
		batchAPI:     c.compile(`\bNSBatch(?:Insert|Delete|Update)Request\b|\bbatchInsert\b`),
		relationship: c.compile(`\b(\w+)\.(\w+Set|\w+Array|allObjects|\w+s)\b(\s*\()?`),
		loopMarker:   c.compile(`(?m)^\s*for\s+.+\s+in\s+|\.forEach\s*\{|^\s*while\s`),
		predicate:    c.compileCase(`NSPredicate\s*\(\s*format:\s*"([^"]*)"`, true),
		textSearch:   c.compileCase(`\b(?:BEGINSWITH|CONTAINS|LIKE)\b`, true),
		index:        c.compile(`@Index\b|\bindexed\b`),
		andTerm:      c.compile(`\bAND\b|&&`),
		orTerm:       c.compile(`\bOR\b|\|\|`),
	}
}

// Name returns the rule name
func (r *PersistenceRule) Name() string {
	return "persistence"
}

// Description returns the rule summary
func (r *PersistenceRule) Description() string {
	return "Core Data misuse: unbounded fetches, main context work, row-level loops, costly predicates"
}

// Evaluate does nothing for files that never touch the persistence framework
func (r *PersistenceRule) Evaluate(src *Source, acc *Accumulator) {
	if !r.marker.MatchString(src.Content) && !strings.Contains(src.Content, "CoreData") {
		return
	}

	hasBatchAPI := r.batchAPI.MatchString(src.Content)

	for i, line := range src.Lines {
		if r.marker.MatchString(line) {
			acc.Metrics.PersistenceOperationCount++
		}

		r.checkFetchRequest(src, acc, i)
		r.checkMainContext(src, acc, i)

		if r.fetchCall.MatchString(line) && !r.tryKeyword.MatchString(line) {
			acc.add(newIssue(issueSpec{
				typ:        model.IssueMissingErrorHandling,
				severity:   model.SeverityMedium,
				message:    "Fetch executed without error handling",
				suggestion: "Wrap the fetch in do/try/catch and handle the failure",
			}, src.Lines, i))
		}

		if r.saveCall.MatchString(line) && r.saveCall.MatchString(window(src.Lines, i-saveLookbehind, i)) {
			acc.add(newIssue(issueSpec{
				typ:        model.IssueRedundantComputation,
				severity:   model.SeverityMedium,
				message:    "Context saved repeatedly within a few lines",
				suggestion: "Group changes and save the context once",
			}, src.Lines, i))
		}

		if !hasBatchAPI && r.loopHeader.MatchString(line) {
			if body, ok := blockBody(src.Lines, i); ok && r.rowWrite.MatchString(body) {
				acc.add(newIssue(issueSpec{
					typ:        model.IssueInefficientCollection,
					severity:   model.SeverityMedium,
					message:    "Objects inserted or deleted one by one inside a loop",
					suggestion: "Use NSBatchInsertRequest or NSBatchDeleteRequest",
				}, src.Lines, i))
			}
		}

		r.checkRelationship(src, acc, i)
	}

	r.checkPredicates(src, acc)
}

func (r *PersistenceRule) checkFetchRequest(src *Source, acc *Accumulator, i int) {
	loc := r.fetchRequest.FindStringIndex(src.Lines[i])
	if loc == nil {
		return
	}
	scope := window(src.Lines, i, i+fetchBoundLookahead+1)

	if !strings.Contains(scope, "fetchLimit") {
		issue := newIssue(issueSpec{
			typ:        model.IssueInefficientCollection,
			severity:   model.SeverityMedium,
			message:    "Fetch request without a result limit",
			suggestion: "Set fetchLimit to bound the number of results",
		}, src.Lines, i)
		issue.Column = column(loc[0])
		acc.add(issue)
	}
	if !strings.Contains(scope, "fetchBatchSize") {
		issue := newIssue(issueSpec{
			typ:        model.IssueInefficientCollection,
			severity:   model.SeverityLow,
			message:    "Fetch request without a batch size",
			suggestion: "Set fetchBatchSize (typically 20 to 50) for large result sets",
		}, src.Lines, i)
		issue.Column = column(loc[0])
		acc.add(issue)
	}
}

func (r *PersistenceRule) checkMainContext(src *Source, acc *Accumulator, i int) {
	line := src.Lines[i]
	loc := r.mainContext.FindStringIndex(line)
	if loc == nil || !r.heavyCall.MatchString(line[loc[0]:]) {
		return
	}
	if r.background.MatchString(window(src.Lines, i-redirectLookbehind, i+1)) {
		return
	}

	issue := newIssue(issueSpec{
		typ:        model.IssueWrongThreadAccess,
		severity:   model.SeverityHigh,
		message:    "Heavy Core Data operation on the main context",
		suggestion: "Move the work to a background context with performBackgroundTask",
	}, src.Lines, i)
	issue.Column = column(loc[0])
	acc.add(issue)
}

// nonRelationshipMembers are plural-looking members of collections and
// common types that never traverse a relationship
var nonRelationshipMembers = map[string]bool{
	"keys":      true,
	"values":    true,
	"indices":   true,
	"contains":  true,
	"allKeys":   true,
	"allValues": true,
}

// relationshipAccess returns the submatch indexes of the first to-many
// relationship access on line. Method calls are not accesses.
func (r *PersistenceRule) relationshipAccess(line string) []int {
	for _, m := range r.relationship.FindAllStringSubmatchIndex(line, -1) {
		if m[6] >= 0 || nonRelationshipMembers[line[m[4]:m[5]]] {
			continue
		}
		return m
	}
	return nil
}

func (r *PersistenceRule) checkRelationship(src *Source, acc *Accumulator, i int) {
	m := r.relationshipAccess(src.Lines[i])
	if m == nil {
		return
	}
	if !r.loopMarker.MatchString(window(src.Lines, i-loopLookbehind, i)) {
		return
	}

	entity := src.Lines[i][m[2]:m[3]]
	issue := newIssue(issueSpec{
		typ:        model.IssueRedundantComputation,
		severity:   model.SeverityMedium,
		message:    fmt.Sprintf("Relationship of '%s' traversed inside a loop", entity),
		suggestion: "Prefetch the relationship with relationshipKeyPathsForPrefetching",
	}, src.Lines, i)
	issue.Column = column(m[2])
	acc.add(issue)
}

func (r *PersistenceRule) checkPredicates(src *Source, acc *Accumulator) {
	indexed := r.index.MatchString(src.Content)

	for _, m := range r.predicate.FindAllStringSubmatchIndex(src.Content, -1) {
		format := src.Content[m[2]:m[3]]
		idx := lineOfOffset(src.Content, m[0])

		if r.textSearch.MatchString(format) && !indexed {
			issue := newIssue(issueSpec{
				typ:        model.IssueRedundantComputation,
				severity:   model.SeverityHigh,
				message:    fmt.Sprintf("Text search predicate without an index: %s", format),
				suggestion: "Index the attributes used by BEGINSWITH, CONTAINS or LIKE predicates",
			}, src.Lines, idx)
			issue.DetailMetrics = map[string]any{"predicate": format}
			acc.add(issue)
		}

		ands := len(r.andTerm.FindAllStringIndex(format, -1))
		ors := len(r.orTerm.FindAllStringIndex(format, -1))
		upper := strings.ToUpper(format)
		if ands > maxPredicateTerms || ors > maxPredicateTerms ||
			(strings.Contains(upper, "ANY") && strings.Contains(upper, "SUBQUERY")) {
			issue := newIssue(issueSpec{
				typ:        model.IssueRedundantComputation,
				severity:   model.SeverityMedium,
				message:    "Complex predicate may slow down fetches",
				suggestion: "Split the query or denormalize the attributes it filters on",
			}, src.Lines, idx)
			issue.DetailMetrics = map[string]any{
				"predicate": format,
				"and_terms": ands,
				"or_terms":  ors,
			}
			acc.add(issue)
		}
	}
}
