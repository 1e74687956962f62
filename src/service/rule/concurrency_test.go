package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-analyzer/src/model"
)

func TestConcurrencyRule(t *testing.T) {
	c := newTestCompiler()
	r := newConcurrencyRule(c)
	require.NoError(t, c.err)

	acc := evaluate(t, r,
		"var cache: [String: Int] = [:]",
		"func load() async {",
		"    DispatchQueue.main.async { self.reload() }",
		"    var results: Array<Int> = []",
		"    weak var observers: Set<Observer>?",
		"}",
	)

	require.Len(t, acc.Issues, 2)
	assert.Equal(t, model.IssueDataRace, acc.Issues[0].Type)
	assert.Equal(t, model.SeverityHigh, acc.Issues[0].Severity)
	assert.Equal(t, 3, acc.Issues[0].Line)
	assert.Equal(t, model.IssueDataRace, acc.Issues[1].Type)
	assert.Equal(t, model.SeverityMedium, acc.Issues[1].Severity)
	assert.Equal(t, 4, acc.Issues[1].Line)

	assert.Equal(t, 2, acc.Metrics.AsyncOperationCount)
	assert.Equal(t, 1, acc.Metrics.ConcurrencyPrimitiveCount)
}

func TestConcurrencyRuleCountsCurrentLine(t *testing.T) {
	c := newTestCompiler()
	r := newConcurrencyRule(c)
	require.NoError(t, c.err)

	acc := evaluate(t, r, "let t = Task { var items: [Int] = [] }")

	require.Len(t, acc.Issues, 1)
	assert.Equal(t, model.SeverityMedium, acc.Issues[0].Severity)
	assert.Equal(t, 1, acc.Metrics.ConcurrencyPrimitiveCount)
}

func TestConcurrencyRuleNoAsync(t *testing.T) {
	c := newTestCompiler()
	r := newConcurrencyRule(c)
	require.NoError(t, c.err)

	acc := evaluate(t, r, "var names: [String] = []", "var ids: Set<Int> = []")

	assert.Empty(t, acc.Issues)
	assert.Zero(t, acc.Metrics.AsyncOperationCount)
}
