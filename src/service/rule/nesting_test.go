package rule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-analyzer/src/model"
)

func TestNestingRule(t *testing.T) {
	c := newTestCompiler()
	r := newNestingRule(c, 3)
	require.NoError(t, c.err)

	deep := strings.Repeat("    ", 4)
	acc := evaluate(t, r,
		"func a() {",
		"            if x {",
		deep+"if y {",
		deep+"let z = 1",
		deep+"} else if w {",
		"\t\t\t\tfor i in items {",
		strings.Repeat(" ", 24),
		"}",
	)

	require.Len(t, acc.Issues, 3)
	assert.Equal(t, []int{3, 5, 6}, []int{acc.Issues[0].Line, acc.Issues[1].Line, acc.Issues[2].Line})
	for _, issue := range acc.Issues {
		assert.Equal(t, model.IssueNesting, issue.Type)
		assert.Equal(t, model.SeverityMedium, issue.Severity)
		assert.Equal(t, 4, issue.DetailMetrics["depth"])
	}
	assert.Equal(t, 4, acc.Metrics.MaxNestingDepth)
}

func TestNestingRuleTracksDepthWithoutIssues(t *testing.T) {
	c := newTestCompiler()
	r := newNestingRule(c, 3)
	require.NoError(t, c.err)

	acc := evaluate(t, r, "func a() {", strings.Repeat(" ", 20)+"print(1)", "}")

	assert.Empty(t, acc.Issues)
	assert.Equal(t, 5, acc.Metrics.MaxNestingDepth)
}

func TestIndentation(t *testing.T) {
	assert.Equal(t, 0, indentation("func a() {"))
	assert.Equal(t, 8, indentation("        if x {"))
	assert.Equal(t, 8, indentation("\t\tif x {"))
	assert.Equal(t, 6, indentation("\t  if x {"))
	assert.Equal(t, 3, indentation("   "))
}
