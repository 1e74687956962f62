package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-analyzer/src/model"
)

func TestMemoryRule(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		wantType model.IssueType
		wantSev  model.Severity
		want     bool
	}{
		{"strong delegate", []string{"    var delegate: ItemDelegate?"}, model.IssueMemoryLeak, model.SeverityHigh, true},
		{"delegate type", []string{"    var handler: SelectionDelegate"}, model.IssueMemoryLeak, model.SeverityHigh, true},
		{"weak delegate", []string{"    weak var delegate: ItemDelegate?"}, "", 0, false},
		{"unowned delegate", []string{"    unowned var delegate: ItemDelegate"}, "", 0, false},
		{"unrelated property", []string{"    var dataSource: UITableViewDataSource?"}, "", 0, false},
		{"empty collection", []string{"    var items: [Item] = []"}, model.IssueRedundantComputation, model.SeverityLow, true},
		{"collection with capacity", []string{"    var items: [Item] = []", "    items.reserveCapacity(100)"}, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCompiler()
			r := newMemoryRule(c)
			require.NoError(t, c.err)

			acc := evaluate(t, r, tt.lines...)
			if !tt.want {
				assert.Empty(t, acc.Issues)
				return
			}
			require.Len(t, acc.Issues, 1)
			assert.Equal(t, tt.wantType, acc.Issues[0].Type)
			assert.Equal(t, tt.wantSev, acc.Issues[0].Severity)
			require.NotNil(t, acc.Issues[0].Column)
			assert.Equal(t, 5, *acc.Issues[0].Column)
		})
	}
}
