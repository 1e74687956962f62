package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perf-analyzer/src/config"
	"perf-analyzer/src/model"
)

const leakySource = `final class Feed {
    var delegate: FeedDelegate?

    func load() {
        button.onTap = { self.refresh() }
    }
}
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// execute runs the CLI against an isolated config file
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "perf-analyzer.yaml")
	cfgYAML := "logging:\n  level: error\nhistory:\n  path: " + filepath.Join(dir, "history.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0644))

	h := New()
	var out bytes.Buffer
	h.rootCmd.SetOut(&out)
	h.rootCmd.SetErr(&out)
	h.rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := h.Execute()
	return out.String(), err
}

func sourceTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Feed.swift"), []byte(leakySource), 0644))
	return root
}

func TestAnalyze_WritesJSONReport(t *testing.T) {
	root := sourceTree(t)
	reportPath := filepath.Join(t.TempDir(), "out", "report.json")

	_, err := execute(t, "analyze", root, "-o", "json", "-r", reportPath, "--no-progress")
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report model.PerformanceReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 1, report.ProjectStats.TotalFiles)
	assert.Equal(t, 1, report.IssueCountByType[model.IssueUnsafeCapture])
	assert.Equal(t, 1, report.IssueCountByType[model.IssueMemoryLeak])
}

func TestAnalyze_IssuesDoNotFailTheRun(t *testing.T) {
	root := sourceTree(t)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	_, err := execute(t, "analyze", root, "-o", "json", "-r", reportPath, "--min-severity", "critical", "--no-progress")
	require.NoError(t, err)
	assert.FileExists(t, reportPath)
}

func TestAnalyze_MissingRootFails(t *testing.T) {
	_, err := execute(t, "analyze", filepath.Join(t.TempDir(), "absent"), "-o", "json", "--no-progress")
	assert.Error(t, err)
}

func TestAnalyze_InvalidFlagValueFails(t *testing.T) {
	_, err := execute(t, "analyze", sourceTree(t), "--complexity-threshold", "0", "--no-progress")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestAnalyzeFlags_ApplyOnlyChanged(t *testing.T) {
	h := New()
	cmd, _, err := h.rootCmd.Find([]string{"analyze"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags([]string{"-e", "swift,m", "--nesting-threshold", "5", "--no-coredata-analysis"}))

	var f analyzeFlags
	f.extensions, _ = cmd.Flags().GetStringSlice("extensions")
	f.nestingThreshold, _ = cmd.Flags().GetInt("nesting-threshold")
	f.noPersistence, _ = cmd.Flags().GetBool("no-coredata-analysis")

	cfg := config.DefaultConfig()
	f.apply(cmd, cfg)

	assert.Equal(t, []string{"swift", "m"}, cfg.Scan.Extensions)
	assert.Equal(t, 5, cfg.Analysis.NestingThreshold)
	assert.False(t, cfg.Analysis.Rules.Persistence)
	assert.Equal(t, 10, cfg.Analysis.ComplexityThreshold)
	assert.Equal(t, []string{"console"}, cfg.Output.Formats)
	assert.True(t, cfg.Analysis.Rules.Concurrency)
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "rules")
	require.NoError(t, err)

	for _, name := range []string{"complexity", "nesting", "closure_captures", "persistence", "concurrency", "collections", "memory"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "disabled")
}

func TestHistoryCommand_Empty(t *testing.T) {
	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "perf-analyzer 1.0.0\n", out)
}
