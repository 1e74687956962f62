package analyzer

import (
	"fmt"
	"os"
	"unicode/utf8"

	"perf-analyzer/src/model"
	"perf-analyzer/src/service/rule"
	"perf-analyzer/src/util"
)

// FileAnalyzer runs the registry's rules against single files.
// It holds no per-file state and is safe for concurrent use.
type FileAnalyzer struct {
	registry *rule.Registry
	rules    []rule.Rule
}

// NewFileAnalyzer creates a file analyzer for the given registry
func NewFileAnalyzer(registry *rule.Registry) *FileAnalyzer {
	return &FileAnalyzer{
		registry: registry,
		rules:    registry.Rules(),
	}
}

// Analyze reads and analyzes the file at path. A file that cannot be read
// yields an empty result for that path; the failure is logged, not returned.
func (a *FileAnalyzer) Analyze(path string) model.AnalysisResult {
	content, size, err := readSource(path)
	if err != nil {
		util.Warn("Skipping %s: %v", path, err)
		return emptyResult(path)
	}
	return a.AnalyzeContent(path, content, size)
}

// AnalyzeContent analyzes already loaded file content. The result depends
// only on its arguments and the registry.
func (a *FileAnalyzer) AnalyzeContent(path string, content []byte, size int64) model.AnalysisResult {
	src := rule.NewSource(path, string(content))

	acc := &rule.Accumulator{}
	for _, r := range a.rules {
		r.Evaluate(src, acc)
	}

	minSeverity := a.registry.MinSeverity()
	issues := make([]model.Issue, 0, len(acc.Issues))
	for _, issue := range acc.Issues {
		if issue.Severity.AtLeast(minSeverity) {
			issues = append(issues, issue)
		}
	}

	return model.AnalysisResult{
		FilePath:  path,
		FileSize:  size,
		LineCount: len(src.Lines),
		Metrics:   acc.Metrics,
		Issues:    issues,
	}
}

func readSource(path string) ([]byte, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	if !info.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("not a regular file")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	if !utf8.Valid(content) {
		return nil, 0, fmt.Errorf("content is not valid UTF-8")
	}
	return content, info.Size(), nil
}

func emptyResult(path string) model.AnalysisResult {
	return model.AnalysisResult{
		FilePath: path,
		Issues:   []model.Issue{},
	}
}
