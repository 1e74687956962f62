package model

// MaxHotspots is the number of hotspot files kept in a finalized report
const MaxHotspots = 10

// AnalysisResult is the outcome of analyzing one file.
// It is built once by the file analyzer and never modified afterwards.
type AnalysisResult struct {
	FilePath  string      `json:"file_path" yaml:"file_path"`
	FileSize  int64       `json:"file_size" yaml:"file_size"`
	LineCount int         `json:"line_count" yaml:"line_count"`
	Metrics   FileMetrics `json:"metrics" yaml:"metrics"`
	Issues    []Issue     `json:"issues" yaml:"issues"`
}

// HotspotFile ranks a file by criticality. Derived from an AnalysisResult.
type HotspotFile struct {
	FilePath         string  `json:"file_path" yaml:"file_path"`
	IssueCount       int     `json:"issue_count" yaml:"issue_count"`
	CriticalityScore float64 `json:"criticality_score" yaml:"criticality_score"`
}

// ProjectStats contains project-wide totals
type ProjectStats struct {
	TotalFiles       int     `json:"total_files" yaml:"total_files"`
	ProblematicFiles int     `json:"problematic_files" yaml:"problematic_files"`
	TotalLines       int     `json:"total_lines" yaml:"total_lines"`
	HealthScore      float64 `json:"health_score" yaml:"health_score"`
}

// PerformanceReport is the aggregate handed to renderers once a run completes
type PerformanceReport struct {
	FilesAnalyzed        []AnalysisResult  `json:"files_analyzed" yaml:"files_analyzed"`
	IssueCountByType     map[IssueType]int `json:"issue_count_by_type" yaml:"issue_count_by_type"`
	IssueCountBySeverity map[Severity]int  `json:"issue_count_by_severity" yaml:"issue_count_by_severity"`
	Hotspots             []HotspotFile     `json:"hotspots" yaml:"hotspots"`
	ProjectStats         ProjectStats      `json:"project_stats" yaml:"project_stats"`
}

// NewPerformanceReport creates an empty report for totalFiles files
func NewPerformanceReport(totalFiles int) *PerformanceReport {
	return &PerformanceReport{
		FilesAnalyzed:        make([]AnalysisResult, 0, totalFiles),
		IssueCountByType:     make(map[IssueType]int),
		IssueCountBySeverity: make(map[Severity]int),
		Hotspots:             []HotspotFile{},
		ProjectStats: ProjectStats{
			TotalFiles:  totalFiles,
			HealthScore: 100,
		},
	}
}

// TotalIssues returns the number of issues across all analyzed files
func (r *PerformanceReport) TotalIssues() int {
	total := 0
	for _, result := range r.FilesAnalyzed {
		total += len(result.Issues)
	}
	return total
}

// LocatedIssue pairs an issue with the file it was found in
type LocatedIssue struct {
	FilePath string
	Issue    Issue
}

// IssuesAtLeast returns every issue at least as severe as min, ordered by
// descending severity. Issues of equal severity keep discovery order.
func (r *PerformanceReport) IssuesAtLeast(min Severity) []LocatedIssue {
	var out []LocatedIssue
	for _, sev := range AllSeverities {
		if !sev.AtLeast(min) {
			break
		}
		for _, result := range r.FilesAnalyzed {
			for _, issue := range result.Issues {
				if issue.Severity == sev {
					out = append(out, LocatedIssue{FilePath: result.FilePath, Issue: issue})
				}
			}
		}
	}
	return out
}
