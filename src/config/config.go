package config

// Config is the root configuration structure
type Config struct {
	Agent       AgentConfig       `yaml:"agent"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Scan        ScanConfig        `yaml:"scan"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
	History     HistoryConfig     `yaml:"history"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// AgentConfig contains tool metadata
type AgentConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// AnalysisConfig contains rule thresholds and toggles.
// It is shared read-only by every file analysis of a run.
type AnalysisConfig struct {
	ComplexityThreshold int          `yaml:"complexity_threshold"`
	NestingThreshold    int          `yaml:"nesting_threshold"`
	MinSeverity         string       `yaml:"min_severity"`
	Rules               RulesConfig  `yaml:"rules"`
	CustomRules         []CustomRule `yaml:"custom_rules"`
}

// RulesConfig toggles the optional analysis categories.
// Complexity and nesting always run.
type RulesConfig struct {
	ClosureCaptures bool `yaml:"closure_captures"`
	Persistence     bool `yaml:"persistence"`
	Concurrency     bool `yaml:"concurrency"`
	Collections     bool `yaml:"collections"`
	Memory          bool `yaml:"memory"`
}

// CustomRule declares a single-pattern rule evaluated against every line
type CustomRule struct {
	ID              string `yaml:"id"`
	Pattern         string `yaml:"pattern"`
	CaseInsensitive bool   `yaml:"case_insensitive"`
	IssueType       string `yaml:"issue_type"`
	Severity        string `yaml:"severity"`
	Message         string `yaml:"message"`
	Suggestion      string `yaml:"suggestion"`
}

// ScanConfig controls which files are collected for analysis
type ScanConfig struct {
	Extensions      []string `yaml:"extensions"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
	FollowSymlinks  bool     `yaml:"follow_symlinks"`
}

// ConcurrencyConfig contains worker pool settings
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"` // 0 = number of CPUs
}

// OutputConfig contains report output settings
type OutputConfig struct {
	Formats             []string `yaml:"formats"`
	OutputDir           string   `yaml:"output_dir"`
	ReportPath          string   `yaml:"report_path"`
	IncludeSuggestions  bool     `yaml:"include_suggestions"`
	IncludeMetrics      bool     `yaml:"include_metrics"`
	IncludeCodeSnippets bool     `yaml:"include_code_snippets"`
	MaxConsoleIssues    int      `yaml:"max_console_issues"`
}

// HistoryConfig controls persistence of run summaries
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"` // text, json
	File             string `yaml:"file"`
	IncludeTimestamp bool   `yaml:"include_timestamp"`
}
