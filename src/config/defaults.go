package config

import (
	"os"
	"path/filepath"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:        "perf-analyzer",
			Version:     "1.0.0",
			Description: "Multi-threaded performance analyzer for source trees",
		},
		Analysis: AnalysisConfig{
			ComplexityThreshold: 10,
			NestingThreshold:    3,
			MinSeverity:         "low",
			Rules: RulesConfig{
				ClosureCaptures: true,
				Persistence:     true,
				Concurrency:     true,
				Collections:     true,
				Memory:          true,
			},
		},
		Scan: ScanConfig{
			Extensions: []string{"swift"},
			ExcludePatterns: []string{
				"**/.build/**", "**/Pods/**", "**/Carthage/**",
				"**/DerivedData/**", "**/.git/**",
			},
			FollowSymlinks: false,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 0,
		},
		Output: OutputConfig{
			Formats:             []string{"console"},
			OutputDir:           ".",
			IncludeSuggestions:  true,
			IncludeMetrics:      true,
			IncludeCodeSnippets: true,
			MaxConsoleIssues:    20,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    filepath.Join(os.Getenv("HOME"), ".perf-analyzer", "history.db"),
		},
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			IncludeTimestamp: true,
		},
	}
}
