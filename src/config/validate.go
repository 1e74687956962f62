package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// SupportedFormats lists the report formats understood by the report generator
var SupportedFormats = []string{"console", "json", "yaml", "markdown", "md", "sarif", "html"}

var severityNames = []string{"critical", "high", "medium", "low"}

// Validate checks the configuration for values the analyzer cannot run with
func (c *Config) Validate() error {
	a := c.Analysis
	if a.ComplexityThreshold <= 0 {
		return fmt.Errorf("%w: complexity_threshold must be positive, got %d", ErrInvalidConfig, a.ComplexityThreshold)
	}
	if a.NestingThreshold <= 0 {
		return fmt.Errorf("%w: nesting_threshold must be positive, got %d", ErrInvalidConfig, a.NestingThreshold)
	}
	if !contains(severityNames, a.MinSeverity) {
		return fmt.Errorf("%w: unknown min_severity %q", ErrInvalidConfig, a.MinSeverity)
	}

	seen := make(map[string]bool)
	for i, r := range a.CustomRules {
		if r.ID == "" {
			return fmt.Errorf("%w: custom_rules[%d] has no id", ErrInvalidConfig, i)
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: duplicate custom rule id %q", ErrInvalidConfig, r.ID)
		}
		seen[r.ID] = true
		if r.Pattern == "" {
			return fmt.Errorf("%w: custom rule %q has an empty pattern", ErrInvalidConfig, r.ID)
		}
		if !contains(severityNames, r.Severity) {
			return fmt.Errorf("%w: custom rule %q has unknown severity %q", ErrInvalidConfig, r.ID, r.Severity)
		}
	}

	if len(c.Scan.Extensions) == 0 {
		return fmt.Errorf("%w: scan.extensions must not be empty", ErrInvalidConfig)
	}
	if c.Concurrency.Workers < 0 {
		return fmt.Errorf("%w: concurrency.workers must not be negative, got %d", ErrInvalidConfig, c.Concurrency.Workers)
	}
	for _, f := range c.Output.Formats {
		if !contains(SupportedFormats, f) {
			return fmt.Errorf("%w: unsupported output format %q", ErrInvalidConfig, f)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
