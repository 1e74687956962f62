package rule

import (
	"fmt"
	"regexp"
	"sync"

	"perf-analyzer/src/config"
	"perf-analyzer/src/model"
	"perf-analyzer/src/util"
)

// PatternError reports a rule pattern that failed to compile.
// It is a configuration error: no file is analyzed once it occurs.
type PatternError struct {
	RuleID  string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("rule %s: invalid pattern %q: %v", e.RuleID, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

type patternKey struct {
	pattern         string
	caseInsensitive bool
}

// PatternCache compiles regular expressions once and hands out the shared
// compiled form. Compiled expressions are safe for concurrent use.
type PatternCache struct {
	mu       sync.RWMutex
	compiled map[patternKey]*regexp.Regexp
}

// NewPatternCache creates an empty cache
func NewPatternCache() *PatternCache {
	return &PatternCache{compiled: make(map[patternKey]*regexp.Regexp)}
}

// Get returns the compiled form of pattern, compiling it on first use
func (c *PatternCache) Get(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	key := patternKey{pattern: pattern, caseInsensitive: caseInsensitive}

	c.mu.RLock()
	if re, ok := c.compiled[key]; ok {
		c.mu.RUnlock()
		return re, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if re, ok := c.compiled[key]; ok {
		return re, nil
	}

	expr := pattern
	if caseInsensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	c.compiled[key] = re
	return re, nil
}

// Len returns the number of compiled patterns
func (c *PatternCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.compiled)
}

// compiler compiles the patterns of one rule and keeps the first failure
type compiler struct {
	cache *PatternCache
	rule  string
	err   error
}

func (c *compiler) compile(pattern string) *regexp.Regexp {
	return c.compileCase(pattern, false)
}

func (c *compiler) compileCase(pattern string, caseInsensitive bool) *regexp.Regexp {
	if c.err != nil {
		return nil
	}
	re, err := c.cache.Get(pattern, caseInsensitive)
	if err != nil {
		c.err = &PatternError{RuleID: c.rule, Pattern: pattern, Err: err}
		return nil
	}
	return re
}

// Info describes a registered rule for listings
type Info struct {
	Name        string
	Description string
	Enabled     bool
	Custom      bool
}

// Registry owns the analysis settings, the pattern cache and the ordered
// list of rules run against every file. Built once per run and shared
// read-only by all workers.
type Registry struct {
	minSeverity model.Severity
	patterns    *PatternCache
	rules       []Rule
	catalog     []Info
}

// NewRegistry compiles every enabled rule. Built-in rules run in a fixed
// order (complexity, nesting, closure capture, persistence, concurrency,
// collections, memory) followed by custom rules in declaration order.
func NewRegistry(cfg config.AnalysisConfig) (*Registry, error) {
	minSeverity, err := model.ParseSeverity(cfg.MinSeverity)
	if err != nil {
		return nil, fmt.Errorf("min severity: %w", err)
	}

	r := &Registry{
		minSeverity: minSeverity,
		patterns:    NewPatternCache(),
	}

	builtins := []struct {
		enabled bool
		build   func(*compiler) Rule
	}{
		{true, func(c *compiler) Rule { return newComplexityRule(c, cfg.ComplexityThreshold) }},
		{true, func(c *compiler) Rule { return newNestingRule(c, cfg.NestingThreshold) }},
		{cfg.Rules.ClosureCaptures, func(c *compiler) Rule { return newCaptureRule(c) }},
		{cfg.Rules.Persistence, func(c *compiler) Rule { return newPersistenceRule(c) }},
		{cfg.Rules.Concurrency, func(c *compiler) Rule { return newConcurrencyRule(c) }},
		{cfg.Rules.Collections, func(c *compiler) Rule { return newCollectionRule(c) }},
		{cfg.Rules.Memory, func(c *compiler) Rule { return newMemoryRule(c) }},
	}

	for _, b := range builtins {
		c := &compiler{cache: r.patterns}
		rule := b.build(c)
		if c.err != nil {
			return nil, c.err
		}
		r.catalog = append(r.catalog, Info{Name: rule.Name(), Description: rule.Description(), Enabled: b.enabled})
		if b.enabled {
			r.rules = append(r.rules, rule)
		}
	}

	for _, custom := range cfg.CustomRules {
		rule, err := newPatternRule(&compiler{cache: r.patterns, rule: custom.ID}, custom)
		if err != nil {
			return nil, err
		}
		r.rules = append(r.rules, rule)
		r.catalog = append(r.catalog, Info{Name: rule.Name(), Description: rule.Description(), Enabled: true, Custom: true})
	}

	util.Debug("Rule registry initialized: %d rules, %d compiled patterns", len(r.rules), r.patterns.Len())
	return r, nil
}

// Rules returns the enabled rules in evaluation order
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// MinSeverity returns the least severe level kept in results
func (r *Registry) MinSeverity() model.Severity {
	return r.minSeverity
}

// Catalog lists every rule, including disabled built-ins
func (r *Registry) Catalog() []Info {
	out := make([]Info, len(r.catalog))
	copy(out, r.catalog)
	return out
}

// Patterns returns the registry's pattern cache
func (r *Registry) Patterns() *PatternCache {
	return r.patterns
}
