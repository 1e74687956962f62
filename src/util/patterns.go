package util

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ExclusionMatcher matches file paths against exclusion globs.
// Patterns may use ** to match any number of directories; a pattern
// without a slash matches the base name only.
type ExclusionMatcher struct {
	patterns []*regexp.Regexp
}

// NewExclusionMatcher creates a matcher for the given glob patterns
func NewExclusionMatcher(patterns []string) *ExclusionMatcher {
	m := &ExclusionMatcher{}
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if re, err := regexp.Compile(globToRegexp(p)); err == nil {
			m.patterns = append(m.patterns, re)
		}
	}
	return m
}

// Matches checks if a path should be excluded
func (m *ExclusionMatcher) Matches(path string) bool {
	path = filepath.ToSlash(path)
	for _, re := range m.patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// MatchGlob matches a path against a single glob pattern
func MatchGlob(pattern, path string) bool {
	re, err := regexp.Compile(globToRegexp(pattern))
	if err != nil {
		return false
	}
	return re.MatchString(filepath.ToSlash(path))
}

// globToRegexp translates a glob into an anchored regular expression.
// Unanchored globs (those not starting with "/") may match at any
// directory boundary.
func globToRegexp(glob string) string {
	glob = filepath.ToSlash(glob)

	var sb strings.Builder
	if strings.HasPrefix(glob, "/") {
		sb.WriteString("^")
	} else {
		sb.WriteString("(?:^|/)")
	}

	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch {
		case strings.HasPrefix(glob[i:], "**/"):
			sb.WriteString("(?:.*/)?")
			i += 2
		case strings.HasPrefix(glob[i:], "/**") && i+3 == len(glob):
			sb.WriteString("(?:/.*)?")
			i += 2
		case strings.HasPrefix(glob[i:], "**"):
			sb.WriteString(".*")
			i++
		case c == '*':
			sb.WriteString("[^/]*")
		case c == '?':
			sb.WriteString("[^/]")
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	sb.WriteString("$")
	return sb.String()
}
