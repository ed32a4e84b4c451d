package registry

import (
	"path/filepath"
	"strings"
)

// FilterByName disables every case whose id, suite-qualified key and name all fail to
// match pattern. Supports wildcards like "*query*" or "database/*". An empty pattern
// leaves the flags untouched. It returns the number of cases still enabled.
func (r *Registry) FilterByName(pattern string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := 0
	for i := range r.suites {
		for j := range r.suites[i].Cases {
			c := &r.suites[i].Cases[j]
			if pattern != "" && c.Enabled && !matchAny(pattern, c.ID, c.Key(), c.Name) {
				c.Enabled = false
			}
			if c.Enabled {
				kept++
			}
		}
	}
	return kept
}

func matchAny(pattern string, names ...string) bool {
	for _, name := range names {
		if matchName(pattern, name) {
			return true
		}
	}
	return false
}

// matchName reports whether name matches a wildcard pattern
func matchName(pattern, name string) bool {
	if pattern == "" {
		return true
	}

	// Try to match using filepath.Match (supports * and ? wildcards)
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	// If pattern contains wildcards but filepath.Match didn't match,
	// try a more flexible substring match for patterns like "*query*"
	if strings.Contains(pattern, "*") {
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			if !strings.Contains(name, part) {
				return false
			}
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
