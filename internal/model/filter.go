package model

import "regexp"

// SourceFilter decides whether a file or directory under a source should
// be considered at all. Implementations see the bare name and the
// directory containing it, not a full path.
type SourceFilter interface {
	// IncludeFile reports whether a file should be cataloged.
	IncludeFile(name string, dir Path) bool

	// DescendInto reports whether a subdirectory should be entered.
	// Subdirectories that are filtered out are pruned before descent, so
	// files inside them are never visited.
	DescendInto(name string, dir Path) bool
}

// ConfiguredSourceFilter rejects names that appear in an exclusion set or
// match any of an ordered list of regular expressions. The same predicate
// governs files and directories.
type ConfiguredSourceFilter struct {
	patterns []*regexp.Regexp
	names    map[string]struct{}
}

// NewConfiguredSourceFilter builds a filter from regular expression
// patterns and exact names. Either list may be empty.
func NewConfiguredSourceFilter(patterns []*regexp.Regexp, names []string) *ConfiguredSourceFilter {
	nameSet := make(map[string]struct{}, len(names))
	for _, name := range names {
		nameSet[name] = struct{}{}
	}

	return &ConfiguredSourceFilter{
		patterns: patterns,
		names:    nameSet,
	}
}

// IncludeFile reports whether name passes the exclusion set and patterns.
func (f *ConfiguredSourceFilter) IncludeFile(name string, _ Path) bool {
	if _, excluded := f.names[name]; excluded {
		return false
	}

	for _, pattern := range f.patterns {
		if loc := pattern.FindStringIndex(name); loc != nil && loc[0] == 0 {
			return false
		}
	}

	return true
}

// DescendInto applies the same predicate as IncludeFile.
func (f *ConfiguredSourceFilter) DescendInto(name string, dir Path) bool {
	return f.IncludeFile(name, dir)
}
