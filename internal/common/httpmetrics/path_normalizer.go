package httpmetrics

import "strings"

var knownPaths = map[string]struct{}{
	"/api/users/format":       {},
	"/api/users/format/batch": {},
	"/health":                 {},
	"/metrics":                {},
}

// NormalizePath keeps metric label cardinality bounded: unknown paths
// collapse into a single label.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	trimmed := path
	if len(trimmed) > 1 {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}
	if _, ok := knownPaths[trimmed]; ok {
		return trimmed
	}
	return "other"
}
