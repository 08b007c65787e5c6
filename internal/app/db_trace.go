package app

import (
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	// Multi-row inserts carry one placeholder tuple per record.
	valuesTupleRegex = regexp.MustCompile(`(\(\$\d+(?:, ?\$\d+)*\))(?:, ?\(\$\d+(?:, ?\$\d+)*\))+`)
)

// formatDBQueryForTrace shortens the statement recorded on database spans.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	normalized = valuesTupleRegex.ReplaceAllString(normalized, "${1}, ...")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
