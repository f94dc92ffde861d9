package utilities

import "strings"

// NormalizeWhitespace collapses runs of whitespace into a single space and
// trims both ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Handle derives a display handle from a name: "@" followed by the name with all
// whitespace removed. Handles are not unique.
func Handle(name string) string {
	return "@" + strings.Join(strings.Fields(name), "")
}
