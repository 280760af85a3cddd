package obras

import "strings"

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// FoldSearch lowercases text for case-insensitive search. Every repository
// compares against this form so matching does not depend on a database collation.
func FoldSearch(s string) string {
	return strings.ToLower(s)
}
