package services

import "strings"

// curly single and double quotes seen in contributed names, mapped to their
// straight equivalents.
var quoteReplacer = strings.NewReplacer(
	"‘", "'", // left single
	"’", "'", // right single
	"“", `"`, // left double
	"”", `"`, // right double
)

// Normalize canonicalizes a variety name for duplicate matching: trim,
// lowercase, collapse internal whitespace runs to one space, straighten curly
// quotes, and strip a single trailing period. Total function, never fails.
// Two variety names are name-equivalent iff their normalized forms are equal.
func Normalize(name string) string {
	s := quoteReplacer.Replace(name)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSuffix(s, ".")
}
