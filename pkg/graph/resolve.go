package graph

import (
	"regexp"
	"strings"
)

var (
	reCorporateSuffix = regexp.MustCompile(
		`\s+(inc|ltd|llc|corp|corporation|company|gmbh|plc|sa|s\.a\.|limited)\.?$`,
	)
	reNonAlnum        = regexp.MustCompile(`[^a-z0-9\s]`)
	reCollapseSpaces  = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes an entity name for identity matching:
// lowercase, trimmed, corporate suffixes stripped, punctuation removed,
// whitespace collapsed. "Acme Corp", "ACME Corporation" and "acme corp."
// all map to "acme". The normalized form is the merge key; the original
// surface form is kept as a display property.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = reCorporateSuffix.ReplaceAllString(n, "")
	n = reNonAlnum.ReplaceAllString(n, "")
	n = reCollapseSpaces.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}
