package importer

import (
	"regexp"
	"strings"
)

var (
	tagRE        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// Clean strips tag-delimited markup from an HTML fragment with a single
// textual pass. It is deliberately not a DOM parse: literal angle brackets
// inside text can be mis-stripped, and malformed tags get no special
// handling. Only the six entities below are decoded; anything else passes
// through untouched.
func Clean(fragment string) string {
	s := tagRE.ReplaceAllString(fragment, "")

	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&nbsp;", " ")

	s = whitespaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
