package parser

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	leadingSpace   = regexp.MustCompile(`^[\t\n\r ]+`)
	trailingSpace  = regexp.MustCompile(`[\t\n\r ]+$`)
	spaceAfterTag  = regexp.MustCompile(`>\s+`)
	spaceBeforeTag = regexp.MustCompile(`\s+<`)
	spaceRun       = regexp.MustCompile(`[\t\n\r ]+`)
	lineBreakTag   = regexp.MustCompile(`<\s*[bB][rR]\s*/?>`)
	anyTag         = regexp.MustCompile(`<[^>]*>`)
)

// DecodeCellText turns the inner markup of a cell into its text: outer
// whitespace is trimmed, whitespace around tags dropped, remaining runs
// collapsed to one space, <br> becomes a newline, other tags are stripped
// and entities decoded.
func DecodeCellText(s string) string {
	s = leadingSpace.ReplaceAllString(s, "")
	s = trailingSpace.ReplaceAllString(s, "")
	s = spaceAfterTag.ReplaceAllString(s, ">")
	s = spaceBeforeTag.ReplaceAllString(s, "<")
	s = spaceRun.ReplaceAllString(s, " ")
	s = lineBreakTag.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	return decodeEntities(s)
}

// decodeEntities resolves named and numeric character references. A
// non-breaking space decodes to a plain space.
func decodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return strings.ReplaceAll(html.UnescapeString(s), "\u00a0", " ")
}

// decodePreservedText is DecodeCellText for cells marked
// xml:space="preserve": whitespace is kept as written.
func decodePreservedText(s string) string {
	s = lineBreakTag.ReplaceAllString(s, "\n")
	s = anyTag.ReplaceAllString(s, "")
	return decodeEntities(s)
}
