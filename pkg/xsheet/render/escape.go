package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// EscapeText escapes cell text for a table cell: the markup-reserved
// characters become entities, newlines become <br/> and the remaining C0
// control characters become numeric references.
func EscapeText(s string) string {
	s = html.EscapeString(s)
	s = strings.ReplaceAll(s, "\n", "<br/>")
	return escapeControl(s)
}

// escapeAttr escapes an attribute value. Newlines are escaped like any
// other control character.
func escapeAttr(s string) string {
	return escapeControl(html.EscapeString(s))
}

func escapeControl(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if isControl(r) {
			fmt.Fprintf(&b, "&#x%04x;", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20
}
