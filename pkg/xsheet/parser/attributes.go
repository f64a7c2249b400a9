// Package parser reads HTML table markup into grids and types cell text.
package parser

import (
	"regexp"
	"strings"
)

// attrRegexp matches key=value pairs with double-quoted, single-quoted or
// bare values.
var attrRegexp = regexp.MustCompile(`([^"\s?>/]+)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^'">\s]+))`)

// Tag is the parsed opening tag of an element.
type Tag struct {
	// Name is the tag name including its leading '<', e.g. "<td".
	Name string
	// Attrs holds every attribute under its original key and under its
	// lower-cased key.
	Attrs map[string]string
}

// Get returns the attribute stored under key, falling back to the
// lower-cased key.
func (t Tag) Get(key string) (string, bool) {
	if v, ok := t.Attrs[key]; ok {
		return v, true
	}
	v, ok := t.Attrs[strings.ToLower(key)]
	return v, ok
}

// First returns the value of the first key present.
func (t Tag) First(keys ...string) string {
	for _, k := range keys {
		if v, ok := t.Get(k); ok {
			return v
		}
	}
	return ""
}

// ParseTag splits a tag fragment such as `<td rowspan="2" DATA-T=s` into its
// name and attributes. Malformed fragments yield whatever pairs could be
// recognized; it never fails.
func ParseTag(fragment string) Tag {
	tag := Tag{Attrs: make(map[string]string)}

	eq := strings.IndexAny(fragment, " \n\r\t")
	if eq < 0 {
		tag.Name = fragment
		return tag
	}
	tag.Name = fragment[:eq]

	for _, m := range attrRegexp.FindAllStringSubmatch(fragment[eq:], -1) {
		key := m[1]
		val := m[2] + m[3] + m[4]

		if i := strings.IndexByte(key, ':'); i >= 0 {
			// Namespaced key: keep the local part, xmlns prefixes stay visible.
			local := key[i+1:]
			if key[:i] == "xmlns" {
				local = "xmlns" + local
			}
			if _, exists := tag.Attrs[local]; exists && strings.HasSuffix(key[:i], "ext") {
				continue
			}
			key = local
		} else if i := strings.IndexByte(key, '_'); i > 0 {
			key = key[:i]
		}

		tag.Attrs[key] = val
		tag.Attrs[strings.ToLower(key)] = val
	}
	return tag
}
