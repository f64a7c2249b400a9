// Package ref converts between zero-based cell coordinates and A1-style
// address strings.
package ref

import (
	"strconv"
	"strings"
)

// Address is a zero-based cell coordinate.
type Address struct {
	Row int `json:"r"`
	Col int `json:"c"`
}

// Range is a rectangular block of cells. Start is the top-left corner and
// End the bottom-right corner, both inclusive.
type Range struct {
	Start Address `json:"s"`
	End   Address `json:"e"`
}

// String returns the A1-style name of the address.
func (a Address) String() string {
	return EncodeCell(a)
}

// String returns the A1-style name of the range.
func (r Range) String() string {
	return EncodeRange(r)
}

// Contains reports whether a lies inside the range.
func (r Range) Contains(a Address) bool {
	return a.Row >= r.Start.Row && a.Row <= r.End.Row &&
		a.Col >= r.Start.Col && a.Col <= r.End.Col
}

// Extend grows the range so that it covers a.
func (r Range) Extend(a Address) Range {
	if a.Row < r.Start.Row {
		r.Start.Row = a.Row
	}
	if a.Col < r.Start.Col {
		r.Start.Col = a.Col
	}
	if a.Row > r.End.Row {
		r.End.Row = a.Row
	}
	if a.Col > r.End.Col {
		r.End.Col = a.Col
	}
	return r
}

// EncodeCol returns the column letters for a zero-based column index
// (0 -> "A", 25 -> "Z", 26 -> "AA"). Negative indexes yield "".
func EncodeCol(col int) string {
	var buf [16]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// EncodeCell returns the A1-style name of a zero-based address.
func EncodeCell(a Address) string {
	return EncodeCol(a.Col) + strconv.Itoa(a.Row+1)
}

// DecodeCell parses an A1-style name into a zero-based address.
//
// Digits accumulate into the row and upper-case letters into the column;
// every other byte is ignored. Ill-formed input is not rejected, the
// result for it is whatever the accumulation produces.
func DecodeCell(s string) Address {
	row, col := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			row = 10*row + int(c-'0')
		case c >= 'A' && c <= 'Z':
			col = 26*col + int(c-'A'+1)
		}
	}
	return Address{Row: row - 1, Col: col - 1}
}

// EncodeRange returns "A1" for a single-cell range and "A1:B2" otherwise.
func EncodeRange(r Range) string {
	s, e := EncodeCell(r.Start), EncodeCell(r.End)
	if s == e {
		return s
	}
	return s + ":" + e
}

// DecodeRange parses "A1" or "A1:B2". Only the first colon splits.
func DecodeRange(s string) Range {
	if start, end, ok := strings.Cut(s, ":"); ok {
		return Range{Start: DecodeCell(start), End: DecodeCell(end)}
	}
	a := DecodeCell(s)
	return Range{Start: a, End: a}
}
