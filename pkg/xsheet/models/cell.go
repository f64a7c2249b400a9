// Package models defines the grid, cell and workbook structures shared by the
// HTML parser, the editor adapter and the renderers.
package models

import "strconv"

// Value is the typed content of a cell. The set of implementations is closed:
// Empty, Text, Number, Boolean, Date and Formula. Consumers switch over all of
// them and report anything else as a *TypeError.
type Value interface {
	// Tag returns the one-letter type code used in data-t attributes.
	Tag() string
	isValue()
}

// Empty is a cell without content. Empty cells are never stored in a Grid,
// except as the anchor of a merge built from editor data.
type Empty struct{}

// Text is a string cell.
type Text string

// Number is a numeric cell.
type Number float64

// Boolean is a TRUE/FALSE cell.
type Boolean bool

// Date is a date cell stored as a serial day-number: days since
// 1899-12-30, with the time of day in the fractional part.
type Date float64

// Formula is a cell whose content is an expression. Body never carries the
// leading '='. Display is the cached rendering of the last evaluation, if the
// source carried one; it is preserved but never computed here.
type Formula struct {
	Body    string
	Display string
}

func (Empty) Tag() string   { return "z" }
func (Text) Tag() string    { return "s" }
func (Number) Tag() string  { return "n" }
func (Boolean) Tag() string { return "b" }
func (Date) Tag() string    { return "d" }
func (Formula) Tag() string { return "s" }

func (Empty) isValue()   {}
func (Text) isValue()    {}
func (Number) isValue()  {}
func (Boolean) isValue() {}
func (Date) isValue()    {}
func (Formula) isValue() {}

// Cell is one materialized grid entry.
type Cell struct {
	// Value is the typed content. It is fixed at creation; re-typing a cell
	// means building a new Cell.
	Value Value
	// Raw is the decoded source text the value was inferred from.
	Raw string
	// Format is the number format code, e.g. "m/d/yy" for dates.
	Format string
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	switch c.Value.(type) {
	case nil, Empty:
		return true
	}
	return false
}

// RawValue returns the canonical machine form of the value, the string
// written to data-v attributes.
func (c Cell) RawValue() (string, error) {
	switch v := c.Value.(type) {
	case nil, Empty:
		return "", nil
	case Text:
		return string(v), nil
	case Number:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case Boolean:
		if v {
			return "true", nil
		}
		return "false", nil
	case Date:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case Formula:
		return "=" + v.Body, nil
	default:
		return "", &TypeError{Value: v}
	}
}
