package parser

import (
	"strconv"
	"strings"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
)

// CellSource is everything known about a cell before its type is decided.
type CellSource struct {
	// Text is the decoded, tag-stripped and trimmed cell text.
	Text string
	// Hint is the explicit type code from a data-t or t attribute.
	Hint string
	// Value is the raw value from a data-v attribute.
	Value string
	// Format is the number format from a data-z attribute.
	Format string
	// Display is the cached formula rendering from a data-w attribute.
	Display string
}

// Infer classifies a cell. A leading '=' always makes a formula. Otherwise
// an explicit hint decides; without one, raw mode keeps text as text, and
// the normal order is boolean, number, date, text.
func Infer(src CellSource, raw bool, dateFormat string) models.Cell {
	text := src.Text
	cell := models.Cell{Raw: text, Format: src.Format}
	hint := strings.ToLower(src.Hint)

	// data-v carries text cells verbatim, whitespace included.
	verbatim := (hint == "s" || hint == "str") && src.Value != "" &&
		!strings.HasPrefix(text, "=") && !strings.HasPrefix(src.Value, "=")
	if verbatim {
		text = src.Value
		cell.Raw = text
	}

	if strings.TrimSpace(text) == "" && !verbatim {
		cell.Value = models.Empty{}
		return cell
	}
	if len(text) > 1 && text[0] == '=' {
		cell.Value = models.Formula{Body: text[1:], Display: src.Display}
		return cell
	}
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}

	switch hint {
	case "s", "str":
		cell.Value = models.Text(text)
		return cell
	case "z":
		cell.Value = models.Empty{}
		return cell
	case "n":
		if v, err := strconv.ParseFloat(src.Value, 64); err == nil {
			cell.Value = models.Number(v)
		} else if v, ok := ParseNumber(text); ok {
			cell.Value = models.Number(v)
		} else {
			cell.Value = models.Text(text)
		}
		return cell
	case "b":
		switch strings.ToLower(src.Value) {
		case "true", "1":
			cell.Value = models.Boolean(true)
		case "false", "0":
			cell.Value = models.Boolean(false)
		default:
			if b, ok := parseBool(text, true); ok {
				cell.Value = models.Boolean(b)
			} else {
				cell.Value = models.Text(text)
			}
		}
		return cell
	case "d":
		if cell.Format == "" {
			cell.Format = dateFormat
		}
		if v, err := strconv.ParseFloat(src.Value, 64); err == nil {
			cell.Value = models.Date(v)
		} else if t, ok := ParseDate(text); ok {
			cell.Value = models.DateFromTime(t)
		} else {
			cell.Format = src.Format
			cell.Value = models.Text(text)
		}
		return cell
	}

	if raw {
		cell.Value = models.Text(text)
		return cell
	}

	if b, ok := parseBool(text, false); ok {
		cell.Value = models.Boolean(b)
		return cell
	}
	if v, ok := ParseNumber(text); ok {
		cell.Value = models.Number(v)
		return cell
	}
	if t, ok := ParseDate(text); ok {
		cell.Value = models.DateFromTime(t)
		if cell.Format == "" {
			cell.Format = dateFormat
		}
		return cell
	}
	cell.Value = models.Text(text)
	return cell
}

// InferText classifies text typed into the editor. Only the boolean, number
// and text tiers apply: editor text is already rendered, so dates stay text.
// Booleans match case-insensitively.
func InferText(text string) models.Cell {
	cell := models.Cell{Raw: text}
	switch {
	case text == "":
		cell.Value = models.Empty{}
	case len(text) > 1 && text[0] == '=':
		cell.Value = models.Formula{Body: text[1:]}
	default:
		if b, ok := parseBool(text, true); ok {
			cell.Value = models.Boolean(b)
		} else if v, ok := ParseNumber(text); ok {
			cell.Value = models.Number(v)
		} else {
			cell.Value = models.Text(text)
		}
	}
	return cell
}

func parseBool(s string, fold bool) (bool, bool) {
	if fold {
		s = strings.ToUpper(s)
	}
	switch s {
	case "TRUE":
		return true, true
	case "FALSE":
		return false, true
	}
	return false, false
}
