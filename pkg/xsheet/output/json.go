// Package output provides JSON serialization of editor sheets.
package output

import (
	"bytes"
	"encoding/json"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
)

// ToJSON serializes v to JSON. HTML characters in cell text are written as
// is rather than as \u003c escapes.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SheetToJSON serializes a single editor sheet.
func SheetToJSON(sheet *models.EditorSheet, pretty bool) ([]byte, error) {
	return ToJSON(sheet, pretty)
}

// SheetsToJSON serializes editor sheets as a JSON array, the document shape
// the editor loads.
func SheetsToJSON(sheets []models.EditorSheet, pretty bool) ([]byte, error) {
	if sheets == nil {
		sheets = []models.EditorSheet{}
	}
	return ToJSON(sheets, pretty)
}
