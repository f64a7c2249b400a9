package output

import (
	"strings"
	"testing"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
)

func sampleSheet() models.EditorSheet {
	return models.EditorSheet{
		Name: "Sheet1",
		Rows: models.EditorRows{Rows: map[int]models.EditorRow{
			0: {Cells: map[int]models.EditorCell{0: {Text: "<b>"}, 1: {Text: "42", Merge: &[2]int{1, 0}}}},
		}},
		Merges: []string{"B1:B2"},
	}
}

func TestSheetToJSON(t *testing.T) {
	sheet := sampleSheet()
	data, err := SheetToJSON(&sheet, false)
	if err != nil {
		t.Fatalf("SheetToJSON() error = %v", err)
	}

	expected := `{"name":"Sheet1","rows":{"0":{"cells":{"0":{"text":"<b>"},"1":{"text":"42","merge":[1,0]}}},"len":1},"merges":["B1:B2"]}`
	if string(data) != expected {
		t.Errorf("SheetToJSON() = %s, expected %s", data, expected)
	}
}

func TestToJSONPretty(t *testing.T) {
	sheet := sampleSheet()
	data, err := ToJSON(&sheet, true)
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "\n  \"name\": \"Sheet1\"") {
		t.Errorf("ToJSON(pretty) missing indented name:\n%s", s)
	}
	if strings.HasSuffix(s, "\n") {
		t.Errorf("ToJSON(pretty) should not end with a newline")
	}
	if strings.Contains(s, `\u003c`) || !strings.Contains(s, `"<b>"`) {
		t.Errorf("ToJSON(pretty) escaped HTML characters:\n%s", s)
	}
}

func TestSheetsToJSON(t *testing.T) {
	tests := []struct {
		name     string
		sheets   []models.EditorSheet
		expected string
	}{
		{"nil", nil, "[]"},
		{"one", []models.EditorSheet{{Name: "S", Merges: []string{}}}, `[{"name":"S","rows":{"len":0},"merges":[]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := SheetsToJSON(tt.sheets, false)
			if err != nil {
				t.Fatalf("SheetsToJSON() error = %v", err)
			}
			if string(data) != tt.expected {
				t.Errorf("SheetsToJSON() = %s, expected %s", data, tt.expected)
			}
		})
	}
}
