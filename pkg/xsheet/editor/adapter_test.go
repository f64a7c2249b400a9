package editor

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/parser"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/ref"
)

func parseSheet(t *testing.T, src string) *models.Grid {
	t.Helper()
	wb, err := parser.ParseHTML(src, parser.DefaultOptions())
	require.NoError(t, err)
	g, ok := wb.Sheet("Sheet1")
	require.True(t, ok)
	return g
}

func span(r, c int) *[2]int {
	return &[2]int{r, c}
}

func TestToEditorMerges(t *testing.T) {
	g := parseSheet(t, `<table>
<tr><td>a</td><td>b</td><td>c</td></tr>
<tr><td>d</td><td rowspan="2" colspan="2">merged</td></tr>
<tr><td>f</td></tr>
</table>`)

	sheet, err := ToEditor("Sheet1", g)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Len(t, sheet.Rows.Rows, 3)
	assert.Equal(t, []string{"B2:C3"}, sheet.Merges)
	assert.Equal(t, models.EditorCell{Text: "merged", Merge: span(1, 1)}, sheet.Rows.Rows[1].Cells[1])
	assert.Equal(t, "f", sheet.Rows.Rows[2].Cells[0].Text)
	assert.NotContains(t, sheet.Rows.Rows[2].Cells, 1)
}

func TestToEditorKeepsLeadingBlankRows(t *testing.T) {
	g := parseSheet(t, `<table><tr></tr><tr></tr><tr><td></td><td>x</td></tr></table>`)

	sheet, err := ToEditor("S", g)
	require.NoError(t, err)

	require.Len(t, sheet.Rows.Rows, 3)
	assert.Empty(t, sheet.Rows.Rows[0].Cells)
	assert.Empty(t, sheet.Rows.Rows[1].Cells)
	assert.Equal(t, map[int]models.EditorCell{1: {Text: "x"}}, sheet.Rows.Rows[2].Cells)
	assert.Equal(t, 3, sheet.Rows.Count())
}

func TestToEditorText(t *testing.T) {
	g := parseSheet(t, `<table><tr><td>=A1+B1</td><td>3/14/2024</td><td>1,000</td><td>TRUE</td><td colspan="2"></td><td>x</td></tr></table>`)

	sheet, err := ToEditor("S", g)
	require.NoError(t, err)

	cells := sheet.Rows.Rows[0].Cells
	assert.Equal(t, "=A1+B1", cells[0].Text)
	assert.Equal(t, "3/14/24", cells[1].Text)
	assert.Equal(t, "1,000", cells[2].Text)
	assert.Equal(t, "TRUE", cells[3].Text)
	assert.Equal(t, models.EditorCell{Merge: span(0, 1)}, cells[4])
	assert.Equal(t, "x", cells[6].Text)
}

func TestFromEditor(t *testing.T) {
	sheet := models.EditorSheet{
		Name: "S",
		Rows: models.EditorRows{
			Len: 5,
			Rows: map[int]models.EditorRow{
				0: {Cells: map[int]models.EditorCell{0: {Text: "Name"}, 1: {Text: "Qty"}}},
				1: {Cells: map[int]models.EditorCell{0: {Text: "a"}, 1: {Text: "1,000"}, 2: {Text: "TRUE"}}},
				2: {Cells: map[int]models.EditorCell{0: {Merge: span(0, 1)}, 1: {Text: "covered"}}},
			},
		},
	}

	g := FromEditor(sheet, Options{})

	expected := map[string]models.Value{
		"A1": models.Text("Name"),
		"B1": models.Text("Qty"),
		"A2": models.Text("a"),
		"B2": models.Number(1000),
		"C2": models.Boolean(true),
		"A3": models.Empty{},
	}
	for name, want := range expected {
		c, ok := g.Cell(ref.DecodeCell(name))
		if assert.True(t, ok, name) {
			assert.Equal(t, want, c.Value, name)
		}
	}
	assert.Equal(t, len(expected), g.Len())

	_, ok := g.Cell(ref.DecodeCell("B3"))
	assert.False(t, ok, "covered cell must be dropped")

	used, ok := g.UsedRange()
	require.True(t, ok)
	assert.Equal(t, "A1:C3", used.String())

	require.Len(t, g.Merges(), 1)
	assert.Equal(t, "A3:B3", g.Merges()[0].Range().String())
}

func TestFromEditorFormulaAndMergeList(t *testing.T) {
	sheet := models.EditorSheet{
		Rows: models.EditorRows{Rows: map[int]models.EditorRow{
			1: {Cells: map[int]models.EditorCell{2: {Text: "=A1+B1"}}},
		}},
		Merges: []string{"A1:B1", "C2:C2:", "bogus"},
	}

	g := FromEditor(sheet, Options{Dense: true})
	assert.True(t, g.Dense())

	c, ok := g.Cell(ref.DecodeCell("C2"))
	require.True(t, ok)
	assert.Equal(t, models.Formula{Body: "A1+B1"}, c.Value)

	require.Len(t, g.Merges(), 1)
	assert.Equal(t, "A1:B1", g.Merges()[0].Range().String())

	used, _ := g.UsedRange()
	assert.Equal(t, "A1:C2", used.String())
}

func TestFromEditorOversizedMerges(t *testing.T) {
	huge := int(^uint(0) >> 1)
	sheet := models.EditorSheet{
		Rows: models.EditorRows{Rows: map[int]models.EditorRow{
			0: {Cells: map[int]models.EditorCell{
				-1: {Text: "gone"},
				0:  {Text: "wide", Merge: span(0, huge)},
			}},
			1: {Cells: map[int]models.EditorCell{0: {Text: "tall", Merge: span(huge, 0)}}},
		}},
	}

	for _, dense := range []bool{false, true} {
		g := FromEditor(sheet, Options{Dense: dense})

		require.Len(t, g.Merges(), 2)
		assert.Equal(t, models.MaxColSpan, g.Merges()[0].ColSpan)
		assert.Equal(t, models.MaxRowSpan, g.Merges()[1].RowSpan)
		assert.Equal(t, 2, g.Len())

		used, _ := g.UsedRange()
		assert.Equal(t, ref.Address{}, used.Start)
		assert.Equal(t, models.MaxColSpan-1, used.End.Col)
		assert.Equal(t, models.MaxRowSpan, used.End.Row)
	}
}

func TestEditorRoundTrip(t *testing.T) {
	src := `{"name":"S","rows":{"0":{"cells":{"0":{"text":"id"},"1":{"text":"label"},"2":{"text":"ok"}}},` +
		`"1":{"cells":{"0":{"text":"7"},"1":{"text":"seven"},"2":{"text":"false"}}},` +
		`"2":{"cells":{}},"3":{"cells":{"1":{"text":"  padded  "},"3":{"text":"1.50"},"4":{"text":"a  b"}}},"len":4},"merges":[]}`

	sheets, err := Decode([]byte(src))
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	g := FromEditor(sheets[0], Options{})
	back, err := ToEditor("S", g)
	require.NoError(t, err)

	out, err := json.Marshal(back)
	require.NoError(t, err)
	assert.JSONEq(t, src, string(out))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"single sheet", `{"name":"a","rows":{"0":{"cells":{"0":{"text":"x"}}},"len":1}}`, true},
		{"array", `[{"rows":{}},{"name":"b","rows":{"2":{"cells":{"1":{"text":3,"merge":[1,0]}}}},"merges":["A1:B2"]}]`, true},
		{"extra keys", `{"rows":{"height":25,"0":{"height":10,"cells":{"0":{"text":null,"style":1}}}},"freeze":"A1"}`, true},
		{"missing rows", `{"name":"a"}`, false},
		{"bad merge", `{"rows":{"0":{"cells":{"0":{"merge":[1]}}}}}`, false},
		{"negative merge", `{"rows":{"0":{"cells":{"0":{"merge":[-1,0]}}}}}`, false},
		{"object text", `{"rows":{"0":{"cells":{"0":{"text":{}}}}}}`, false},
		{"bad range", `{"rows":{},"merges":["a1:b2"]}`, false},
		{"scalar", `42`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.input))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var se *SchemaError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.NotEmpty(t, se.Problems)
		})
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{"rows":`))
	var fe *models.FormatError
	assert.True(t, errors.As(err, &fe), "got %v", err)
}
