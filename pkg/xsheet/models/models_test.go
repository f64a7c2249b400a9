package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/ref"
)

func TestAppendSheet(t *testing.T) {
	wb := NewWorkbook()

	name, err := wb.AppendSheet("", NewGrid(false))
	if err != nil || name != "Sheet1" {
		t.Fatalf("AppendSheet(\"\") = %q, %v; expected Sheet1", name, err)
	}
	if _, err := wb.AppendSheet("Data", NewGrid(false)); err != nil {
		t.Fatalf("AppendSheet(Data) failed: %v", err)
	}
	name, err = wb.AppendSheet("", NewGrid(false))
	if err != nil || name != "Sheet2" {
		t.Fatalf("AppendSheet(\"\") = %q, %v; expected Sheet2", name, err)
	}

	got := strings.Join(wb.SheetNames(), ",")
	if got != "Sheet1,Data,Sheet2" {
		t.Errorf("SheetNames = %s", got)
	}
}

func TestAppendSheetNamingErrors(t *testing.T) {
	tests := []struct {
		name     string
		expected error
	}{
		{strings.Repeat("x", 32), ErrNameTooLong},
		{"a/b", ErrNameInvalidChar},
		{"a\\b", ErrNameInvalidChar},
		{"[x]", ErrNameInvalidChar},
		{"what?", ErrNameInvalidChar},
		{"star*", ErrNameInvalidChar},
		{"Sheet1", ErrNameDuplicate},
	}

	wb := NewWorkbook()
	if _, err := wb.AppendSheet("Sheet1", NewGrid(false)); err != nil {
		t.Fatalf("AppendSheet failed: %v", err)
	}

	for _, tt := range tests {
		_, err := wb.AppendSheet(tt.name, NewGrid(false))
		if !errors.Is(err, tt.expected) {
			t.Errorf("AppendSheet(%q) error = %v, expected %v", tt.name, err, tt.expected)
		}
		var ne *NamingError
		if !errors.As(err, &ne) || ne.Name != tt.name {
			t.Errorf("AppendSheet(%q) error %v is not a NamingError for that name", tt.name, err)
		}
	}

	if _, err := wb.AppendSheet(strings.Repeat("x", 31), NewGrid(false)); err != nil {
		t.Errorf("31-char name rejected: %v", err)
	}
}

func TestGridStores(t *testing.T) {
	for _, dense := range []bool{false, true} {
		g := NewGrid(dense)
		if g.Dense() != dense {
			t.Fatalf("Dense() = %v, expected %v", g.Dense(), dense)
		}
		g.SetCell(ref.Address{Row: 2, Col: 1}, Cell{Value: Number(1)})
		g.SetCell(ref.Address{Row: 0, Col: 3}, Cell{Value: Text("a")})
		g.SetCell(ref.Address{Row: 0, Col: 0}, Cell{Value: Boolean(true)})

		if g.Len() != 3 {
			t.Errorf("dense=%v: Len = %d, expected 3", dense, g.Len())
		}
		addrs := g.Addresses()
		want := []ref.Address{{Row: 0, Col: 0}, {Row: 0, Col: 3}, {Row: 2, Col: 1}}
		for i := range want {
			if addrs[i] != want[i] {
				t.Errorf("dense=%v: Addresses[%d] = %v, expected %v", dense, i, addrs[i], want[i])
			}
		}

		g.DeleteCell(ref.Address{Row: 0, Col: 3})
		if _, ok := g.Cell(ref.Address{Row: 0, Col: 3}); ok {
			t.Errorf("dense=%v: deleted cell still present", dense)
		}
		if _, ok := g.Cell(ref.Address{Row: 9, Col: 9}); ok {
			t.Errorf("dense=%v: out of range cell reported present", dense)
		}
		if g.Len() != 2 {
			t.Errorf("dense=%v: Len after delete = %d", dense, g.Len())
		}
	}
}

func TestAddMergeDropsCoveredCells(t *testing.T) {
	g := NewGrid(false)
	g.SetCell(ref.DecodeCell("B2"), Cell{Value: Text("anchor")})
	g.SetCell(ref.DecodeCell("C3"), Cell{Value: Text("covered")})
	g.SetCell(ref.DecodeCell("D4"), Cell{Value: Text("outside")})

	g.AddMerge(MergeRange{Anchor: ref.DecodeCell("B2"), RowSpan: 2, ColSpan: 2})

	if _, ok := g.Cell(ref.DecodeCell("C3")); ok {
		t.Error("C3 should have been dropped by the merge")
	}
	for _, name := range []string{"B2", "D4"} {
		if _, ok := g.Cell(ref.DecodeCell(name)); !ok {
			t.Errorf("%s should still be present", name)
		}
	}
	if !g.Covered(ref.DecodeCell("C2")) || g.Covered(ref.DecodeCell("B2")) {
		t.Error("Covered misreports anchor/covered addresses")
	}
	m, ok := g.MergeAt(ref.DecodeCell("C3"))
	if !ok || m.Range().String() != "B2:C3" || m.Delta() != [2]int{1, 1} {
		t.Errorf("MergeAt(C3) = %+v, %v", m, ok)
	}
}

func TestMergeClamp(t *testing.T) {
	tests := []struct {
		in       MergeRange
		expected MergeRange
	}{
		{MergeRange{RowSpan: 2, ColSpan: 3}, MergeRange{RowSpan: 2, ColSpan: 3}},
		{MergeRange{RowSpan: 0, ColSpan: -4}, MergeRange{RowSpan: 1, ColSpan: 1}},
		{MergeRange{RowSpan: 1 << 40, ColSpan: 1 << 40}, MergeRange{RowSpan: MaxRowSpan, ColSpan: MaxColSpan}},
	}
	for _, tt := range tests {
		if got := tt.in.Clamp(); got != tt.expected {
			t.Errorf("%+v.Clamp() = %+v, expected %+v", tt.in, got, tt.expected)
		}
	}
}

func TestGridRefusesNegativeAddresses(t *testing.T) {
	for _, dense := range []bool{false, true} {
		g := NewGrid(dense)
		g.SetCell(ref.Address{Row: 0, Col: -1}, Cell{Value: Text("left")})
		g.SetCell(ref.Address{Row: -1, Col: 0}, Cell{Value: Text("up")})
		g.AddMerge(MergeRange{Anchor: ref.Address{Row: -2, Col: 0}, RowSpan: 3, ColSpan: 1})
		if g.Len() != 0 || len(g.Merges()) != 0 {
			t.Errorf("dense=%v: Len = %d, merges = %+v, expected nothing stored", dense, g.Len(), g.Merges())
		}

		g.AddMerge(MergeRange{Anchor: ref.Address{}, RowSpan: 1, ColSpan: int(^uint(0) >> 1)})
		if m := g.Merges(); len(m) != 1 || m[0].ColSpan != MaxColSpan {
			t.Errorf("dense=%v: merges = %+v, expected one clamped merge", dense, m)
		}
	}
}

func TestRawValue(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{Text("hi"), "hi"},
		{Number(42), "42"},
		{Number(0.125), "0.125"},
		{Boolean(true), "true"},
		{Date(45365), "45365"},
		{Formula{Body: "A1+B1"}, "=A1+B1"},
		{Empty{}, ""},
	}

	for _, tt := range tests {
		got, err := Cell{Value: tt.value}.RawValue()
		if err != nil || got != tt.expected {
			t.Errorf("RawValue(%#v) = %q, %v; expected %q", tt.value, got, err, tt.expected)
		}
	}
}

func TestEditorSheetJSON(t *testing.T) {
	src := `{"name":"S","rows":{"0":{"cells":{"0":{"text":"a"},"1":{"text":3},"x":{"text":"skip"}}},"2":{"cells":{"1":{"merge":[1,0]}}},"height":25,"len":5},"merges":["B3:B4"]}`

	var sheet EditorSheet
	if err := json.Unmarshal([]byte(src), &sheet); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if sheet.Rows.Len != 5 || sheet.Rows.Count() != 5 {
		t.Errorf("Len = %d, Count = %d", sheet.Rows.Len, sheet.Rows.Count())
	}
	if got := sheet.Rows.Rows[0].Cells[1].Text; got != "3" {
		t.Errorf("numeric text = %q, expected \"3\"", got)
	}
	if len(sheet.Rows.Rows[0].Cells) != 2 {
		t.Errorf("non-numeric cell key was not skipped: %v", sheet.Rows.Rows[0].Cells)
	}
	if m := sheet.Rows.Rows[2].Cells[1].Merge; m == nil || *m != [2]int{1, 0} {
		t.Errorf("merge = %v", m)
	}

	out, err := json.Marshal(sheet)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"name":"S","rows":{"0":{"cells":{"0":{"text":"a"},"1":{"text":"3"}}},"2":{"cells":{"1":{"merge":[1,0]}}},"len":5},"merges":["B3:B4"]}`
	if string(out) != want {
		t.Errorf("Marshal =\n%s\nexpected\n%s", out, want)
	}
}
