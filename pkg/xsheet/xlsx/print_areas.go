package xlsx

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/ref"
)

// printAreas reads the print areas of a workbook, keyed by sheet name.
func printAreas(f *excelize.File) map[string][]ref.Range {
	result := make(map[string][]ref.Range)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheet, areas := parsePrintAreaReference(dn.RefersTo)
		if sheet == "" && dn.Scope != "Workbook" {
			sheet = dn.Scope
		}
		if sheet != "" && len(areas) > 0 {
			result[sheet] = append(result[sheet], areas...)
		}
	}
	return result
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'Sheet Name'!$A$1:$D$10 or Sheet1!$A$1:$D$10,Sheet1!$F$1:$G$2
func parsePrintAreaReference(s string) (string, []ref.Range) {
	var (
		sheetName string
		areas     []ref.Range
	)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		rangeStr := part
		if idx := strings.LastIndex(part, "!"); idx >= 0 {
			sheet := part[:idx]
			if strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") && len(sheet) >= 2 {
				sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
			}
			if sheetName == "" {
				sheetName = sheet
			}
			rangeStr = part[idx+1:]
		}

		if rng, ok := parseRange(rangeStr); ok {
			areas = append(areas, rng)
		}
	}
	return sheetName, areas
}

// parseRange parses an absolute range like $A$1:$D$10.
func parseRange(s string) (ref.Range, bool) {
	parts := strings.Split(strings.ReplaceAll(s, "$", ""), ":")
	if len(parts) != 2 {
		return ref.Range{}, false
	}
	sc, sr, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return ref.Range{}, false
	}
	ec, er, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return ref.Range{}, false
	}
	return ref.Range{
		Start: ref.Address{Row: min(sr, er) - 1, Col: min(sc, ec) - 1},
		End:   ref.Address{Row: max(sr, er) - 1, Col: max(sc, ec) - 1},
	}, true
}

// cropToAreas keeps the cells and merge anchors of g that fall inside one
// of areas. Addresses are not shifted; the used range ends where the
// furthest area ends.
func cropToAreas(g *models.Grid, areas []ref.Range) *models.Grid {
	inside := func(a ref.Address) bool {
		for _, area := range areas {
			if area.Contains(a) {
				return true
			}
		}
		return false
	}

	out := models.NewGrid(g.Dense())
	for _, a := range g.Addresses() {
		if inside(a) {
			c, _ := g.Cell(a)
			out.SetCell(a, c)
		}
	}
	for _, m := range g.Merges() {
		if inside(m.Anchor) {
			out.AddMerge(m)
		}
	}

	var end ref.Address
	for _, area := range areas {
		end.Row = max(end.Row, area.End.Row)
		end.Col = max(end.Col, area.End.Col)
	}
	out.SetUsedRange(ref.Range{End: end})
	return out
}
