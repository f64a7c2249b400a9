package parser

import (
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/ref"
)

// TableDetectionParams holds parameters for table detection.
type TableDetectionParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableDetectionParams {
	return TableDetectionParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// DetectTables detects table-like regions in a grid.
// Returns a list of cell ranges (e.g., "A1:D10") that likely represent tables.
func DetectTables(g *models.Grid, params TableDetectionParams) []string {
	bounds, ok := findDataBounds(g)
	if !ok {
		return nil
	}

	nonEmptyCells := 0
	for _, a := range g.Addresses() {
		if c, _ := g.Cell(a); !c.IsEmpty() {
			nonEmptyCells++
		}
	}
	if nonEmptyCells < params.MinNonemptyCells {
		return nil
	}

	// Merged areas count as filled
	totalCells := (bounds.End.Row - bounds.Start.Row + 1) * (bounds.End.Col - bounds.Start.Col + 1)
	filled := nonEmptyCells
	for _, m := range g.Merges() {
		if c, ok := g.Cell(m.Anchor); ok && !c.IsEmpty() {
			filled += m.RowSpan*m.ColSpan - 1
		}
	}

	density := float64(filled) / float64(totalCells)
	if density < params.DensityMin {
		return nil
	}

	return []string{bounds.String()}
}

// findDataBounds finds the bounding box of non-empty cells, ignoring the
// forced A1 origin of the used range.
func findDataBounds(g *models.Grid) (ref.Range, bool) {
	var (
		bounds ref.Range
		found  bool
	)
	for _, a := range g.Addresses() {
		if c, _ := g.Cell(a); c.IsEmpty() {
			continue
		}
		if !found {
			bounds, found = ref.Range{Start: a, End: a}, true
			continue
		}
		bounds = bounds.Extend(a)
	}
	return bounds, found
}
