// Package editor converts grids to and from the row-indexed form consumed
// by the spreadsheet editing surface.
package editor

import (
	"sort"

	"go.uber.org/zap"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/parser"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/ref"
)

// Options configures the editor to grid conversion.
type Options struct {
	// Dense selects slice storage for the produced grid.
	Dense bool
	// Logger receives debug output about dropped cells.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// ToEditor converts g into editor rows. Every row index from 0 to the last
// row of the used range gets an entry, even when blank. Formula cells show
// their body with a leading '='. Merge anchors carry their span, and get an
// empty cell entry when they hold no value.
func ToEditor(name string, g *models.Grid) (models.EditorSheet, error) {
	sheet := models.EditorSheet{
		Name:   name,
		Rows:   models.EditorRows{Rows: make(map[int]models.EditorRow)},
		Merges: []string{},
	}

	last := -1
	if used, ok := g.UsedRange(); ok {
		last = used.End.Row
	}
	for _, a := range g.Addresses() {
		if a.Row > last {
			last = a.Row
		}
	}
	for _, m := range g.Merges() {
		if end := m.Range().End.Row; end > last {
			last = end
		}
	}
	for r := 0; r <= last; r++ {
		sheet.Rows.Rows[r] = models.EditorRow{Cells: make(map[int]models.EditorCell)}
	}

	for _, a := range g.Addresses() {
		c, _ := g.Cell(a)
		if c.IsEmpty() {
			continue
		}
		text, err := c.Display()
		if err != nil {
			return models.EditorSheet{}, err
		}
		sheet.Rows.Rows[a.Row].Cells[a.Col] = models.EditorCell{Text: text}
	}

	for _, m := range g.Merges() {
		cell := sheet.Rows.Rows[m.Anchor.Row].Cells[m.Anchor.Col]
		delta := m.Delta()
		cell.Merge = &delta
		sheet.Rows.Rows[m.Anchor.Row].Cells[m.Anchor.Col] = cell
		sheet.Merges = append(sheet.Merges, m.Range().String())
	}
	return sheet, nil
}

// FromEditor rebuilds a grid from editor rows. Cell text is re-typed with
// parser.InferText. Spans attached to cells become merges; entries of
// sheet.Merges not already declared by an anchor cell are added too. The
// used range starts at A1 and reaches the furthest cell or merge of any row.
func FromEditor(sheet models.EditorSheet, opts Options) *models.Grid {
	log := opts.logger()
	grid := models.NewGrid(opts.Dense)

	var (
		bounds    ref.Range
		populated bool
	)
	extend := func(r ref.Range) {
		if !populated {
			bounds, populated = r, true
			return
		}
		bounds = bounds.Extend(r.Start).Extend(r.End)
	}

	anchors := make(map[ref.Address]bool)
	for r, n := 0, sheet.Rows.Count(); r < n; r++ {
		row, ok := sheet.Rows.Rows[r]
		if !ok {
			continue
		}
		cols := make([]int, 0, len(row.Cells))
		for c := range row.Cells {
			if c < 0 {
				log.Debug("negative column ignored", zap.Int("row", r), zap.Int("col", c))
				continue
			}
			cols = append(cols, c)
		}
		sort.Ints(cols)

		for _, c := range cols {
			ec := row.Cells[c]
			addr := ref.Address{Row: r, Col: c}
			extend(ref.Range{Start: addr, End: addr})

			if ec.Merge != nil {
				m := models.MergeRange{
					Anchor:  addr,
					RowSpan: min(ec.Merge[0], models.MaxRowSpan) + 1,
					ColSpan: min(ec.Merge[1], models.MaxColSpan) + 1,
				}.Clamp()
				grid.AddMerge(m)
				anchors[addr] = true
				extend(m.Range())
			}

			cell := parser.InferText(ec.Text)
			switch {
			case grid.Covered(addr):
				log.Debug("cell lies inside a merged range, dropped", zap.String("address", addr.String()))
			case !cell.IsEmpty() || ec.Merge != nil:
				grid.SetCell(addr, cell)
			}
		}
	}

	for _, s := range sheet.Merges {
		rng := ref.DecodeRange(s)
		if rng.Start.Row < 0 || rng.Start.Col < 0 || anchors[rng.Start] {
			continue
		}
		m := models.MergeFromRange(rng)
		if m.RowSpan < 1 || m.ColSpan < 1 || m.RowSpan*m.ColSpan == 1 {
			log.Debug("malformed merge range ignored", zap.String("range", s))
			continue
		}
		m = m.Clamp()
		grid.AddMerge(m)
		anchors[rng.Start] = true
		extend(m.Range())
	}

	if populated {
		grid.SetUsedRange(ref.Range{End: bounds.End})
	}
	return grid
}
