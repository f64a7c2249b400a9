package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/ref"
)

var (
	tableRegexp  = regexp.MustCompile(`(?i)<table.*?>[\s\S]*?</table>`)
	tableOpen    = regexp.MustCompile(`(?i)<table`)
	tableClose   = regexp.MustCompile(`(?i)</table`)
	commentRegex = regexp.MustCompile(`(?s)<!--.*?-->`)
	rowOpen      = regexp.MustCompile(`(?i)<tr(?:[\s/][^>]*)?>`)
	cellClose    = regexp.MustCompile(`(?i)</t[dh]>`)
	cellOpen     = regexp.MustCompile(`(?i)<t[dh](?:[\s>/]|$)`)
)

// Options configures HTML table parsing.
type Options struct {
	// Raw keeps every cell as text, skipping type inference.
	Raw bool
	// Dense stores grids as row/column slices instead of address maps.
	Dense bool
	// SheetRows stops reading after this many rows. Zero reads all rows.
	SheetRows int
	// SheetName names the sheet when the input holds a single table.
	// Defaults to "Sheet1".
	SheetName string
	// DateFormat is the number format given to inferred dates.
	DateFormat string
	// Logger receives debug output about tolerated markup problems.
	Logger *zap.Logger
}

// DefaultOptions returns default parse options.
func DefaultOptions() Options {
	return Options{DateFormat: DefaultDateFormat}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// ParseHTML reads every table element of str into its own sheet. A single
// table becomes SheetName (default "Sheet1"); several become "Sheet1",
// "Sheet2", ... in document order. Input without a table fails with a
// *models.FormatError; every other markup problem is tolerated.
func ParseHTML(str string, opts Options) (*models.Workbook, error) {
	tables := tableRegexp.FindAllString(commentRegex.ReplaceAllString(str, ""), -1)
	if len(tables) == 0 {
		return nil, &models.FormatError{Err: models.ErrNoTable}
	}

	wb := models.NewWorkbook()
	for idx, table := range tables {
		grid, err := ParseTable(table, opts)
		if err != nil {
			return nil, err
		}
		name := "Sheet" + strconv.Itoa(idx+1)
		if len(tables) == 1 && opts.SheetName != "" {
			if err := models.CheckSheetName(opts.SheetName); err != nil {
				opts.logger().Debug("sheet name rejected, using default",
					zap.String("name", opts.SheetName), zap.Error(err))
			} else {
				name = opts.SheetName
			}
		}
		if _, err := wb.AppendSheet(name, grid); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

// ParseTable reads the first table element of str into a grid.
//
// Rows are found by splitting on <tr> tags and cells by their <td> and <th>
// tags; a missing close tag ends the cell at the next one. Columns covered
// by a rowspan from an earlier row are skipped when placing the next cell.
// The used range always starts at A1 so that leading blank rows and columns
// survive.
func ParseTable(str string, opts Options) (*models.Grid, error) {
	log := opts.logger()

	str = commentRegex.ReplaceAllString(str, "")
	open := tableOpen.FindStringIndex(str)
	if open == nil {
		return nil, &models.FormatError{Err: models.ErrNoTable}
	}
	end := len(str)
	if loc := tableClose.FindStringIndex(str); loc != nil && loc[0] >= open[0] {
		end = loc[0]
	}

	grid := models.NewGrid(opts.Dense)
	var (
		row, col  = -1, 0
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

	for i, segment := range splitKeep(str[open[0]:end], rowOpen) {
		if i%2 == 1 {
			row++
			if opts.SheetRows > 0 && row >= opts.SheetRows {
				row--
				break
			}
			col = 0
			continue
		}
		starts := cellOpen.FindAllStringIndex(segment, -1)
		if len(starts) == 0 {
			continue
		}
		if row < 0 {
			log.Debug("cells before first <tr>, treating as row 1")
			row = 0
		}

		for k, loc := range starts {
			// A cell runs to its closing tag, or to the next opening tag
			// when the close is missing.
			stop := len(segment)
			if k+1 < len(starts) {
				stop = starts[k+1][0]
			}
			piece := segment[loc[0]:stop]
			if c := cellClose.FindStringIndex(piece); c != nil {
				piece = piece[:c[0]]
			}

			fragment, content := piece, ""
			if gt := strings.IndexByte(piece, '>'); gt >= 0 {
				fragment, content = piece[:gt], piece[gt+1:]
			}

			col = skipMerged(grid.Merges(), row, col)

			tag := ParseTag(fragment)
			rowSpan := spanAttr(tag, "rowspan", models.MaxRowSpan)
			colSpan := spanAttr(tag, "colspan", models.MaxColSpan)
			addr := ref.Address{Row: row, Col: col}
			if rowSpan > 1 || colSpan > 1 {
				m := models.MergeRange{Anchor: addr, RowSpan: rowSpan, ColSpan: colSpan}
				grid.AddMerge(m)
				extend(m.Range())
			}

			text := DecodeCellText(content)
			if tag.First("space") == "preserve" {
				text = decodePreservedText(content)
			}
			if text == "" {
				col += colSpan
				continue
			}

			cell := Infer(CellSource{
				Text:    text,
				Hint:    tag.First("t", "data-t"),
				Value:   decodeEntities(tag.First("data-v")),
				Format:  decodeEntities(tag.First("data-z")),
				Display: decodeEntities(tag.First("data-w")),
			}, opts.Raw, opts.DateFormat)

			switch {
			case cell.IsEmpty():
			case grid.Covered(addr):
				log.Debug("cell lies inside a merged range, dropped", zap.String("address", addr.String()))
			default:
				grid.SetCell(addr, cell)
				extend(ref.Range{Start: addr, End: addr})
			}
			col += colSpan
		}
	}

	used := ref.Range{}
	if populated {
		log.Debug("parsed table", zap.String("bounds", bounds.String()), zap.Int("cells", grid.Len()))
		used.End = bounds.End
	}
	grid.SetUsedRange(used)
	return grid, nil
}

// skipMerged advances col past every merge declared in an earlier row that
// still covers (row, col).
func skipMerged(merges []models.MergeRange, row, col int) int {
	for i := 0; i < len(merges); i++ {
		m := merges[i]
		if m.Anchor.Col == col && m.Anchor.Row < row && row <= m.Anchor.Row+m.RowSpan-1 {
			col = m.Anchor.Col + m.ColSpan
			i = -1
		}
	}
	return col
}

// spanAttr reads a rowspan/colspan value, treating anything but a positive
// integer as 1 and capping it at limit.
func spanAttr(tag Tag, key string, limit int) int {
	v, ok := tag.Get(key)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	switch {
	case errors.Is(err, strconv.ErrRange) && n > 0:
		return limit
	case err != nil || n < 1:
		return 1
	}
	return min(n, limit)
}

// splitKeep splits s around every match of re, keeping the matches as their
// own elements: matches land on the odd indexes.
func splitKeep(s string, re *regexp.Regexp) []string {
	var out []string
	last := 0
	for _, loc := range re.FindAllStringIndex(s, -1) {
		out = append(out, s[last:loc[0]], s[loc[0]:loc[1]])
		last = loc[1]
	}
	return append(out, s[last:])
}
