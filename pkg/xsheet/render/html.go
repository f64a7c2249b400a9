// Package render writes grids back out as HTML tables.
package render

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/ref"
)

const (
	// DefaultHeader opens the document written around the table.
	DefaultHeader = `<html><head><meta charset="utf-8"/><title>Table Export</title></head><body>`
	// DefaultFooter closes the document opened by DefaultHeader.
	DefaultFooter = `</body></html>`
	// DefaultIDPrefix prefixes cell ids when Options.ID is empty.
	DefaultIDPrefix = "cell"
)

var preserveRegexp = regexp.MustCompile(`(^\s|\s$|\n|\s\s)`)

// Options configures HTML rendering.
type Options struct {
	// Header and Footer wrap the rendered tables. Empty strings write the
	// tables alone.
	Header string
	Footer string
	// ID is the table id and the prefix of cell ids.
	ID string
	// Editable wraps each cell's text in a contenteditable span and drops the
	// data-* metadata and cell ids.
	Editable bool
	// Logger receives debug output.
	Logger *zap.Logger
}

// DefaultOptions returns options that write a complete document.
func DefaultOptions() Options {
	return Options{Header: DefaultHeader, Footer: DefaultFooter}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// RenderHTML renders g as a single table wrapped in the header and footer.
func RenderHTML(g *models.Grid, opts Options) (string, error) {
	table, err := RenderTable(g, opts)
	if err != nil {
		return "", err
	}
	return opts.Header + table + opts.Footer, nil
}

// RenderWorkbook renders every sheet of wb as its own table, in sheet order,
// inside one header and footer. With more than one sheet, each table's id
// and cell id prefix is the configured prefix followed by the sheet
// position, e.g. "cell-2-B3". A single sheet keeps the plain prefix.
func RenderWorkbook(wb *models.Workbook, opts Options) (string, error) {
	prefix := opts.ID
	if prefix == "" {
		prefix = DefaultIDPrefix
	}

	var b strings.Builder
	b.WriteString(opts.Header)
	for i, name := range wb.SheetNames() {
		g, _ := wb.Sheet(name)
		sheetOpts := opts
		if wb.Len() > 1 {
			sheetOpts.ID = prefix + "-" + strconv.Itoa(i+1)
		}
		table, err := RenderTable(g, sheetOpts)
		if err != nil {
			return "", err
		}
		b.WriteString(table)
	}
	b.WriteString(opts.Footer)
	return b.String(), nil
}

// RenderLast renders only the last sheet of wb, the way single-table
// exports of a multi-sheet editor behave.
func RenderLast(wb *models.Workbook, opts Options) (string, error) {
	names := wb.SheetNames()
	if len(names) == 0 {
		return opts.Header + "<table></table>" + opts.Footer, nil
	}
	g, _ := wb.Sheet(names[len(names)-1])
	return RenderHTML(g, opts)
}

// RenderTable renders g as a table element. Rows are written from 0 to the
// last row of the used range so leading blank rows survive; columns follow
// the used range. Cells covered by a merge are left out and merge anchors
// carry rowspan/colspan.
func RenderTable(g *models.Grid, opts Options) (string, error) {
	var b strings.Builder
	b.WriteString("<table")
	if opts.ID != "" {
		writeAttr(&b, "id", opts.ID)
	}
	b.WriteString(">")

	used, ok := extent(g)
	if !ok {
		b.WriteString("</table>")
		return b.String(), nil
	}
	opts.logger().Debug("rendering table", zap.String("range", used.String()), zap.Int("cells", g.Len()))

	prefix := opts.ID
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	for r := 0; r <= used.End.Row; r++ {
		b.WriteString("<tr>")
		for c := used.Start.Col; c <= used.End.Col; c++ {
			if err := writeCell(&b, g, ref.Address{Row: r, Col: c}, prefix, opts.Editable); err != nil {
				return "", err
			}
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String(), nil
}

// extent returns the used range, or the bounding box of the cells and
// merges when none is set.
func extent(g *models.Grid) (ref.Range, bool) {
	if used, ok := g.UsedRange(); ok {
		return used, true
	}

	var (
		rng   ref.Range
		found bool
	)
	add := func(r ref.Range) {
		if !found {
			rng, found = r, true
			return
		}
		rng = rng.Extend(r.Start).Extend(r.End)
	}
	for _, a := range g.Addresses() {
		add(ref.Range{Start: a, End: a})
	}
	for _, m := range g.Merges() {
		add(m.Range())
	}
	return rng, found
}

func writeCell(b *strings.Builder, g *models.Grid, addr ref.Address, prefix string, editable bool) error {
	rowSpan, colSpan := 1, 1
	if m, ok := g.MergeAt(addr); ok {
		if m.Anchor != addr {
			return nil
		}
		rowSpan, colSpan = m.RowSpan, m.ColSpan
	}

	cell, ok := g.Cell(addr)
	text := ""
	if ok {
		display, err := cell.Display()
		if err != nil {
			return err
		}
		text = EscapeText(display)
	}

	b.WriteString("<td")
	if rowSpan > 1 {
		writeAttr(b, "rowspan", strconv.Itoa(rowSpan))
	}
	if colSpan > 1 {
		writeAttr(b, "colspan", strconv.Itoa(colSpan))
	}

	if editable {
		text = `<span contenteditable="true">` + text + `</span>`
	} else {
		if ok {
			if err := writeMetadata(b, cell); err != nil {
				return err
			}
		}
		writeAttr(b, "id", prefix+"-"+addr.String())
	}

	if preserveRegexp.MatchString(text) {
		b.WriteString(` xml:space="preserve"`)
	}
	b.WriteString(">")
	b.WriteString(text)
	b.WriteString("</td>")
	return nil
}

// writeMetadata writes the data-t, data-v, data-z and data-w attributes
// the parser reads back.
func writeMetadata(b *strings.Builder, cell models.Cell) error {
	tag := "z"
	if cell.Value != nil {
		tag = cell.Value.Tag()
	}
	writeAttr(b, "data-t", tag)

	if !cell.IsEmpty() {
		v, err := cell.RawValue()
		if err != nil {
			return err
		}
		writeAttr(b, "data-v", v)
	}
	if cell.Format != "" {
		writeAttr(b, "data-z", cell.Format)
	}
	if f, ok := cell.Value.(models.Formula); ok && f.Display != "" {
		writeAttr(b, "data-w", f.Display)
	}
	return nil
}

func writeAttr(b *strings.Builder, key, value string) {
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(escapeAttr(value))
	b.WriteString(`"`)
}
