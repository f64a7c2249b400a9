package xlsx

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/ref"
)

// defaultSheet is the sheet a new excelize file starts with.
const defaultSheet = "Sheet1"

// WriteFile writes wb to path as an xlsx workbook.
func WriteFile(wb *models.Workbook, path string) error {
	f, err := build(wb)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// Write writes wb to w as an xlsx workbook.
func Write(wb *models.Workbook, w io.Writer) error {
	f, err := build(wb)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

func build(wb *models.Workbook) (*excelize.File, error) {
	f := excelize.NewFile()
	sw := sheetWriter{f: f, styles: make(map[string]int)}

	for i, name := range wb.SheetNames() {
		if i == 0 {
			if name != defaultSheet {
				if err := f.SetSheetName(defaultSheet, name); err != nil {
					f.Close()
					return nil, err
				}
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}

		g, _ := wb.Sheet(name)
		if err := sw.write(name, g); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

type sheetWriter struct {
	f      *excelize.File
	styles map[string]int
}

// write streams g into sheet row by row. The stream writer is the only
// excelize path that stores a formula together with a textual cached value.
func (sw *sheetWriter) write(sheet string, g *models.Grid) error {
	stream, err := sw.f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	var (
		row    = -1
		values []interface{}
	)
	flushRow := func() error {
		if row < 0 || len(values) == 0 {
			return nil
		}
		return stream.SetRow(cellName(ref.Address{Row: row}), values)
	}
	for _, a := range g.Addresses() {
		if a.Row != row {
			if err := flushRow(); err != nil {
				return err
			}
			row, values = a.Row, values[:0]
		}
		c, _ := g.Cell(a)
		v, err := sw.cellValue(c)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		for len(values) <= a.Col {
			values = append(values, nil)
		}
		values[a.Col] = v
	}
	if err := flushRow(); err != nil {
		return err
	}

	for _, m := range g.Merges() {
		rng := m.Range()
		if err := stream.MergeCell(cellName(rng.Start), cellName(rng.End)); err != nil {
			return err
		}
	}
	return stream.Flush()
}

// cellValue maps a cell to the value handed to the stream writer. Empty
// cells map to nil and are not written.
func (sw *sheetWriter) cellValue(c models.Cell) (interface{}, error) {
	switch v := c.Value.(type) {
	case nil, models.Empty:
		return nil, nil
	case models.Text:
		return string(v), nil
	case models.Number:
		return sw.styled(float64(v), c.Format)
	case models.Boolean:
		return bool(v), nil
	case models.Date:
		format := c.Format
		if format == "" {
			format = models.DefaultDateFormat
		}
		return sw.styled(float64(v), format)
	case models.Formula:
		// A formula without a display gets no cached value.
		cell := excelize.Cell{Formula: v.Body}
		if v.Display != "" {
			cell.Value = v.Display
		}
		return cell, nil
	default:
		return nil, &models.TypeError{Value: v}
	}
}

// styled wraps a number in a cell carrying its number format. The default
// date format maps to built-in format 14; anything else becomes a custom
// format.
func (sw *sheetWriter) styled(v float64, format string) (interface{}, error) {
	if format == "" || format == "General" {
		return v, nil
	}
	id, ok := sw.styles[format]
	if !ok {
		style := &excelize.Style{NumFmt: 14}
		if format != models.DefaultDateFormat {
			code := format
			style = &excelize.Style{CustomNumFmt: &code}
		}
		var err error
		if id, err = sw.f.NewStyle(style); err != nil {
			return nil, err
		}
		sw.styles[format] = id
	}
	return excelize.Cell{StyleID: id, Value: v}, nil
}

func cellName(a ref.Address) string {
	name, _ := excelize.CoordinatesToCellName(a.Col+1, a.Row+1)
	return name
}
