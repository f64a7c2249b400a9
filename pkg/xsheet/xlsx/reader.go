// Package xlsx moves workbooks between the grid model and xlsx files.
package xlsx

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/ref"
)

// builtinDateFormats are the built-in number formats that print dates or
// times, keyed by format id.
var builtinDateFormats = map[int]string{
	14: models.DefaultDateFormat,
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
}

// Options configures xlsx import.
type Options struct {
	// Dense selects slice storage for the produced grids.
	Dense bool
	// PrintArea drops the cells outside a sheet's print areas, for sheets
	// that define any.
	PrintArea bool
	// Logger receives debug output about skipped cells.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// ReadFile reads every sheet of the xlsx file at path.
func ReadFile(path string, opts Options) (*models.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb, err := read(f, opts)
	if err != nil {
		return nil, err
	}
	wb.BookName = filepath.Base(path)
	return wb, nil
}

// Read reads every sheet of an xlsx document from r.
func Read(r io.Reader, opts Options) (*models.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f, opts)
}

func read(f *excelize.File, opts Options) (*models.Workbook, error) {
	var areas map[string][]ref.Range
	if opts.PrintArea {
		areas = printAreas(f)
	}

	wb := models.NewWorkbook()
	for _, name := range f.GetSheetList() {
		sr := sheetReader{f: f, sheet: name, log: opts.logger(), formats: make(map[int]numFmt)}
		g, err := sr.read(opts.Dense)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		if len(areas[name]) > 0 {
			opts.logger().Debug("cropping to print areas", zap.String("sheet", name), zap.Int("areas", len(areas[name])))
			g = cropToAreas(g, areas[name])
		}
		if _, err := wb.AppendSheet(name, g); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

// numFmt is the resolved number format of a cell style.
type numFmt struct {
	code string
	date bool
}

type sheetReader struct {
	f       *excelize.File
	sheet   string
	log     *zap.Logger
	formats map[int]numFmt
}

func (sr *sheetReader) read(dense bool) (*models.Grid, error) {
	formatted, err := sr.f.GetRows(sr.sheet)
	if err != nil {
		return nil, err
	}
	raw, err := sr.f.GetRows(sr.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	g := models.NewGrid(dense)
	var (
		end       ref.Address
		populated bool
	)
	grow := func(a ref.Address) {
		if a.Row > end.Row {
			end.Row = a.Row
		}
		if a.Col > end.Col {
			end.Col = a.Col
		}
		populated = true
	}

	for r, row := range formatted {
		for c, text := range row {
			rawText := ""
			if r < len(raw) && c < len(raw[r]) {
				rawText = raw[r][c]
			}
			addr := ref.Address{Row: r, Col: c}
			cell, ok, err := sr.readCell(addr, text, rawText)
			if err != nil {
				return nil, err
			}
			if ok {
				g.SetCell(addr, cell)
				grow(addr)
			}
		}
	}

	merges, err := sr.f.GetMergeCells(sr.sheet, true)
	if err != nil {
		return nil, err
	}
	for _, mc := range merges {
		rng, err := mergeRange(mc)
		if err != nil {
			sr.log.Debug("skipping merge", zap.String("sheet", sr.sheet), zap.Error(err))
			continue
		}
		g.AddMerge(models.MergeFromRange(rng))
		grow(rng.End)
	}

	if populated {
		g.SetUsedRange(ref.Range{End: end})
	}
	return g, nil
}

// readCell types one cell. Formulas win over the cached value; numbers with
// a date format become dates.
func (sr *sheetReader) readCell(addr ref.Address, text, rawText string) (models.Cell, bool, error) {
	name, err := excelize.CoordinatesToCellName(addr.Col+1, addr.Row+1)
	if err != nil {
		return models.Cell{}, false, err
	}

	formula, err := sr.f.GetCellFormula(sr.sheet, name)
	if err != nil {
		return models.Cell{}, false, err
	}
	if formula != "" {
		body := strings.TrimPrefix(formula, "=")
		return models.Cell{Value: models.Formula{Body: body, Display: text}, Raw: text}, true, nil
	}
	if text == "" && rawText == "" {
		return models.Cell{}, false, nil
	}

	typ, err := sr.f.GetCellType(sr.sheet, name)
	if err != nil {
		return models.Cell{}, false, err
	}
	cell := models.Cell{Raw: text}
	switch typ {
	case excelize.CellTypeBool:
		cell.Value = models.Boolean(rawText == "1" || strings.EqualFold(rawText, "true"))
	case excelize.CellTypeDate:
		t, err := time.Parse(time.RFC3339Nano, rawText)
		if err != nil {
			t, err = time.Parse("2006-01-02T15:04:05", rawText)
		}
		if err != nil {
			sr.log.Debug("unreadable ISO date kept as text", zap.String("cell", name), zap.String("value", rawText))
			cell.Value = models.Text(text)
			break
		}
		cell.Value = models.DateFromTime(t)
		cell.Format = models.DefaultDateFormat
		if nf := sr.numFmt(name); nf.date {
			cell.Format = nf.code
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		v, err := strconv.ParseFloat(rawText, 64)
		if err != nil {
			cell.Value = models.Text(text)
			break
		}
		nf := sr.numFmt(name)
		cell.Format = nf.code
		if nf.date {
			cell.Value = models.Date(v)
		} else {
			cell.Value = models.Number(v)
		}
	default:
		cell.Value = models.Text(text)
	}
	return cell, true, nil
}

// numFmt resolves the number format of a cell, caching by style id.
func (sr *sheetReader) numFmt(cell string) numFmt {
	id, err := sr.f.GetCellStyle(sr.sheet, cell)
	if err != nil {
		return numFmt{}
	}
	if nf, ok := sr.formats[id]; ok {
		return nf
	}

	var nf numFmt
	if style, err := sr.f.GetStyle(id); err == nil && style != nil {
		switch {
		case style.CustomNumFmt != nil:
			nf.code = *style.CustomNumFmt
			nf.date = models.IsDateFormat(nf.code)
		case builtinDateFormats[style.NumFmt] != "":
			nf.code = builtinDateFormats[style.NumFmt]
			nf.date = true
		}
	}
	sr.formats[id] = nf
	return nf
}

func mergeRange(mc excelize.MergeCell) (ref.Range, error) {
	sc, sr, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
	if err != nil {
		return ref.Range{}, err
	}
	ec, er, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
	if err != nil {
		return ref.Range{}, err
	}
	return ref.Range{
		Start: ref.Address{Row: sr - 1, Col: sc - 1},
		End:   ref.Address{Row: er - 1, Col: ec - 1},
	}, nil
}
