// Package xsheet converts between HTML tables, the spreadsheet editor's row
// model and xlsx workbooks.
package xsheet

import (
	"go.uber.org/zap"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/editor"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/parser"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/render"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/xlsx"
)

// Mode selects how multi-sheet workbooks are rendered.
type Mode string

const (
	// ModeAll renders one table per sheet.
	ModeAll Mode = "all"
	// ModeLast renders only the last sheet.
	ModeLast Mode = "last"
)

// Options configures conversions.
type Options struct {
	// Raw keeps parsed cells as text.
	Raw bool
	// Dense selects slice storage for grids.
	Dense bool
	// SheetRows limits the rows read from each table. Zero reads all rows.
	SheetRows int
	// SheetName names the sheet of a single-table document.
	SheetName string
	// DateFormat is the number format given to inferred dates.
	DateFormat string
	// PrintArea crops imported xlsx sheets to their print areas.
	PrintArea bool
	// DetectTables fills EditorSheet.Tables with table candidates.
	// If nil, defaults to false.
	DetectTables *bool

	// Mode selects which sheets are rendered.
	Mode Mode
	// Header and Footer wrap the rendered document.
	Header string
	Footer string
	// ID is the table id and cell id prefix.
	ID string
	// Editable renders contenteditable cells without metadata.
	Editable bool

	Logger *zap.Logger
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		DateFormat: parser.DefaultDateFormat,
		Mode:       ModeAll,
		Header:     render.DefaultHeader,
		Footer:     render.DefaultFooter,
	}
}

// ShouldDetectTables returns whether to report table candidates.
func (o Options) ShouldDetectTables() bool {
	return o.DetectTables != nil && *o.DetectTables
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// ParserOptions returns the HTML parse options.
func (o Options) ParserOptions() parser.Options {
	return parser.Options{
		Raw:        o.Raw,
		Dense:      o.Dense,
		SheetRows:  o.SheetRows,
		SheetName:  o.SheetName,
		DateFormat: o.DateFormat,
		Logger:     o.logger().Named("parser"),
	}
}

// RenderOptions returns the HTML render options.
func (o Options) RenderOptions() render.Options {
	return render.Options{
		Header:   o.Header,
		Footer:   o.Footer,
		ID:       o.ID,
		Editable: o.Editable,
		Logger:   o.logger().Named("render"),
	}
}

// EditorOptions returns the editor conversion options.
func (o Options) EditorOptions() editor.Options {
	return editor.Options{Dense: o.Dense, Logger: o.logger().Named("editor")}
}

// XLSXOptions returns the xlsx import options.
func (o Options) XLSXOptions() xlsx.Options {
	return xlsx.Options{Dense: o.Dense, PrintArea: o.PrintArea, Logger: o.logger().Named("xlsx")}
}
