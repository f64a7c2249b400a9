package xsheet

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet/editor"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/parser"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/render"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/xlsx"
)

// ParseHTML reads every table of markup into its own sheet.
func ParseHTML(markup string, opts Options) (*models.Workbook, error) {
	wb, err := parser.ParseHTML(markup, opts.ParserOptions())
	if err != nil {
		return nil, NewConversionError("", StageParse, err)
	}
	return wb, nil
}

// RenderHTML renders wb as one HTML document. ModeAll writes a table per
// sheet; ModeLast writes the last sheet only.
func RenderHTML(wb *models.Workbook, opts Options) (string, error) {
	var (
		out string
		err error
	)
	switch opts.Mode {
	case ModeAll, "":
		out, err = render.RenderWorkbook(wb, opts.RenderOptions())
	case ModeLast:
		out, err = render.RenderLast(wb, opts.RenderOptions())
	default:
		return "", fmt.Errorf("%w: %s (must be all or last)", ErrInvalidMode, opts.Mode)
	}
	if err != nil {
		return "", NewConversionError("", StageRender, err)
	}
	return out, nil
}

// WorkbookToEditor converts every sheet of wb to its editor form.
func WorkbookToEditor(wb *models.Workbook, opts Options) ([]models.EditorSheet, error) {
	log := opts.logger()
	sheets := make([]models.EditorSheet, 0, wb.Len())
	for _, name := range wb.SheetNames() {
		g, _ := wb.Sheet(name)
		sheet, err := editor.ToEditor(name, g)
		if err != nil {
			return nil, NewConversionError(name, StageEditor, err)
		}
		if opts.ShouldDetectTables() {
			sheet.Tables = parser.DetectTables(g, parser.DefaultTableParams())
		}
		log.Debug("converted sheet", zap.String("sheet", name), zap.Int("rows", len(sheet.Rows.Rows)))
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// EditorToWorkbook rebuilds a workbook from editor sheets. Sheets without a
// name get the first free "SheetN".
func EditorToWorkbook(sheets []models.EditorSheet, opts Options) (*models.Workbook, error) {
	wb := models.NewWorkbook()
	for _, sheet := range sheets {
		g := editor.FromEditor(sheet, opts.EditorOptions())
		if _, err := wb.AppendSheet(sheet.Name, g); err != nil {
			return nil, NewConversionError(sheet.Name, StageEditor, err)
		}
	}
	return wb, nil
}

// HTMLToEditor parses markup and converts each table to an editor sheet.
func HTMLToEditor(markup string, opts Options) ([]models.EditorSheet, error) {
	wb, err := ParseHTML(markup, opts)
	if err != nil {
		return nil, err
	}
	return WorkbookToEditor(wb, opts)
}

// EditorToHTML renders editor sheets as an HTML document.
func EditorToHTML(sheets []models.EditorSheet, opts Options) (string, error) {
	wb, err := EditorToWorkbook(sheets, opts)
	if err != nil {
		return "", err
	}
	return RenderHTML(wb, opts)
}

// DecodeEditor validates and decodes an editor JSON document holding one
// sheet or an array of sheets.
func DecodeEditor(data []byte) ([]models.EditorSheet, error) {
	sheets, err := editor.Decode(data)
	if err != nil {
		return nil, NewConversionError("", StageEditor, err)
	}
	return sheets, nil
}

// ReadXLSX reads an xlsx file into a workbook.
func ReadXLSX(path string, opts Options) (*models.Workbook, error) {
	wb, err := xlsx.ReadFile(path, opts.XLSXOptions())
	if err != nil {
		return nil, NewConversionError("", StageXLSX, err)
	}
	return wb, nil
}

// WriteXLSX writes wb to an xlsx file at path.
func WriteXLSX(wb *models.Workbook, path string) error {
	if err := xlsx.WriteFile(wb, path); err != nil {
		return NewConversionError("", StageXLSX, err)
	}
	return nil
}
