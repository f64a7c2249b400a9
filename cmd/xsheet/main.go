// Package main provides the CLI entry point for xsheet.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/p455555555/x-spreadsheet/pkg/xsheet"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/models"
	"github.com/p455555555/x-spreadsheet/pkg/xsheet/output"
)

var (
	outputPath   string
	verbose      bool
	pretty       bool
	inputCharset string
	raw          bool
	dense        bool
	sheetRows    int
	sheetName    string
	tables       bool
	sheetsDir    string
	editable     bool
	tableID      string
	mode         string
	bare         bool
	asHTML       bool
	printArea    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xsheet",
		Short: "Convert between HTML tables, spreadsheet editor data and xlsx",
		Long: `xsheet converts HTML tables into the row model of a spreadsheet editor,
renders editor data back to HTML, and bridges both to xlsx workbooks.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	parseCmd := &cobra.Command{
		Use:   "parse [input.html]",
		Short: "Parse HTML tables into editor JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	parseFlags(parseCmd)
	parseCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	parseCmd.Flags().BoolVar(&tables, "tables", false, "Report table candidate ranges")
	parseCmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")

	renderCmd := &cobra.Command{
		Use:   "render [input.json]",
		Short: "Render editor JSON as an HTML document",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	renderFlags(renderCmd)

	xlsxCmd := &cobra.Command{
		Use:   "xlsx [input.html|input.json]",
		Short: "Write HTML tables or editor JSON to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runXLSX,
	}
	parseFlags(xlsxCmd)

	importCmd := &cobra.Command{
		Use:   "import [input.xlsx]",
		Short: "Read an xlsx workbook as editor JSON or HTML",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	importCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	importCmd.Flags().BoolVar(&dense, "dense", false, "Store grids as dense slices")
	importCmd.Flags().BoolVar(&asHTML, "html", false, "Render HTML instead of JSON")
	importCmd.Flags().BoolVar(&printArea, "print-area", false, "Keep only the cells inside each sheet's print areas")
	importCmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	renderFlags(importCmd)

	rootCmd.AddCommand(parseCmd, renderCmd, xlsxCmd, importCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inputCharset, "charset", "", "Input character set (default: detect, then UTF-8)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Keep cell text as text, skipping type inference")
	cmd.Flags().BoolVar(&dense, "dense", false, "Store grids as dense slices")
	cmd.Flags().IntVar(&sheetRows, "sheet-rows", 0, "Read at most this many rows per table (0: all)")
	cmd.Flags().StringVar(&sheetName, "sheet-name", "", "Name of the sheet when the input holds one table")
}

func renderFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&editable, "editable", false, "Render contenteditable cells without metadata")
	cmd.Flags().StringVar(&tableID, "id", "", "Table id and cell id prefix")
	cmd.Flags().StringVar(&mode, "mode", string(xsheet.ModeAll), "Sheets to render: all, last")
	cmd.Flags().BoolVar(&bare, "bare", false, "Write the tables without a document header and footer")
}

func options(log *zap.Logger) xsheet.Options {
	opts := xsheet.DefaultOptions()
	opts.Raw = raw
	opts.Dense = dense
	opts.SheetRows = sheetRows
	opts.SheetName = sheetName
	opts.DetectTables = &tables
	opts.PrintArea = printArea
	opts.Mode = xsheet.Mode(mode)
	opts.ID = tableID
	opts.Editable = editable
	if bare {
		opts.Header, opts.Footer = "", ""
	}
	opts.Logger = log
	return opts
}

func runParse(cmd *cobra.Command, args []string) error {
	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	markup, err := readHTML(args[0], inputCharset)
	if err != nil {
		return err
	}
	sheets, err := xsheet.HTMLToEditor(markup, options(log))
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	return writeSheets(sheets)
}

func runRender(cmd *cobra.Command, args []string) error {
	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	data, err := readInput(args[0])
	if err != nil {
		return err
	}
	sheets, err := xsheet.DecodeEditor(data)
	if err != nil {
		return err
	}
	html, err := xsheet.EditorToHTML(sheets, options(log))
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return writeOutput([]byte(html))
}

func runXLSX(cmd *cobra.Command, args []string) error {
	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	if outputPath == "" {
		return fmt.Errorf("xlsx output needs --output")
	}
	opts := options(log)

	var wb *models.Workbook
	if strings.EqualFold(filepath.Ext(args[0]), ".json") {
		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		sheets, err := xsheet.DecodeEditor(data)
		if err != nil {
			return err
		}
		if wb, err = xsheet.EditorToWorkbook(sheets, opts); err != nil {
			return err
		}
	} else {
		markup, err := readHTML(args[0], inputCharset)
		if err != nil {
			return err
		}
		if wb, err = xsheet.ParseHTML(markup, opts); err != nil {
			return fmt.Errorf("parse failed: %w", err)
		}
	}

	log.Debug("writing workbook", zap.String("path", outputPath), zap.Strings("sheets", wb.SheetNames()))
	return xsheet.WriteXLSX(wb, outputPath)
}

func runImport(cmd *cobra.Command, args []string) error {
	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	if _, err := os.Stat(args[0]); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", args[0])
	}
	opts := options(log)
	wb, err := xsheet.ReadXLSX(args[0], opts)
	if err != nil {
		return err
	}

	if asHTML {
		html, err := xsheet.RenderHTML(wb, opts)
		if err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		return writeOutput([]byte(html))
	}

	sheets, err := xsheet.WorkbookToEditor(wb, opts)
	if err != nil {
		return err
	}
	return writeSheets(sheets)
}

func writeSheets(sheets []models.EditorSheet) error {
	jsonData, err := output.SheetsToJSON(sheets, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" || sheetsDir == "" {
		if err := writeOutput(jsonData); err != nil {
			return err
		}
	}

	// Write per-sheet files
	if sheetsDir != "" {
		if err := writeSheetFiles(sheets, sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}
	return nil
}

func writeSheetFiles(sheets []models.EditorSheet, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i := range sheets {
		jsonData, err := output.SheetToJSON(&sheets[i], pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, sheets[i].Name+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}
	return nil
}

func writeOutput(data []byte) error {
	if outputPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
