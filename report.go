package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	reportSheet       = "IO List"
	reportMinChannels = 32
	reportHeaderRows  = 3
	reportRowHeight   = 14.5

	// excelize paper size code for A4
	paperSizeA4 = 9
)

var reportColumnWidths = []float64{10, 10, 30, 21, 21, 21, 21}

// ReportOptions controls how the report workbook is rendered and saved.
type ReportOptions struct {
	// Organization is printed in the top left corner of every slot page
	Organization string

	// Date is the revision date printed on every page and used in the file name
	Date time.Time

	// OutputDir is where WriteReport saves the workbook
	OutputDir string
}

type reportStyles struct {
	header  int
	center  int
	columns int
	left    int
}

// ReportFileName returns the workbook name for a project title and revision date.
func ReportFileName(title string, date time.Time) string {
	safe := strings.NewReplacer("/", "_", `\`, "_", " ", "_").Replace(strings.ToUpper(title))
	return fmt.Sprintf("REMOTE_IO_%s_%s.xlsx", safe, date.Format("2006-01-02"))
}

// WriteReport renders res and saves it under opts.OutputDir, returning the file path.
func WriteReport(res *Result, opts ReportOptions) (string, error) {
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}

	f, err := RenderWorkbook(res, opts)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(opts.OutputDir, ReportFileName(res.Title, opts.Date))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return path, nil
}

// RenderWorkbook lays out one printable page per slot: a title block followed
// by one row per channel, padded to at least 32 rows.
func RenderWorkbook(res *Result, opts ReportOptions) (*excelize.File, error) {
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := setupPage(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set up page: %w", err)
	}

	styles, err := newReportStyles(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create styles: %w", err)
	}

	row := 1
	for _, drop := range res.Matrix.SortedDrops() {
		for _, slot := range drop.SortedSlots() {
			next, err := writeSlotBlock(f, styles, row, res, opts, drop.Number, slot)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write drop %d slot %d: %w", drop.Number, slot.Number, err)
			}
			if err := f.InsertPageBreak(reportSheet, cellName(1, next)); err != nil {
				f.Close()
				return nil, err
			}
			row = next
		}
	}

	for i, w := range reportColumnWidths {
		col := columnName(i + 1)
		if err := f.SetColWidth(reportSheet, col, col, w); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func setupPage(f *excelize.File) error {
	size := paperSizeA4
	orientation := "landscape"
	fitWidth, fitHeight := 1, 0
	if err := f.SetPageLayout(reportSheet, &excelize.PageLayoutOptions{
		Size:        &size,
		Orientation: &orientation,
		FitToWidth:  &fitWidth,
		FitToHeight: &fitHeight,
	}); err != nil {
		return err
	}

	fitToPage := true
	if err := f.SetSheetProps(reportSheet, &excelize.SheetPropsOptions{FitToPage: &fitToPage}); err != nil {
		return err
	}

	margin := 0.5
	return f.SetPageMargins(reportSheet, &excelize.PageLayoutMarginsOptions{
		Left:   &margin,
		Right:  &margin,
		Top:    &margin,
		Bottom: &margin,
	})
}

func newReportStyles(f *excelize.File) (reportStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	bold := &excelize.Font{Bold: true, Size: 10}

	var s reportStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Border: border, Font: bold, Alignment: center}); err != nil {
		return s, err
	}
	if s.center, err = f.NewStyle(&excelize.Style{Border: border, Alignment: center}); err != nil {
		return s, err
	}
	if s.columns, err = f.NewStyle(&excelize.Style{
		Border:    border,
		Font:      bold,
		Alignment: center,
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
	}); err != nil {
		return s, err
	}
	s.left, err = f.NewStyle(&excelize.Style{
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true, Indent: 1},
	})
	return s, err
}

// writeSlotBlock writes the page for one slot starting at row and returns the
// first row after it.
func writeSlotBlock(f *excelize.File, st reportStyles, row int, res *Result, opts ReportOptions, drop int, slot *Slot) (int, error) {
	date := opts.Date.Format("2006-01-02")
	sheet := reportSheet

	type cellValue struct {
		col   int
		value interface{}
	}
	set := func(r int, values ...cellValue) error {
		for _, v := range values {
			if err := f.SetCellValue(sheet, cellName(v.col, r), v.value); err != nil {
				return err
			}
		}
		return nil
	}
	merge := func(r, from, to int) error {
		return f.MergeCell(sheet, cellName(from, r), cellName(to, r))
	}
	style := func(r, from, to, id int) error {
		return f.SetCellStyle(sheet, cellName(from, r), cellName(to, r), id)
	}

	// Title row
	if err := merge(row, 1, 2); err != nil {
		return 0, err
	}
	if err := set(row,
		cellValue{1, opts.Organization},
		cellValue{3, res.Title},
		cellValue{4, "Model\n" + res.PLCModel},
		cellValue{5, "Card\n" + slot.Model},
		cellValue{6, fmt.Sprintf("Drop\n%02d", drop)},
		cellValue{7, fmt.Sprintf("Slot\n%02d", slot.Number)},
	); err != nil {
		return 0, err
	}
	if err := style(row, 1, 7, st.header); err != nil {
		return 0, err
	}

	// Subtitle and revision
	if err := merge(row+1, 1, 5); err != nil {
		return 0, err
	}
	if err := merge(row+1, 6, 7); err != nil {
		return 0, err
	}
	if err := set(row+1,
		cellValue{1, "Digital/Analog Inputs/Outputs"},
		cellValue{6, "Revision: " + date},
	); err != nil {
		return 0, err
	}
	if err := style(row+1, 1, 7, st.center); err != nil {
		return 0, err
	}

	// Column titles
	if err := merge(row+2, 4, 7); err != nil {
		return 0, err
	}
	if err := set(row+2,
		cellValue{1, "TERMINAL"},
		cellValue{2, "BIT"},
		cellValue{3, "TAG"},
		cellValue{4, "DESCRIPTION / COMMENT"},
	); err != nil {
		return 0, err
	}
	if err := style(row+2, 1, 7, st.columns); err != nil {
		return 0, err
	}

	rows := len(slot.Channels)
	if rows < reportMinChannels {
		rows = reportMinChannels
	}
	for i := 0; i < rows; i++ {
		r := row + reportHeaderRows + i
		tag, comment := "-", "-"
		if i < len(slot.Channels) {
			if ch := slot.Channels[i]; ch.Tag != "" {
				tag = ch.Tag
			}
			if ch := slot.Channels[i]; ch.Comment != "" {
				comment = ch.Comment
			}
		}

		if err := f.SetRowHeight(sheet, r, reportRowHeight); err != nil {
			return 0, err
		}
		if err := merge(r, 4, 7); err != nil {
			return 0, err
		}
		if err := set(r,
			cellValue{1, i + 1},
			cellValue{2, i},
			cellValue{3, tag},
			cellValue{4, comment},
		); err != nil {
			return 0, err
		}
		if err := style(r, 1, 3, st.center); err != nil {
			return 0, err
		}
		if err := style(r, 4, 7, st.left); err != nil {
			return 0, err
		}
	}

	return row + reportHeaderRows + rows, nil
}

// columnName converts a 1-based column number in A..Z to its letter.
func columnName(col int) string {
	return string(rune('A' + col - 1))
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnName(col), row)
}
