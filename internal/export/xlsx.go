// Package export writes SMA reports as spreadsheets.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"

	"StockSMA/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	detailsSheet = "Details"
	statsSheet   = "Statistics"
)

// SaveReportXLSX writes report to path. A partially written file is removed
// when the write or the close fails.
func SaveReportXLSX(path, ticker string, report *model.PeriodReport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			err = errors.Join(err, os.Remove(path))
		}
	}()
	return WriteReportXLSX(f, ticker, report)
}

// WriteReportXLSX writes report as an xlsx workbook with a Details sheet
// (one row per day) and a Statistics sheet.
func WriteReportXLSX(w io.Writer, ticker string, report *model.PeriodReport) error {
	if report == nil {
		return fmt.Errorf("nil report")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), detailsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := []any{"Date", "Close Price", "SMA", "Difference"}
	if err := f.SetSheetRow(detailsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, p := range report.Details {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{model.FormatDate(p.Date), p.ClosePrice, p.SMA, p.Difference}
		if err := f.SetSheetRow(detailsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(detailsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		return fmt.Errorf("add statistics sheet: %w", err)
	}
	s := report.Statistics
	rows := [][]any{
		{"Ticker", ticker},
		{"Above SMA", s.AboveCount},
		{"Below SMA", s.BelowCount},
		{"Crossing Above", s.CrossingAboveCount},
		{"Crossing Below", s.CrossingBelowCount},
	}
	for i, row := range rows {
		if err := f.SetSheetRow(statsSheet, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return fmt.Errorf("write statistics: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
