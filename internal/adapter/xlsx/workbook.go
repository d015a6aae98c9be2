// Package xlsx exports dashboard views as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SchoolsSheet = "escolas"
	SummarySheet = "resumo"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var schoolHeaders = []string{"ESCOLA", "CH", "LC", "CN", "MT", "REDACAO", "MEDIA", "LAT", "LON"}

var summaryHeaders = []string{"REGIONAL", "ESCOLAS", "MEDIA", "MINIMO", "MAXIMO"}

// WriteWorkbook writes the filtered schools and the per-region summary of v to w.
func WriteWorkbook(w io.Writer, v domain.View) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory file

	if err := f.SetSheetName("Sheet1", SchoolsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := make([][]any, 0, len(v.Schools)+1)
	rows = append(rows, headerRow(schoolHeaders))
	for _, s := range v.Schools {
		rows = append(rows, []any{
			s.Name,
			s.Scores.CH, s.Scores.LC, s.Scores.CN, s.Scores.MT, s.Scores.Redacao, s.Scores.Media,
			s.Geo.Lat, s.Geo.Lon,
		})
	}
	if err := writeRows(f, SchoolsSheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", SummarySheet, err)
	}
	summary := make([][]any, 0, len(v.Summary)+1)
	summary = append(summary, headerRow(summaryHeaders))
	for _, rs := range v.Summary {
		summary = append(summary, []any{rs.Regional, rs.Schools, rs.Mean, rs.Min, rs.Max})
	}
	if err := writeRows(f, SummarySheet, summary); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func headerRow(headers []string) []any {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return row
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
