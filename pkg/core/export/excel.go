// Package export renders reconstructed statement tables to spreadsheet and
// CSV files for manual review and golden-file approval.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"sec_reconstructor/pkg/core/reconstruct"
)

var workbookHeader = []string{
	"report", "line", "depth", "tag", "label", "formatted_value",
	"uom", "ddate", "qtrs", "segments", "coreg", "candidate_count", "conflict",
}

// WriteWorkbook writes one xlsx workbook with a sheet per statement code.
// Labels are indented to mirror the presentation hierarchy.
func WriteWorkbook(path string, tables map[string][]reconstruct.StatementRow) error {
	f := excelize.NewFile()
	defer f.Close()

	codes := make([]string, 0, len(tables))
	for code := range tables {
		if len(tables[code]) > 0 {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return fmt.Errorf("no statement rows to export")
	}
	sort.Strings(codes)

	for i, code := range codes {
		sheet := code
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet, err)
			}
		}

		for col, name := range workbookHeader {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return err
			}
		}

		for rowIdx := range tables[code] {
			row := &tables[code][rowIdx]
			values := []interface{}{
				row.Report,
				row.Line,
				row.Depth,
				row.Tag,
				strings.Repeat("  ", row.Depth) + row.Label,
				row.FormattedValue,
				row.UOM,
				row.DDate,
				intOrEmpty(row.Qtrs),
				row.Segments,
				row.Coreg,
				row.CandidateCount,
				row.Conflict,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func intOrEmpty(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
