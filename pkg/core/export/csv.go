package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"sec_reconstructor/pkg/core/reconstruct"
)

var csvHeader = []string{
	"report", "line", "inpth", "tag", "label", "formatted_value", "ddate", "qtrs",
}

// WriteCSV writes one statement table to a CSV file in the golden-file
// column layout, for side-by-side comparison against the published filing.
func WriteCSV(path string, rows []reconstruct.StatementRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("no statement rows to export")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		qtrs := ""
		if row.Qtrs != nil {
			qtrs = strconv.Itoa(*row.Qtrs)
		}
		record := []string{
			strconv.Itoa(row.Report),
			strconv.Itoa(row.Line),
			strconv.Itoa(row.Depth),
			row.Tag,
			row.Label,
			row.FormattedValue,
			row.DDate,
			qtrs,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
