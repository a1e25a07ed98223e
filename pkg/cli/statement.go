package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sec_reconstructor/pkg/core/export"
	"sec_reconstructor/pkg/core/reconstruct"
)

var (
	stmtCode string
	pinDDate string
	pinQtrs  int
	stmtOut  string
)

// statementCmd represents the statement command
var statementCmd = &cobra.Command{
	Use:   "statement <adsh>",
	Short: "Reconstruct one statement of one filing",
	Long: `Statement rebuilds a single statement table for the given accession
number and prints it as an indented text table.

Example:
  recon statement 0000320193-24-000123 --stmt BS
  recon statement 0000320193-24-000123 --stmt CF --ddate 20240928 --qtrs 4
  recon statement 0000320193-24-000123 --stmt IS --out is.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runStatement,
}

func init() {
	rootCmd.AddCommand(statementCmd)

	statementCmd.Flags().StringVar(&stmtCode, "stmt", "BS", "statement code (BS, IS, CF, EQ, CI)")
	statementCmd.Flags().StringVar(&pinDDate, "ddate", "", "pin the context end date (YYYYMMDD)")
	statementCmd.Flags().IntVar(&pinQtrs, "qtrs", -1, "pin the context duration in quarters (0 = instant)")
	statementCmd.Flags().StringVar(&stmtOut, "out", "", "write the table to a CSV file instead of stdout")
}

func pinnedContext() reconstruct.ResolvedContext {
	pin := reconstruct.ResolvedContext{DDate: pinDDate}
	if pinQtrs >= 0 {
		q := pinQtrs
		pin.Qtrs = &q
	}
	return pin
}

func runStatement(cmd *cobra.Command, args []string) error {
	adsh := args[0]
	ds, err := openDataset()
	if err != nil {
		return err
	}

	rows := ds.Engine().ReconstructStatement(adsh, stmtCode, pinnedContext())
	if len(rows) == 0 {
		return fmt.Errorf("no %s presentation rows for %s", stmtCode, adsh)
	}

	if stmtOut != "" {
		if err := export.WriteCSV(stmtOut, rows); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s\n", len(rows), stmtOut)
		return nil
	}

	printStatement(rows)
	return nil
}

func printStatement(rows []reconstruct.StatementRow) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REPORT\tLINE\tLABEL\tVALUE\tDDATE\tQTRS")
	for i := range rows {
		row := &rows[i]
		qtrs := ""
		if row.Qtrs != nil {
			qtrs = fmt.Sprintf("%d", *row.Qtrs)
		}
		label := strings.Repeat("  ", row.Depth) + row.Label
		mark := ""
		if row.Conflict {
			mark = " !"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s%s\t%s\t%s\n",
			row.Report, row.Line, label, row.FormattedValue, mark, row.DDate, qtrs)
	}
	w.Flush()
}
