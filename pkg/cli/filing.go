package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sec_reconstructor/pkg/core/export"
	"sec_reconstructor/pkg/core/reconstruct"
	"sec_reconstructor/pkg/core/store"
)

var (
	filingStmts string
	filingOut   string
	filingSave  bool
)

// filingCmd represents the filing command
var filingCmd = &cobra.Command{
	Use:   "filing <adsh>",
	Short: "Reconstruct every core statement of one filing",
	Long: `Filing rebuilds all requested statement tables for one accession number
and reports per-statement coverage. With --out the tables are written to
one xlsx workbook, a sheet per statement; with --save they are upserted
into PostgreSQL (requires DATABASE_URL).

Example:
  recon filing 0000320193-24-000123
  recon filing 0000320193-24-000123 --statements BS,IS --out apple.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runFiling,
}

func init() {
	rootCmd.AddCommand(filingCmd)

	filingCmd.Flags().StringVar(&filingStmts, "statements", "", "comma-separated statement codes (default: BS,IS,CF,EQ,CI)")
	filingCmd.Flags().StringVar(&filingOut, "out", "", "write tables to an xlsx workbook")
	filingCmd.Flags().BoolVar(&filingSave, "save", false, "persist tables to PostgreSQL")
}

func splitStatements(raw string) []string {
	if raw == "" {
		return nil
	}
	var codes []string
	for _, code := range strings.Split(raw, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

func runFiling(cmd *cobra.Command, args []string) error {
	adsh := args[0]
	ds, err := openDataset()
	if err != nil {
		return err
	}

	if ds.Submissions != nil {
		if sub, ok := ds.Submissions.ByAdsh(adsh); ok {
			fmt.Printf("Filing %s (%s, %s filed %s)\n", adsh, sub.Name, sub.Form, sub.Filed)
		}
	}

	codes := splitStatements(filingStmts)
	if codes == nil {
		codes = reconstruct.CoreStatementCodes
	}

	engine := ds.Engine()
	tables := engine.ReconstructFiling(adsh, codes)

	for _, code := range codes {
		cov := reconstruct.CoverageOf(code, tables[code])
		fmt.Printf("  %-3s %3d rows, %3d with values (%.0f%%)\n",
			code, cov.RowsTotal, cov.RowsWithValues, cov.CoverageRatio*100)
	}

	if filingOut != "" {
		if err := export.WriteWorkbook(filingOut, tables); err != nil {
			return err
		}
		fmt.Printf("Wrote workbook %s\n", filingOut)
	}

	if filingSave {
		ctx := context.Background()
		if err := store.InitDB(ctx); err != nil {
			return err
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		n, err := store.NewStatementRepo().SaveTables(ctx, tables)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %d rows to statement_rows\n", n)
	}
	return nil
}
