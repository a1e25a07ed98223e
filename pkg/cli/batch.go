package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"sec_reconstructor/pkg/core/store"
	"sec_reconstructor/pkg/core/validate"
)

var (
	batchLimit     int
	batchForms     string
	batchUniqueCIK bool
	batchStmts     string
	batchJSON      string
	batchSave      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Validate a sample of filings and print a quality scoreboard",
	Long: `Batch samples filings from the dataset (newest first), validates each in
parallel, and prints an aggregate scoreboard: status counts, coverage,
and per-statement pass ratios.

Example:
  recon batch --limit 100 --forms 10-K --unique-cik
  recon batch --limit 50 --statements BS,CF --json batch.json`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchLimit, "limit", 25, "maximum filings to validate (0 = all)")
	batchCmd.Flags().StringVar(&batchForms, "forms", "10-K,10-Q", "comma-separated form types to sample ('' = any)")
	batchCmd.Flags().BoolVar(&batchUniqueCIK, "unique-cik", false, "at most one filing per company")
	batchCmd.Flags().StringVar(&batchStmts, "statements", "", "comma-separated statement codes (default: BS,IS,CF,EQ,CI)")
	batchCmd.Flags().StringVar(&batchJSON, "json", "", "write the full batch report to a JSON file")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist filing reports to PostgreSQL")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ds, err := openDataset()
	if err != nil {
		return err
	}
	if ds.Submissions == nil {
		return fmt.Errorf("dataset has no sub.txt; cannot sample filings")
	}

	var forms []string
	if batchForms != "" {
		forms = strings.Split(batchForms, ",")
	}
	adshList := ds.Submissions.SampleAdshList(batchLimit, forms, batchUniqueCIK)
	if len(adshList) == 0 {
		return fmt.Errorf("no filings matched the sampling filters")
	}
	fmt.Printf("Validating %d filings...\n", len(adshList))

	ctx := context.Background()
	validator := validate.NewValidator(ds.Engine())
	batch := validator.ValidateBatch(ctx, adshList, splitStatements(batchStmts))
	board := validate.Summarize(batch)

	fmt.Printf("\nRun %s\n", batch.RunID)
	fmt.Printf("  pass=%d warn=%d fail=%d\n",
		batch.StatusCounts[validate.StatusPass],
		batch.StatusCounts[validate.StatusWarn],
		batch.StatusCounts[validate.StatusFail])
	fmt.Printf("  avg coverage %.1f%%, min %.1f%%\n",
		board.AvgStatementCoverageRatio*100, board.MinStatementCoverageRatio*100)
	fmt.Printf("  structural failures %d, subtotal failures %d, context warnings %d\n",
		board.AggregateStructuralFailures,
		board.AggregateSubtotalFailures,
		board.AggregateContextWarnings)

	stmtCodes := make([]string, 0, len(board.PerStatementHealth))
	for code := range board.PerStatementHealth {
		stmtCodes = append(stmtCodes, code)
	}
	sort.Strings(stmtCodes)
	for _, code := range stmtCodes {
		h := board.PerStatementHealth[code]
		fmt.Printf("  %-3s %d/%d pass (%.1f%%)\n", code, h.PassCount, h.TotalCount, h.PassRatio*100)
	}

	if batchJSON != "" {
		out := map[string]interface{}{"batch": batch, "scoreboard": board}
		if err := writeJSONFile(batchJSON, out); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", batchJSON)
	}

	if batchSave {
		if err := store.InitDB(ctx); err != nil {
			return err
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := store.NewReportRepo().SaveBatch(ctx, batch); err != nil {
			return err
		}
		fmt.Printf("Saved %d reports to validation_reports\n", batch.Count)
	}
	return nil
}
