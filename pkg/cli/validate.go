package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"sec_reconstructor/pkg/core/validate"
)

var (
	validateStmts string
	validateJSON  string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <adsh>",
	Short: "Validate the reconstructed statements of one filing",
	Long: `Validate reconstructs the requested statements of one filing and checks
structural parity, duplicates, missing values, context coherence, and
subtotal consistency. The exit code is non-zero when the filing fails.

Example:
  recon validate 0000320193-24-000123
  recon validate 0000320193-24-000123 --statements BS,CF --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateStmts, "statements", "", "comma-separated statement codes (default: BS,IS,CF,EQ,CI)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "write the full report to a JSON file")
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	adsh := args[0]
	ds, err := openDataset()
	if err != nil {
		return err
	}

	report := validate.NewValidator(ds.Engine()).ValidateFiling(adsh, splitStatements(validateStmts))

	fmt.Printf("Filing %s: %s\n", adsh, report.Summary.Status)
	codes := make([]string, 0, len(report.Statements))
	for code := range report.Statements {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		sv := report.Statements[code]
		fmt.Printf("  %-3s parity=%v coherence=%v coverage=%.0f%%",
			sv.Stmt, sv.StructuralParity.Passed, sv.ContextCoherence.Passed,
			sv.Coverage.CoverageRatio*100)
		for _, sc := range sv.SubtotalChecks {
			fmt.Printf(" %s=%v", sc.Name, sc.Passed)
		}
		fmt.Println()
	}

	if validateJSON != "" {
		if err := writeJSONFile(validateJSON, report); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", validateJSON)
	}

	if report.Summary.Status == validate.StatusFail {
		return fmt.Errorf("validation failed for %s", adsh)
	}
	return nil
}
