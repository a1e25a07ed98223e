package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sec_reconstructor/pkg/core/reconstruct"
)

var coverageStmts string

// coverageCmd represents the coverage command
var coverageCmd = &cobra.Command{
	Use:   "coverage <adsh>",
	Short: "Report value coverage per statement of one filing",
	Args:  cobra.ExactArgs(1),
	RunE:  runCoverage,
}

func init() {
	rootCmd.AddCommand(coverageCmd)

	coverageCmd.Flags().StringVar(&coverageStmts, "statements", "", "comma-separated statement codes (default: BS,IS,CF,EQ,CI)")
}

func runCoverage(cmd *cobra.Command, args []string) error {
	adsh := args[0]
	ds, err := openDataset()
	if err != nil {
		return err
	}

	codes := splitStatements(coverageStmts)
	if codes == nil {
		codes = reconstruct.CoreStatementCodes
	}

	engine := ds.Engine()
	for _, code := range codes {
		cov := engine.Coverage(adsh, code)
		fmt.Printf("%-3s %3d/%3d rows valued (%.0f%%)\n",
			code, cov.RowsWithValues, cov.RowsTotal, cov.CoverageRatio*100)
		if verbose {
			for _, tag := range cov.MissingTags {
				fmt.Printf("      missing %s\n", tag)
			}
		}
	}
	return nil
}
