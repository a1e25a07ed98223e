// Package cli implements the recon command line tool over the quarterly
// flat-file datasets.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sec_reconstructor/pkg/core/dataset"
)

var (
	dataDir string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "recon",
	Short: "Reconstruct and validate financial statements from quarterly flat files",
	Long: `Recon rebuilds standardized financial statements (balance sheet, income
statement, cash flow, equity, comprehensive income) from a quarterly
flat-file dataset (sub.txt, num.txt, pre.txt, tag.txt).

Every statement is reconstructed deterministically from the filing's
presentation hierarchy and numeric fact pool, then checked for structural
parity, context coherence, and subtotal consistency.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory with sub.txt/num.txt/pre.txt/tag.txt (default: $RECON_DATA_DIR or ./data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads environment variables that match RECON_*
func initConfig() {
	godotenv.Load()
	viper.SetEnvPrefix("RECON")
	viper.AutomaticEnv()
}

// openDataset loads the dataset named by --data-dir, RECON_DATA_DIR, or the
// ./data default.
func openDataset() (*dataset.Dataset, error) {
	dir := dataDir
	if dir == "" {
		dir = viper.GetString("data_dir")
	}
	if dir == "" {
		dir = "data"
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Loading dataset from %s\n", dir)
	}
	ds, err := dataset.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if verbose && ds.Numeric != nil {
		fmt.Fprintf(os.Stderr, "Loaded %d numeric facts\n", ds.Numeric.Len())
	}
	return ds, nil
}
