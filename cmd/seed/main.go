package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Initialise the remote document store with café content",
	Long: `Seed writes a dataset into the document store selected by the usual
environment (ADAPTER, DATA_DIR, DB_*).

The dataset is the built-in fallback content unless --file names a
.json, .json.gz, .yaml or .yml dataset. Collections that already hold
documents are left alone unless --force is given. Nothing is ever deleted.

Example usage:
  seed                          # seed an empty store with the built-in content
  seed --file menu.yaml         # seed from a dataset file
  seed --force --dry-run        # show what an overwrite would write`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringP("file", "f", "", "dataset file (defaults to FALLBACK_PATH, then the built-in content)")
	rootCmd.Flags().Bool("force", false, "overwrite collections that already hold documents")
	rootCmd.Flags().Bool("dry-run", false, "report what would be written without writing")
	rootCmd.Flags().Duration("timeout", 0, "give up after this long (0 waits indefinitely)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
