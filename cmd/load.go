package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Build the database from CSV files",
	Long: `Build (or rebuild) the DuckDB database from the CSV files in the data
directory. Every table is replaced wholesale, so the command is safe to re-run
after updating the CSVs.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Loading data from %s...\n", dataDir)

		if err := LoadData(dataDir); err != nil {
			HandleError(err, "Failed to load data")
		}

		fmt.Println("✓ Database loaded")
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
