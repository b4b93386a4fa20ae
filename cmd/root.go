package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	rootCmd = &cobra.Command{
		Use:   "cargoquery",
		Short: "Cargo Query - Ask business questions over finance and cargo data",
		Long: `Cargo Query answers natural-language questions about company finance
and cargo operations by translating them to SQL over a local DuckDB database.

When run without commands, it launches an interactive chat TUI.
Use subcommands for CLI mode with JSON output, or 'serve' for the HTTP API.`,
		Run: func(cmd *cobra.Command, args []string) {
			// No subcommand specified - launch the chat TUI
			LaunchChat(dataDir)
		},
	}
)

func init() {
	// Load ANTHROPIC_API_KEY and friends from .env when present
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "data/", "Directory containing CSV data files and the database")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
