package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var queryString string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the database (DuckDB SQL)",
	Long: `Execute the requested QUERY against the DuckDB database.
Only read-only queries are allowed (SELECT, WITH, DESCRIBE, SHOW).

Examples:
  cargoquery query --sql "SELECT * FROM profit_loss LIMIT 5"
  cargoquery query --sql "SELECT COUNT(*) AS total FROM cargo_volumes"
  cargoquery query --sql "SHOW TABLES"`,
	Run: func(cmd *cobra.Command, args []string) {
		if queryString == "" {
			HandleError(fmt.Errorf("query is required"), "Missing query parameter")
		}

		// Initialize database
		db, cleanup, err := InitDB(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		// Execute the query
		rows, err := db.ExecuteQuery(queryString)
		if err != nil {
			HandleError(err, "Failed to execute query")
		}

		// Convert to JSON output
		output, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryString, "sql", "q", "", "SQL query to execute (required)")
	_ = queryCmd.MarkFlagRequired("sql")
	rootCmd.AddCommand(queryCmd)
}
