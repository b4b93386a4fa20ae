package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// SchemaOutput represents the schema information for a table
type SchemaOutput struct {
	TableName   string       `json:"table_name"`
	ColumnCount int          `json:"column_count"`
	Columns     []ColumnInfo `json:"columns"`
}

// ColumnInfo represents information about a single column
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable string `json:"nullable"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Retrieve a summary of the DuckDB database schema",
	Long: `Retrieve a summary of the local DuckDB database schema.
This command returns information about all business tables and their columns.

Examples:
  cargoquery schema`,
	Run: func(cmd *cobra.Command, args []string) {
		// Initialize database
		db, cleanup, err := InitDB(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize database")
		}
		defer cleanup()

		tables := []string{
			"balance_sheet", "cash_flow", "profit_loss", "profit_loss_quarterly",
			"roce", "cargo_volumes", "containers", "roro",
		}
		schemas := make([]SchemaOutput, 0, len(tables))

		for _, tableName := range tables {
			schema, err := getTableSchema(db, tableName)
			if err != nil {
				// Skip tables that don't exist
				continue
			}
			schemas = append(schemas, schema)
		}

		// Convert to JSON output
		output, err := json.MarshalIndent(schemas, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

// getTableSchema retrieves schema information for a specific table
func getTableSchema(db DBInterface, tableName string) (SchemaOutput, error) {
	query := fmt.Sprintf("DESCRIBE %s", tableName)
	rows, err := db.ExecuteQuery(query)
	if err != nil {
		return SchemaOutput{}, fmt.Errorf("failed to get schema for table %s: %w", tableName, err)
	}

	schema := SchemaOutput{
		TableName: tableName,
		Columns:   []ColumnInfo{},
	}

	for _, row := range rows {
		// DESCRIBE returns: column_name, column_type, null, key, default, extra
		name, _ := row["column_name"].(string)
		colType, _ := row["column_type"].(string)
		nullable, _ := row["null"].(string)

		schema.Columns = append(schema.Columns, ColumnInfo{
			Name:     name,
			Type:     colType,
			Nullable: nullable,
		})
	}

	schema.ColumnCount = len(schema.Columns)

	return schema, nil
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
