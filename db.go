package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

const dbFileName = "business_data.duckdb"

// tableDef describes one business table and the CSV file it is loaded from.
// Financial tables are (keyCol, period, value); operational tables add a port
// column in front.
type tableDef struct {
	Name        string
	CSVFile     string
	KeyCol      string
	Operational bool
	Description string
}

// businessTables is the fixed schema both the loader and the agent's system
// prompt are built from. The period column is a free-form label ("2024-25",
// "Q1 2024-25"), compared by exact string equality only.
var businessTables = []tableDef{
	{Name: "balance_sheet", CSVFile: "balance_sheet.csv", KeyCol: "line_item",
		Description: "Annual balance sheet line items (assets, liabilities, equity)"},
	{Name: "cash_flow", CSVFile: "cash_flow.csv", KeyCol: "line_item",
		Description: "Annual cash flow statement line items"},
	{Name: "profit_loss", CSVFile: "profit_loss.csv", KeyCol: "line_item",
		Description: "Annual profit and loss line items (revenue, expenses, net profit)"},
	{Name: "profit_loss_quarterly", CSVFile: "profit_loss_quarterly.csv", KeyCol: "line_item",
		Description: "Quarterly profit and loss line items; period looks like 'Q1 2024-25'"},
	{Name: "roce", CSVFile: "roce.csv", KeyCol: "metric",
		Description: "Return on capital employed and related ratio metrics"},
	{Name: "cargo_volumes", CSVFile: "cargo_volumes.csv", KeyCol: "cargo_type", Operational: true,
		Description: "Cargo volume handled per port, cargo type and period (million tonnes)"},
	{Name: "containers", CSVFile: "containers.csv", KeyCol: "trade_type", Operational: true,
		Description: "Container traffic per port, trade type and period (TEUs)"},
	{Name: "roro", CSVFile: "roro.csv", KeyCol: "trade_type", Operational: true,
		Description: "Roll-on/roll-off vehicle traffic per port, trade type and period (units)"},
}

// DB wraps the DuckDB connection holding the business tables.
type DB struct {
	conn    *sql.DB
	dataDir string
}

// OpenDB opens an existing business database. It fails when the store has not
// been built yet, so the service refuses to start instead of failing on every
// request.
func OpenDB(dataDir string) (*DB, error) {
	dbPath := filepath.Join(dataDir, dbFileName)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database %s not found: run 'cargoquery load' first", dbPath)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open DuckDB database", "error", err, "db_path", dbPath)
		}
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	return &DB{conn: conn, dataDir: dataDir}, nil
}

// LoadDB builds (or rebuilds) the business database from the CSV files in
// dataDir. Every table is replaced wholesale; there is no incremental update.
func LoadDB(dataDir string) (*DB, error) {
	if missing := missingCSVFiles(dataDir); len(missing) > 0 {
		return nil, fmt.Errorf("missing CSV files in %s: %s", dataDir, strings.Join(missing, ", "))
	}

	dbPath := filepath.Join(dataDir, dbFileName)
	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open DuckDB database", "error", err, "db_path", dbPath)
		}
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	d := &DB{conn: conn, dataDir: dataDir}
	if err := d.rebuildTables(); err != nil {
		conn.Close()
		if logger != nil {
			logger.Error("Database load failed", "error", err, "data_dir", dataDir)
		}
		return nil, fmt.Errorf("failed to load database: %w", err)
	}

	if logger != nil {
		logger.Info("Database loaded successfully", "db_path", dbPath, "tables", len(businessTables))
	}

	return d, nil
}

// missingCSVFiles returns the names of required CSV files absent from dataDir.
func missingCSVFiles(dataDir string) []string {
	var missing []string
	for _, table := range businessTables {
		path := filepath.Join(dataDir, table.CSVFile)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			missing = append(missing, table.CSVFile)
		}
	}
	return missing
}

// rebuildTables replaces every business table from its CSV source and
// recreates the secondary indexes.
func (d *DB) rebuildTables() error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Ignore error - will fail if transaction was committed
	}()

	for _, table := range businessTables {
		csvPath := filepath.Join(d.dataDir, table.CSVFile)

		start := time.Now()

		columns := fmt.Sprintf("{'%s': 'VARCHAR', 'period': 'VARCHAR', 'value': 'DOUBLE'}", table.KeyCol)
		if table.Operational {
			columns = fmt.Sprintf("{'port': 'VARCHAR', '%s': 'VARCHAR', 'period': 'VARCHAR', 'value': 'DOUBLE'}", table.KeyCol)
		}

		_, err = tx.Exec(fmt.Sprintf(`
			CREATE OR REPLACE TABLE %s AS
			SELECT * FROM read_csv('%s', header=true, columns=%s)
		`, table.Name, csvPath, columns))
		if err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.Name, err)
		}

		_, err = tx.Exec(fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_period ON %s(period)`, table.Name, table.Name))
		if err != nil {
			return fmt.Errorf("failed to create period index on %s: %w", table.Name, err)
		}

		if table.Operational {
			_, err = tx.Exec(fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_port_period ON %s(port, period)`, table.Name, table.Name))
			if err != nil {
				return fmt.Errorf("failed to create port index on %s: %w", table.Name, err)
			}
		}

		if logger != nil {
			logger.Info("Table loaded", "table", table.Name, "duration", time.Since(start))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// ExecuteQuery runs a read-only SQL query and returns rows as column-name
// maps. Statements other than SELECT/WITH/DESCRIBE/SHOW are rejected; this is
// the only query surface the agent tool gets.
func (d *DB) ExecuteQuery(query string) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(query)
	upper := strings.ToUpper(trimmed)

	allowed := false
	for _, prefix := range []string{"SELECT", "WITH", "DESCRIBE", "SHOW"} {
		if strings.HasPrefix(upper, prefix) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("only read-only queries are allowed")
	}

	rows, err := d.conn.Query(trimmed)
	if err != nil {
		if logger != nil {
			logger.Error("Query failed", "error", err, "query", trimmed)
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		if logger != nil {
			logger.Error("Row iteration error", "error", err, "query", trimmed, "rows", len(results))
		}
		return nil, err
	}

	return results, nil
}

// TableNames lists the business tables in schema order.
func TableNames() []string {
	names := make([]string, len(businessTables))
	for i, table := range businessTables {
		names[i] = table.Name
	}
	return names
}

// SchemaDescription renders the fixed schema as text for the agent's system
// prompt, so the model never needs a schema-introspection tool.
func SchemaDescription() string {
	var b strings.Builder
	b.WriteString("Tables:\n")
	for _, table := range businessTables {
		b.WriteString(fmt.Sprintf("- %s: %s.\n", table.Name, table.Description))
		if table.Operational {
			b.WriteString(fmt.Sprintf("  Columns: port VARCHAR, %s VARCHAR, period VARCHAR, value DOUBLE\n", table.KeyCol))
		} else {
			b.WriteString(fmt.Sprintf("  Columns: %s VARCHAR, period VARCHAR, value DOUBLE\n", table.KeyCol))
		}
	}
	b.WriteString(`
The period column is a free-form label such as '2024-25' or 'Q1 2024-25'; match it by exact string equality.

Examples:
  SELECT value FROM profit_loss WHERE line_item = 'Net Profit' AND period = '2024-25';
  SELECT SUM(value) FROM cargo_volumes WHERE port = 'Mundra' AND period = '2024-25';
  SELECT period, value FROM roce WHERE metric = 'ROCE %' ORDER BY period;
`)
	return b.String()
}
