package main

import (
	"math"
	"strings"
	"testing"
)

func TestLoadAndQuery(t *testing.T) {
	db := SetupTestDB(t)

	rows, err := db.ExecuteQuery("SELECT value FROM profit_loss WHERE line_item = 'Net Profit' AND period = '2024-25'")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	value, ok := rows[0]["value"].(float64)
	if !ok {
		t.Fatalf("Expected float64 value, got %T", rows[0]["value"])
	}
	if value != 9900 {
		t.Errorf("Expected 9900, got %v", value)
	}
}

func TestAggregateQuery(t *testing.T) {
	db := SetupTestDB(t)

	rows, err := db.ExecuteQuery("SELECT SUM(value) AS total FROM cargo_volumes WHERE port = 'Mundra' AND period = '2024-25'")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}

	total, ok := rows[0]["total"].(float64)
	if !ok {
		t.Fatalf("Expected float64 total, got %T", rows[0]["total"])
	}
	if math.Abs(total-157.4) > 0.001 {
		t.Errorf("Expected 157.4, got %v", total)
	}
}

func TestReadOnlyGuard(t *testing.T) {
	db := SetupTestDB(t)

	forbidden := []string{
		"DROP TABLE profit_loss",
		"DELETE FROM roce",
		"INSERT INTO roce VALUES ('x', 'y', 1)",
		"UPDATE containers SET value = 0",
	}
	for _, query := range forbidden {
		if _, err := db.ExecuteQuery(query); err == nil {
			t.Errorf("Expected %q to be rejected", query)
		}
	}

	// Case and leading whitespace do not matter
	if _, err := db.ExecuteQuery("  select 1 as one"); err != nil {
		t.Errorf("Expected lowercase select to be allowed, got %v", err)
	}
}

func TestReloadReplacesTables(t *testing.T) {
	dir := copyTestData(t)

	db, err := LoadDB(dir)
	if err != nil {
		t.Fatalf("First load failed: %v", err)
	}
	db.Close()

	// A second load must replace, not append
	db, err = LoadDB(dir)
	if err != nil {
		t.Fatalf("Second load failed: %v", err)
	}
	defer db.Close()

	rows, err := db.ExecuteQuery("SELECT COUNT(*) AS n FROM profit_loss")
	if err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	n, ok := rows[0]["n"].(int64)
	if !ok {
		t.Fatalf("Expected int64 count, got %T", rows[0]["n"])
	}
	if n != 6 {
		t.Errorf("Expected 6 rows after reload, got %d", n)
	}
}

func TestOpenDBMissingDatabase(t *testing.T) {
	if _, err := OpenDB(t.TempDir()); err == nil {
		t.Fatal("Expected error for missing database file")
	} else if !strings.Contains(err.Error(), "cargoquery load") {
		t.Errorf("Expected error to point at the load command, got %v", err)
	}
}

func TestLoadDBMissingCSV(t *testing.T) {
	_, err := LoadDB(t.TempDir())
	if err == nil {
		t.Fatal("Expected error for missing CSV files")
	}
	if !strings.Contains(err.Error(), "missing CSV files") {
		t.Errorf("Expected missing-files error, got %v", err)
	}
}

func TestSchemaDescription(t *testing.T) {
	desc := SchemaDescription()
	for _, name := range TableNames() {
		if !strings.Contains(desc, name) {
			t.Errorf("Expected schema description to mention %s", name)
		}
	}
	if !strings.Contains(desc, "line_item") || !strings.Contains(desc, "trade_type") {
		t.Error("Expected schema description to list key columns")
	}
}
