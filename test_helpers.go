package main

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestDB builds a throwaway database from the testdata CSV files in a
// temp directory and returns it, closed automatically at test cleanup.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dir := copyTestData(t)

	db, err := LoadDB(dir)
	if err != nil {
		t.Fatalf("Failed to load test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// copyTestData copies the testdata CSV files into a fresh temp directory and
// returns its path.
func copyTestData(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for _, table := range businessTables {
		data, err := os.ReadFile(filepath.Join("testdata", table.CSVFile))
		if err != nil {
			t.Fatalf("Failed to read testdata CSV %s: %v", table.CSVFile, err)
		}
		if err := os.WriteFile(filepath.Join(dir, table.CSVFile), data, 0644); err != nil {
			t.Fatalf("Failed to copy testdata CSV %s: %v", table.CSVFile, err)
		}
	}
	return dir
}
