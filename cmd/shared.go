package cmd

import (
	"context"
	"fmt"
	"os"
)

// ServiceInterface wraps the question pipeline for CLI commands. Answer
// returns the response text and the pipeline outcome label.
type ServiceInterface interface {
	Answer(ctx context.Context, question string) (string, string)
}

// DBInterface wraps database operations for CLI commands
type DBInterface interface {
	ExecuteQuery(query string) ([]map[string]any, error)
	Close() error
}

// These variables will be set by main package
var (
	LaunchChat  func(dataDir string)
	LoadData    func(dataDir string) error
	InitDB      func(dataDir string) (DBInterface, func(), error)
	InitService func(dataDir string) (ServiceInterface, func(), error)
	StartServer func(dataDir string, port int) error
)

// HandleError prints error and exits
func HandleError(err error, message string) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, err)
	os.Exit(1)
}
