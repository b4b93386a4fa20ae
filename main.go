package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cargoquery/cmd"
	"cargoquery/internal/agent"
	"cargoquery/internal/cache"
	"cargoquery/internal/llm"
)

var logger *slog.Logger

// setupLogger creates and configures the application logger
func setupLogger(dataDir string) error {
	logPath := filepath.Join(dataDir, "err.log")

	// Create log file
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Create JSON handler for structured logging
	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true, // Include file:line information
	})

	logger = slog.New(handler)
	logger.Info("Application started", "version", "1.0", "data_dir", dataDir)

	return nil
}

// agentSystemPrompt builds the agent's system prompt: the fixed schema plus
// answering and SQL-formatting instructions.
func agentSystemPrompt() string {
	return fmt.Sprintf(`You are a business data analyst answering questions about a port
operator's finances and cargo operations using a DuckDB database.

%s
Rules:
- Use the sql_query tool to look up data. Write plain SQL without markdown code fences.
- Answer with a short natural-language sentence based on the query results.
- If the data does not contain the answer, say so; never invent numbers.`, SchemaDescription())
}

// buildQueryService wires the full pipeline: database, classifier, agent and
// caches. The returned cleanup closes the database.
func buildQueryService(dataDir string) (*QueryService, func(), error) {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	db, err := OpenDB(dataDir)
	if err != nil {
		return nil, nil, err
	}

	apiKey := os.Getenv("ANTHROPIC_API_KEY")

	classifier, err := llm.NewClassifier(apiKey, cache.New(0, 0), logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	runner, err := agent.NewRunner(
		agent.WithAPIKey(apiKey),
		agent.WithExecutor(db),
		agent.WithSystemPrompt(agentSystemPrompt()),
		agent.WithLogger(logger),
	)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	service := NewQueryService(classifier, runner, cache.New(0, 0), logger)
	cleanup := func() {
		db.Close()
	}

	return service, cleanup, nil
}

func main() {
	// Set up cmd package callbacks
	cmd.LaunchChat = launchChat
	cmd.LoadData = loadData
	cmd.InitDB = initDB
	cmd.InitService = initService
	cmd.StartServer = startServer

	// Execute the CLI
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadData rebuilds the business database from the CSV files in dataDir
func loadData(dataDir string) error {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	db, err := LoadDB(dataDir)
	if err != nil {
		return err
	}
	return db.Close()
}

// initDB opens the database for CLI commands
func initDB(dataDir string) (cmd.DBInterface, func(), error) {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	db, err := OpenDB(dataDir)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		db.Close()
	}

	return db, cleanup, nil
}

// initService builds the question pipeline for CLI commands
func initService(dataDir string) (cmd.ServiceInterface, func(), error) {
	service, cleanup, err := buildQueryService(dataDir)
	if err != nil {
		return nil, nil, err
	}
	return &serviceAdapter{service: service}, cleanup, nil
}

// startServer builds the pipeline and runs the HTTP server
func startServer(dataDir string, port int) error {
	service, cleanup, err := buildQueryService(dataDir)
	if err != nil {
		return err
	}
	defer cleanup()

	return StartServer(ServerConfig{Port: port, Service: service})
}

// serviceAdapter adapts *QueryService to cmd.ServiceInterface
type serviceAdapter struct {
	service *QueryService
}

func (a *serviceAdapter) Answer(ctx context.Context, question string) (string, string) {
	result := a.service.Answer(ctx, question)
	return result.Text, result.Outcome
}
