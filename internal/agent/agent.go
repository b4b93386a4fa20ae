// Package agent wraps the Fantasy agent loop that turns a business question
// into SQL against the cargo database and a natural-language answer.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"

	"cargoquery/internal/llm"
)

const (
	defaultModel        = "claude-haiku-4-5"
	defaultMaxToolCalls = 5
)

// QueryExecutor runs read-only SQL and returns rows as column-name maps.
type QueryExecutor interface {
	ExecuteQuery(query string) ([]map[string]any, error)
}

// Config holds the configuration for creating a question runner.
type Config struct {
	apiKey       string
	model        string
	systemPrompt string
	maxToolCalls int
	executor     QueryExecutor
	logger       *slog.Logger
}

// Option is a functional option for configuring the runner.
type Option func(*Config) error

// WithAPIKey sets the Anthropic API key.
func WithAPIKey(apiKey string) Option {
	return func(c *Config) error {
		if apiKey == "" {
			return fmt.Errorf("API key cannot be empty")
		}
		c.apiKey = apiKey
		return nil
	}
}

// WithAPIKeyFromEnv sets the API key from the ANTHROPIC_API_KEY environment variable.
func WithAPIKeyFromEnv() Option {
	return func(c *Config) error {
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		c.apiKey = apiKey
		return nil
	}
}

// WithModel sets the Claude model to use (default: claude-haiku-4-5).
func WithModel(model string) Option {
	return func(c *Config) error {
		if model == "" {
			return fmt.Errorf("model cannot be empty")
		}
		c.model = model
		return nil
	}
}

// WithSystemPrompt sets the system prompt, normally the schema description
// plus SQL formatting instructions.
func WithSystemPrompt(prompt string) Option {
	return func(c *Config) error {
		c.systemPrompt = prompt
		return nil
	}
}

// WithMaxToolCalls caps how many times the agent may invoke the SQL tool for
// a single question.
func WithMaxToolCalls(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return fmt.Errorf("max tool calls must be positive")
		}
		c.maxToolCalls = n
		return nil
	}
}

// WithExecutor sets the SQL executor backing the agent's query tool.
func WithExecutor(executor QueryExecutor) Option {
	return func(c *Config) error {
		if executor == nil {
			return fmt.Errorf("executor cannot be nil")
		}
		c.executor = executor
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		c.logger = logger
		return nil
	}
}

// Result is the outcome of one agent run: the final answer text and the tool
// invocations made along the way, kept for diagnostics only.
type Result struct {
	Text  string
	Steps []ToolCall
}

// Runner executes questions through a Fantasy agent bound to a single
// read-only SQL tool. A fresh agent (and tool-call recorder) is built per
// question so concurrent requests do not share state.
type Runner struct {
	newAgent     func(tools ...fantasy.Tool) *fantasy.Agent
	executor     QueryExecutor
	maxToolCalls int
	logger       *slog.Logger
}

// NewRunner creates a question runner. The schema/query-checker tools that a
// generic SQL toolkit would add are deliberately absent: the schema ships in
// the system prompt, keeping the per-question API call count low.
func NewRunner(opts ...Option) (*Runner, error) {
	config := &Config{
		model:        defaultModel,
		maxToolCalls: defaultMaxToolCalls,
	}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if config.apiKey == "" {
		return nil, fmt.Errorf("API key is required (use WithAPIKey or WithAPIKeyFromEnv)")
	}
	if config.executor == nil {
		return nil, fmt.Errorf("executor is required (use WithExecutor)")
	}

	provider, err := anthropic.New(anthropic.WithAPIKey(config.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	model, err := provider.LanguageModel(context.Background(), config.model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Claude model: %w", err)
	}

	systemPrompt := config.systemPrompt

	return &Runner{
		newAgent: func(tools ...fantasy.Tool) *fantasy.Agent {
			return fantasy.NewAgent(
				model,
				fantasy.WithSystemPrompt(systemPrompt),
				fantasy.WithTools(tools...),
			)
		},
		executor:     config.executor,
		maxToolCalls: config.maxToolCalls,
		logger:       config.logger,
	}, nil
}

// Ask runs one question through the agent loop and returns the final answer
// plus the recorded tool calls. Quota and rate-limit failures come back as
// *llm.QuotaError.
func (r *Runner) Ask(ctx context.Context, question string) (*Result, error) {
	rec := newRecorder(r.maxToolCalls)
	ag := r.newAgent(NewSQLTool(r.executor, rec, r.logger))

	result, err := ag.Generate(ctx, fantasy.AgentCall{Prompt: question})
	if err != nil {
		return nil, llm.WrapQuota(fmt.Errorf("agent execution failed: %w", err))
	}

	return &Result{
		Text:  result.Response.Content.Text(),
		Steps: rec.Calls(),
	}, nil
}
