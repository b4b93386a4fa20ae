package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"charm.land/fantasy"
)

// SQLToolName is the name the model sees for the query execution tool.
const SQLToolName = "sql_query"

// maxToolResultBytes truncates oversized result sets before they are fed back
// to the model.
const maxToolResultBytes = 16000

// ToolCall records one tool invocation made during an agent run.
type ToolCall struct {
	Tool   string `json:"tool"`
	Input  string `json:"input"`
	Rows   int    `json:"rows"`
	Capped bool   `json:"capped,omitempty"`
	Err    string `json:"err,omitempty"`
}

// recorder collects tool calls for one agent run and enforces the per-request
// invocation cap.
type recorder struct {
	mu    sync.Mutex
	calls []ToolCall
	max   int
}

func newRecorder(max int) *recorder {
	return &recorder{max: max}
}

// add appends a call, returning its index and whether the cap was already
// reached before this invocation.
func (r *recorder) add(call ToolCall) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	capped := len(r.calls) >= r.max
	call.Capped = capped
	r.calls = append(r.calls, call)
	return len(r.calls) - 1, capped
}

// setRows records the result size on the call at index. Indexing keeps the
// attribution correct when the model issues tool calls concurrently.
func (r *recorder) setRows(index, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index >= 0 && index < len(r.calls) {
		r.calls[index].Rows = rows
	}
}

// Calls returns a copy of the recorded tool calls.
func (r *recorder) Calls() []ToolCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ToolCall, len(r.calls))
	copy(out, r.calls)
	return out
}

// NewSQLTool creates the single tool exposed to the agent: read-only SQL
// execution against the business database. When the invocation cap is hit the
// tool answers with an instruction to finalize instead of failing the run.
func NewSQLTool(executor QueryExecutor, rec *recorder, logger *slog.Logger) fantasy.Tool {
	toolFunc := func(ctx context.Context, params map[string]interface{}) (string, error) {
		query, ok := params["query"].(string)
		if !ok || strings.TrimSpace(query) == "" {
			rec.add(ToolCall{Tool: SQLToolName, Err: "missing query parameter"})
			return "", fmt.Errorf("query parameter is required")
		}

		query = StripCodeFences(query)

		index, capped := rec.add(ToolCall{Tool: SQLToolName, Input: query})
		if capped {
			if logger != nil {
				logger.Warn("SQL tool call cap reached", "max_calls", rec.max)
			}
			return "Tool call limit reached. Provide your final answer now based on the observations you already have.", nil
		}

		rows, err := executor.ExecuteQuery(query)
		if err != nil {
			if logger != nil {
				logger.Warn("SQL tool query failed", "error", err, "query", query)
			}
			// Give the model the error text so it can correct the query.
			return fmt.Sprintf("Query failed: %v", err), nil
		}

		rec.setRows(index, len(rows))

		jsonBytes, err := json.Marshal(rows)
		if err != nil {
			return "", fmt.Errorf("failed to encode result as JSON: %v", err)
		}

		result := string(jsonBytes)
		if len(result) > maxToolResultBytes {
			result = result[:maxToolResultBytes] + "\n... (result truncated)"
		}

		if logger != nil {
			logger.Info("SQL tool executed", "query", query, "rows", len(rows))
		}

		return result, nil
	}

	paramSchema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "A single read-only SQL query (SELECT or WITH) as plain text, without markdown code fences",
			},
		},
		"required": []string{"query"},
	}

	return fantasy.NewAgentTool(
		SQLToolName,
		"Execute a read-only SQL query against the business database and return the matching rows as JSON",
		toolFunc,
		fantasy.WithParameters(paramSchema),
	)
}

// StripCodeFences removes markdown code-fence markup that models sometimes
// wrap around SQL despite instructions.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// ExtractSQL scans recorded tool calls for the last SQL statement passed to
// the query tool. Used for logging only; the SQL is never returned to callers.
func ExtractSQL(steps []ToolCall) (string, bool) {
	sql := ""
	for _, step := range steps {
		if step.Tool != SQLToolName || step.Input == "" {
			continue
		}
		cleaned := StripCodeFences(step.Input)
		if strings.Contains(strings.ToUpper(cleaned), "SELECT") {
			sql = cleaned
		}
	}
	return sql, sql != ""
}
