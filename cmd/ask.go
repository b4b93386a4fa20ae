package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AskOutput is the JSON shape printed by the ask command.
type AskOutput struct {
	Question string `json:"question"`
	Response string `json:"response"`
	Outcome  string `json:"outcome"`
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single business question",
	Long: `Ask a single natural-language question and print the answer as JSON.
Runs the same pipeline as the HTTP service: cache, greeting and relevance
checks, then the SQL agent.

Examples:
  cargoquery ask "What was the net profit in 2024-25?"
  cargoquery ask "How much cargo did Mundra handle in Q1 2024-25?"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")

		service, cleanup, err := InitService(dataDir)
		if err != nil {
			HandleError(err, "Failed to initialize service")
		}
		defer cleanup()

		response, outcome := service.Answer(cmd.Context(), question)

		output, err := json.MarshalIndent(AskOutput{
			Question: question,
			Response: response,
			Outcome:  outcome,
		}, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
