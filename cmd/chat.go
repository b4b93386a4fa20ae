package cmd

import (
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat TUI",
	Long:  `Launch the interactive chat TUI. Equivalent to running without a subcommand.`,
	Run: func(cmd *cobra.Command, args []string) {
		LaunchChat(dataDir)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
