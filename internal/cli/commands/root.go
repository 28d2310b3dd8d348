package commands

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "studychat",
	Short:   "BCA study chat in your terminal",
	Version: version,
	Long: `An interactive question-and-answer chat for BCA subjects. Chats are
kept per account in the cloud, so signing in from anywhere brings your
history with you.`,
	Example: `  # Start chatting (prompts for sign-in)
  $ studychat chat

  # Run fully offline against in-memory backends
  $ STUDYCHAT_MODE=local studychat chat`,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(chatCmd)
}
