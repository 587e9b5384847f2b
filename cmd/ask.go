package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askUser    string
	askSession string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question about your channel",
	Long: `Answers a single natural-language question about the authenticated
YouTube channel and prints the markdown answer to stdout.

Repeated calls with the same --session id share conversation history, so
follow-up questions like "what about last month?" resolve against the
earlier exchange.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(2)
		}
		defer a.Close()

		query := strings.Join(args, " ")

		answer, sessionID, err := a.coordinator.Ask(cmd.Context(), askUser, askSession, query)
		if err != nil {
			return fmt.Errorf("answering query: %w", err)
		}

		fmt.Fprintln(os.Stdout, answer)
		if askSession == "" {
			fmt.Fprintf(os.Stderr, "\n(session: %s — pass --session %s to continue this conversation)\n", sessionID, sessionID)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askUser, "user", "", "User id to run the query as (defaults to the single-user default)")
	askCmd.Flags().StringVar(&askSession, "session", "", "Session id for conversation continuity (minted when empty)")
	rootCmd.AddCommand(askCmd)
}
