package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var authStatusUser string

var authStatusCmd = &cobra.Command{
	Use:   "auth-status",
	Short: "Check YouTube authentication status",
	Long: `Checks whether a usable YouTube credential exists for the given user by
refreshing it if needed and calling the channels endpoint.

Displays the channel title and credential expiry on success.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(2)
		}
		defer a.Close()

		ctx := cmd.Context()

		cred, err := a.provider.ValidCredential(ctx, authStatusUser)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not authenticated: %v\n", err)
			fmt.Fprintf(os.Stderr, "\nRun 'tubenor auth-login' or set YT_REFRESH_TOKEN to authenticate.\n")
			os.Exit(1)
		}

		fmt.Fprintln(os.Stdout, "YouTube authentication status: valid")
		fmt.Fprintf(os.Stdout, "  Expires: %s\n", cred.Expiry.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(os.Stdout, "  Scopes:  %v\n", cred.Scopes)

		// Channel lookup is best effort, the credential check above is the
		// authoritative part.
		doc, err := a.youtube.ChannelDetails(ctx, authStatusUser)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  Warning: channel lookup failed: %v\n", err)
			return nil
		}
		if items, ok := doc["items"].([]any); ok && len(items) > 0 {
			if item, ok := items[0].(map[string]any); ok {
				if snippet, ok := item["snippet"].(map[string]any); ok {
					if title, ok := snippet["title"].(string); ok {
						fmt.Fprintf(os.Stdout, "  Channel: %s\n", title)
					}
				}
			}
		}
		return nil
	},
}

func init() {
	authStatusCmd.Flags().StringVar(&authStatusUser, "user", "", "User id whose credential to check (defaults to the env refresh token)")
	rootCmd.AddCommand(authStatusCmd)
}
