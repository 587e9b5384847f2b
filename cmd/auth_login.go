package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var authLoginCmd = &cobra.Command{
	Use:   "auth-login",
	Short: "Authenticate with YouTube (interactive browser login)",
	Long: `Launches a visible Chromium browser window on the Google consent screen to
grant read-only access to your YouTube channel and its analytics. After you
approve, the authorization code is exchanged and the resulting credential is
stored locally in the SQLite database.

Requires YT_CLIENT_ID and YT_CLIENT_SECRET (or the matching flags). The
redirect URI must be a loopback address, e.g. http://localhost:8080/auth/callback.

The printed user id identifies the stored credential; pass it to
'tubenor ask --user <id>' or the query API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(2)
		}
		defer a.Close()

		fmt.Fprintln(os.Stdout, "Launching browser for Google consent...")
		fmt.Fprintln(os.Stdout, "Please approve read-only YouTube access in the window that opens.")
		fmt.Fprintln(os.Stdout)

		userID, cred, err := a.oauth.InteractiveLogin(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: login failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Fprintln(os.Stdout, "YouTube login successful!")
		fmt.Fprintf(os.Stdout, "  User ID: %s\n", userID)
		fmt.Fprintf(os.Stdout, "  Expires: %s\n", cred.Expiry.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(os.Stdout, "  Scopes:  %v\n", cred.Scopes)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authLoginCmd)
}
