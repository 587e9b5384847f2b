package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var authLogoutUser string

var authLogoutCmd = &cobra.Command{
	Use:   "auth-logout",
	Short: "Remove a stored YouTube credential",
	Long: `Deletes the stored credential for the given user from the local database.
Does not revoke the grant on Google's side; do that from your Google account
security settings if needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if authLogoutUser == "" {
			return fmt.Errorf("--user is required")
		}

		a, err := buildApp(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(2)
		}
		defer a.Close()

		if err := a.oauth.Revoke(authLogoutUser); err != nil {
			return fmt.Errorf("removing credential: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Removed stored credential for user %s\n", authLogoutUser)
		return nil
	},
}

func init() {
	authLogoutCmd.Flags().StringVar(&authLogoutUser, "user", "", "User id whose credential to remove")
	rootCmd.AddCommand(authLogoutCmd)
}
