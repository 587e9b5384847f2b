package cmd

import (
	"fmt"
	"os"

	"github.com/SREYASABU/Tubenor/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the HTTP server exposing the conversational query endpoint,
the OAuth login flow, and agent/health introspection routes.

The server runs until interrupted and shuts down gracefully, finishing
in-flight requests before exiting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(2)
		}
		defer a.Close()

		srv := server.New(cfg.Addr, a.coordinator, a.provider, a.oauth, a.youtube)

		fmt.Fprintf(os.Stdout, "Listening on %s (db: %s, llm: %s/%s)\n",
			cfg.Addr, cfg.DBPath, cfg.LLM.Provider, cfg.LLM.Model)

		return srv.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
