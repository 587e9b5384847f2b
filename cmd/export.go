package cmd

import (
	"fmt"
	"os"

	"github.com/SREYASABU/Tubenor/internal/report"
	"github.com/SREYASABU/Tubenor/internal/store"
	"github.com/spf13/cobra"
)

var (
	exportUser      string
	exportSession   string
	exportFormat    string
	exportOutputDir string
	exportLogLimit  int
)

// exporter is implemented by both output formats.
type exporter interface {
	ExportTranscript(userID, sessionID string, msgs []*store.Message) (string, error)
	ExportQueryLog(entries []*store.QueryLogEntry) (string, error)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a session transcript or the query log to disk",
	Long: `Writes data from the local database to files for archiving or sharing.

With --session, exports that conversation's transcript. Without it, exports
the recent query log instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(2)
		}
		defer a.Close()

		var gen exporter
		switch exportFormat {
		case "markdown":
			gen = report.NewMarkdownExporter(exportOutputDir)
		case "json":
			gen = report.NewJSONExporter(exportOutputDir)
		default:
			return fmt.Errorf("unknown format %q (want markdown or json)", exportFormat)
		}

		if exportSession != "" {
			msgs, err := a.coordinator.Transcript(exportUser, exportSession, 0)
			if err != nil {
				return fmt.Errorf("loading transcript: %w", err)
			}
			path, err := gen.ExportTranscript(exportUser, exportSession, msgs)
			if err != nil {
				return fmt.Errorf("exporting transcript: %w", err)
			}
			fmt.Fprintf(os.Stdout, "Transcript written to: %s\n", path)
			return nil
		}

		entries, err := a.store.RecentQueries(exportLogLimit)
		if err != nil {
			return fmt.Errorf("loading query log: %w", err)
		}
		path, err := gen.ExportQueryLog(entries)
		if err != nil {
			return fmt.Errorf("exporting query log: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Query log written to: %s\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportUser, "user", "default", "User id owning the session")
	exportCmd.Flags().StringVar(&exportSession, "session", "", "Session id to export (omit for the query log)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "Output format: markdown, json")
	exportCmd.Flags().StringVar(&exportOutputDir, "output-dir", "./exports", "Output directory")
	exportCmd.Flags().IntVar(&exportLogLimit, "limit", 50, "Maximum query log entries to export")
	rootCmd.AddCommand(exportCmd)
}
