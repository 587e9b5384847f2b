package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SREYASABU/Tubenor/internal/store"
)

// MarkdownExporter writes Markdown-formatted exports to disk.
type MarkdownExporter struct {
	outputDir string
}

// NewMarkdownExporter creates a MarkdownExporter that writes to outputDir.
func NewMarkdownExporter(outputDir string) *MarkdownExporter {
	return &MarkdownExporter{outputDir: outputDir}
}

// ExportTranscript writes one session's conversation transcript and returns
// the file path.
func (g *MarkdownExporter) ExportTranscript(userID, sessionID string, msgs []*store.Message) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# Conversation Transcript — %s\n\n", sessionID)
	fmt.Fprintf(&b, "> User: %s | Messages: %d | Exported: %s\n\n",
		userID, len(msgs),
		time.Now().UTC().Format("2006-01-02 15:04 UTC"),
	)

	if len(msgs) == 0 {
		b.WriteString("_No messages recorded._\n")
	}
	for _, m := range msgs {
		switch m.Role {
		case "user":
			fmt.Fprintf(&b, "## You — %s\n\n", m.CreatedAt.UTC().Format("2006-01-02 15:04"))
		case "assistant":
			fmt.Fprintf(&b, "## Tubenor — %s\n\n", m.CreatedAt.UTC().Format("2006-01-02 15:04"))
		default:
			fmt.Fprintf(&b, "## %s — %s\n\n", m.Role, m.CreatedAt.UTC().Format("2006-01-02 15:04"))
		}
		// Assistant answers are already markdown; user questions are plain text.
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	filePath := filepath.Join(g.outputDir, transcriptFilename(sessionID, "md"))
	if err := os.WriteFile(filePath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}

	return filePath, nil
}

// ExportQueryLog writes the recent query-log entries as a Markdown table and
// returns the file path.
func (g *MarkdownExporter) ExportQueryLog(entries []*store.QueryLogEntry) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "# Query Log — %s\n\n", time.Now().UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "> Entries: %d | Exported: %s\n\n",
		len(entries), time.Now().UTC().Format("2006-01-02 15:04 UTC"))

	b.WriteString("| Time | User | Query Type | Status | Duration | Error |\n")
	b.WriteString("|------|------|-----------|--------|----------|-------|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %dms | %s |\n",
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			e.UserID, e.QueryType, e.Status, e.DurationMS,
			strings.ReplaceAll(e.ErrorMessage, "|", "\\|"),
		)
	}
	b.WriteString("\n")

	filePath := filepath.Join(g.outputDir, datedFilename("query-log", "md"))
	if err := os.WriteFile(filePath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing query log: %w", err)
	}

	return filePath, nil
}

// transcriptFilename generates a filename like "2026-08-30-<session>-transcript.md".
func transcriptFilename(sessionID, ext string) string {
	slug := strings.ToLower(strings.ReplaceAll(sessionID, " ", "-"))
	return fmt.Sprintf("%s-%s-transcript.%s", time.Now().Format("2006-01-02"), slug, ext)
}

// datedFilename generates a filename like "2026-08-30-query-log.md".
func datedFilename(kind, ext string) string {
	return fmt.Sprintf("%s-%s.%s", time.Now().Format("2006-01-02"), kind, ext)
}
