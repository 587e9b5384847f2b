package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SREYASABU/Tubenor/internal/store"
)

// JSONExporter writes JSON-formatted exports to disk.
type JSONExporter struct {
	outputDir string
}

// NewJSONExporter creates a JSONExporter that writes to outputDir.
func NewJSONExporter(outputDir string) *JSONExporter {
	return &JSONExporter{outputDir: outputDir}
}

// jsonMessage is the JSON-serializable form of one transcript entry.
type jsonMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// jsonTranscript is the JSON-serializable form of a session transcript.
type jsonTranscript struct {
	UserID     string         `json:"user_id"`
	SessionID  string         `json:"session_id"`
	Messages   []*jsonMessage `json:"messages"`
	ExportedAt string         `json:"exported_at"`
}

// jsonQueryLogEntry is the JSON-serializable form of one query-log row.
type jsonQueryLogEntry struct {
	UserID       string `json:"user_id"`
	QueryType    string `json:"query_type"`
	Parameters   any    `json:"parameters,omitempty"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	DurationMS   int64  `json:"duration_ms"`
	CreatedAt    string `json:"created_at"`
}

// jsonQueryLog is the JSON-serializable form of the query-log export.
type jsonQueryLog struct {
	Entries    []*jsonQueryLogEntry `json:"entries"`
	ExportedAt string               `json:"exported_at"`
}

// ExportTranscript writes one session's conversation transcript and returns
// the file path.
func (g *JSONExporter) ExportTranscript(userID, sessionID string, msgs []*store.Message) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	jt := &jsonTranscript{
		UserID:     userID,
		SessionID:  sessionID,
		Messages:   []*jsonMessage{},
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, m := range msgs {
		jt.Messages = append(jt.Messages, &jsonMessage{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(jt, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling transcript to JSON: %w", err)
	}

	filePath := filepath.Join(g.outputDir, transcriptFilename(sessionID, "json"))
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing transcript JSON: %w", err)
	}

	return filePath, nil
}

// ExportQueryLog writes the recent query-log entries and returns the file path.
func (g *JSONExporter) ExportQueryLog(entries []*store.QueryLogEntry) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	jl := &jsonQueryLog{
		Entries:    []*jsonQueryLogEntry{},
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, e := range entries {
		je := &jsonQueryLogEntry{
			UserID:       e.UserID,
			QueryType:    e.QueryType,
			Status:       e.Status,
			ErrorMessage: e.ErrorMessage,
			DurationMS:   e.DurationMS,
			CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
		}
		// Parameters are stored as JSON text; re-embed them structurally when
		// they parse, otherwise keep the raw string.
		var params any
		if err := json.Unmarshal([]byte(e.Parameters), &params); err == nil {
			je.Parameters = params
		} else if e.Parameters != "" {
			je.Parameters = e.Parameters
		}
		jl.Entries = append(jl.Entries, je)
	}

	data, err := json.MarshalIndent(jl, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling query log to JSON: %w", err)
	}

	filePath := filepath.Join(g.outputDir, datedFilename("query-log", "json"))
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing query log JSON: %w", err)
	}

	return filePath, nil
}
