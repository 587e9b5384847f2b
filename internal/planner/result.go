package planner

import "github.com/SREYASABU/Tubenor/internal/youtube"

// ItemDetail carries the display fields for one video id so the narrator
// never has to show a bare opaque identifier.
type ItemDetail struct {
	Title    string `json:"title"`
	EmbedURL string `json:"embedUrl"`
	WatchURL string `json:"watchUrl"`
}

// Result is the outcome of a planned query. Exactly one of Data or Error
// is populated: query-level failures are returned as data, never raised,
// so the narrator always receives a JSON-shaped input.
type Result struct {
	// Data is the upstream response document, unmodified. Summarizing is
	// the narrator's job.
	Data youtube.Document `json:"data,omitempty"`

	// ItemDetails maps video ids appearing in Data to display fields.
	ItemDetails map[string]ItemDetail `json:"itemDetails,omitempty"`

	Error      string         `json:"error,omitempty"`
	QueryType  string         `json:"query_type,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// IsError reports whether the result is an error payload.
func (r *Result) IsError() bool {
	return r.Error != ""
}

// errorResult builds an error payload for a request.
func errorResult(req Request, msg string) *Result {
	return &Result{
		Error:      msg,
		QueryType:  string(req.QueryType),
		Parameters: req.parameters(),
	}
}
