package planner

import (
	"fmt"
	"time"
)

// QueryType selects which reporting operation(s) a request maps onto.
type QueryType string

// Supported query types.
const (
	QueryAnalytics      QueryType = "analytics"
	QuerySearch         QueryType = "search"
	QueryVideoDetails   QueryType = "video_details"
	QueryMyVideos       QueryType = "my_videos"
	QueryChannelDetails QueryType = "channel_details"
	QueryPlaylists      QueryType = "playlists"
	QueryComments       QueryType = "comments"
)

// Supported reports whether t is one of the enumerated query types.
func (t QueryType) Supported() bool {
	switch t {
	case QueryAnalytics, QuerySearch, QueryVideoDetails, QueryMyVideos,
		QueryChannelDetails, QueryPlaylists, QueryComments:
		return true
	}
	return false
}

// Request is a fully described query. Each query type reads only its own
// fields; Validate makes the required-field checks exhaustive per type.
// A Request is never mutated after construction: applying defaults
// produces a new, fully populated copy.
type Request struct {
	QueryType  QueryType `json:"query_type"`
	Metrics    string    `json:"metrics,omitempty"`
	Dimensions string    `json:"dimensions,omitempty"`
	Filters    string    `json:"filters,omitempty"`
	Sort       string    `json:"sort,omitempty"`
	StartDate  string    `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    string    `json:"end_date,omitempty"`   // YYYY-MM-DD
	MaxResults int       `json:"max_results,omitempty"`

	// Per-type fields.
	Query   string `json:"q,omitempty"`        // search
	VideoID string `json:"video_id,omitempty"` // video_details, comments
	Order   string `json:"order,omitempty"`    // my_videos, search, comments
	Type    string `json:"type,omitempty"`     // search resource type

	// IncludeStatistics controls the dependent statistics lookup for
	// my_videos. Nil means the default (true).
	IncludeStatistics *bool `json:"include_statistics,omitempty"`
}

const (
	defaultMetrics    = "views,likes,comments"
	defaultMaxResults = 100
	defaultWindowDays = 30
	dateLayout        = "2006-01-02"
)

// withDefaults returns a copy of the request with every omitted optional
// field populated. Defaulting lives here, not in callers, because the
// upstream natural-language layer cannot reliably supply every field.
func (r Request) withDefaults(now time.Time) Request {
	out := r

	if out.MaxResults <= 0 {
		out.MaxResults = defaultMaxResults
	}

	switch out.QueryType {
	case QueryAnalytics:
		if out.Metrics == "" {
			out.Metrics = defaultMetrics
		}
		if out.EndDate == "" {
			out.EndDate = now.Format(dateLayout)
		}
		if out.StartDate == "" {
			end, err := time.Parse(dateLayout, out.EndDate)
			if err != nil {
				end = now
			}
			out.StartDate = end.AddDate(0, 0, -defaultWindowDays).Format(dateLayout)
		}
	case QuerySearch:
		if out.Type == "" {
			out.Type = "video"
		}
	case QueryMyVideos:
		if out.Order == "" {
			out.Order = "date"
		}
		if out.IncludeStatistics == nil {
			t := true
			out.IncludeStatistics = &t
		}
	case QueryComments:
		if out.Order == "" {
			out.Order = "relevance"
		}
	}

	return out
}

// validate checks required per-type fields and cross-field invariants.
// The returned message is user-facing; an empty string means the request
// is dispatchable.
func (r Request) validate() string {
	if !r.QueryType.Supported() {
		return fmt.Sprintf("Unsupported query_type: %s", r.QueryType)
	}

	switch r.QueryType {
	case QuerySearch:
		if r.Query == "" {
			return "q is required for search queries"
		}
	case QueryVideoDetails:
		if r.VideoID == "" {
			return "video_id is required for video_details queries"
		}
	case QueryComments:
		if r.VideoID == "" {
			return "video_id is required for comments queries"
		}
	case QueryAnalytics:
		var start, end time.Time
		if r.StartDate != "" {
			t, err := time.Parse(dateLayout, r.StartDate)
			if err != nil {
				return fmt.Sprintf("invalid start_date %q, expected YYYY-MM-DD", r.StartDate)
			}
			start = t
		}
		if r.EndDate != "" {
			t, err := time.Parse(dateLayout, r.EndDate)
			if err != nil {
				return fmt.Sprintf("invalid end_date %q, expected YYYY-MM-DD", r.EndDate)
			}
			end = t
		}
		if r.StartDate != "" && r.EndDate != "" && start.After(end) {
			return "start_date must not be after end_date"
		}
	}

	return ""
}

// validateWindow re-checks the date ordering once defaults are resolved.
// A provided start_date can land after a defaulted end_date, which
// validate cannot see while the window is still partial.
func (r Request) validateWindow() string {
	if r.QueryType != QueryAnalytics {
		return ""
	}
	start, err1 := time.Parse(dateLayout, r.StartDate)
	end, err2 := time.Parse(dateLayout, r.EndDate)
	if err1 != nil || err2 != nil {
		return ""
	}
	if start.After(end) {
		return "start_date must not be after end_date"
	}
	return ""
}

// parameters returns the request's populated fields as a generic mapping,
// used in error results so the narrator can explain what was attempted.
func (r Request) parameters() map[string]any {
	p := map[string]any{}
	if r.Metrics != "" {
		p["metrics"] = r.Metrics
	}
	if r.Dimensions != "" {
		p["dimensions"] = r.Dimensions
	}
	if r.Filters != "" {
		p["filters"] = r.Filters
	}
	if r.Sort != "" {
		p["sort"] = r.Sort
	}
	if r.StartDate != "" {
		p["start_date"] = r.StartDate
	}
	if r.EndDate != "" {
		p["end_date"] = r.EndDate
	}
	if r.MaxResults > 0 {
		p["max_results"] = r.MaxResults
	}
	if r.Query != "" {
		p["q"] = r.Query
	}
	if r.VideoID != "" {
		p["video_id"] = r.VideoID
	}
	if r.Order != "" {
		p["order"] = r.Order
	}
	if r.Type != "" {
		p["type"] = r.Type
	}
	if r.IncludeStatistics != nil {
		p["include_statistics"] = *r.IncludeStatistics
	}
	return p
}
