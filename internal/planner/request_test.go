package planner

import (
	"testing"
	"time"
)

func TestQueryTypeSupported(t *testing.T) {
	supported := []QueryType{
		QueryAnalytics, QuerySearch, QueryVideoDetails, QueryMyVideos,
		QueryChannelDetails, QueryPlaylists, QueryComments,
	}
	for _, qt := range supported {
		if !qt.Supported() {
			t.Errorf("%s should be supported", qt)
		}
	}
	for _, qt := range []QueryType{"", "subscribers", "ANALYTICS", "video"} {
		if qt.Supported() {
			t.Errorf("%q should not be supported", qt)
		}
	}
}

func TestWithDefaults_Analytics(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	got := Request{QueryType: QueryAnalytics}.withDefaults(now)

	if got.Metrics != "views,likes,comments" {
		t.Errorf("Metrics = %q, want default metric set", got.Metrics)
	}
	if got.EndDate != "2026-03-15" {
		t.Errorf("EndDate = %q, want 2026-03-15", got.EndDate)
	}
	if got.StartDate != "2026-02-13" {
		t.Errorf("StartDate = %q, want 2026-02-13 (30 days before end)", got.StartDate)
	}
	if got.MaxResults != 100 {
		t.Errorf("MaxResults = %d, want 100", got.MaxResults)
	}
}

func TestWithDefaults_AnalyticsPartialDates(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// Provided end date anchors the inferred start date.
	got := Request{QueryType: QueryAnalytics, EndDate: "2026-01-31"}.withDefaults(now)
	if got.StartDate != "2026-01-01" {
		t.Errorf("StartDate = %q, want 2026-01-01", got.StartDate)
	}
	if got.EndDate != "2026-01-31" {
		t.Errorf("EndDate = %q, provided value must survive defaulting", got.EndDate)
	}

	// Provided start date is never overwritten.
	got = Request{QueryType: QueryAnalytics, StartDate: "2026-01-01"}.withDefaults(now)
	if got.StartDate != "2026-01-01" {
		t.Errorf("StartDate = %q, provided value must survive defaulting", got.StartDate)
	}
	if got.EndDate != "2026-03-15" {
		t.Errorf("EndDate = %q, want today", got.EndDate)
	}
}

func TestWithDefaults_ProvidedValuesKept(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	in := Request{
		QueryType:  QueryAnalytics,
		Metrics:    "estimatedMinutesWatched",
		StartDate:  "2026-02-01",
		EndDate:    "2026-02-28",
		MaxResults: 25,
		Sort:       "-views",
	}
	got := in.withDefaults(now)

	if got != in {
		t.Errorf("fully specified request changed by defaulting: %+v -> %+v", in, got)
	}
}

func TestWithDefaults_PerType(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("search type", func(t *testing.T) {
		got := Request{QueryType: QuerySearch, Query: "golang"}.withDefaults(now)
		if got.Type != "video" {
			t.Errorf("Type = %q, want video", got.Type)
		}
	})

	t.Run("my_videos order and statistics", func(t *testing.T) {
		got := Request{QueryType: QueryMyVideos}.withDefaults(now)
		if got.Order != "date" {
			t.Errorf("Order = %q, want date", got.Order)
		}
		if got.IncludeStatistics == nil || !*got.IncludeStatistics {
			t.Error("IncludeStatistics should default to true")
		}
	})

	t.Run("my_videos statistics opt-out kept", func(t *testing.T) {
		f := false
		got := Request{QueryType: QueryMyVideos, IncludeStatistics: &f}.withDefaults(now)
		if got.IncludeStatistics == nil || *got.IncludeStatistics {
			t.Error("explicit IncludeStatistics=false must survive defaulting")
		}
	})

	t.Run("comments order", func(t *testing.T) {
		got := Request{QueryType: QueryComments, VideoID: "abc"}.withDefaults(now)
		if got.Order != "relevance" {
			t.Errorf("Order = %q, want relevance", got.Order)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"unsupported type", Request{QueryType: "subscribers"}, "Unsupported query_type: subscribers"},
		{"empty type", Request{}, "Unsupported query_type: "},
		{"search without q", Request{QueryType: QuerySearch}, "q is required for search queries"},
		{"search with q", Request{QueryType: QuerySearch, Query: "golang"}, ""},
		{"video_details without id", Request{QueryType: QueryVideoDetails}, "video_id is required for video_details queries"},
		{"comments without id", Request{QueryType: QueryComments}, "video_id is required for comments queries"},
		{"analytics no dates", Request{QueryType: QueryAnalytics}, ""},
		{"analytics inverted range", Request{QueryType: QueryAnalytics, StartDate: "2026-02-01", EndDate: "2026-01-01"}, "start_date must not be after end_date"},
		{"analytics bad start date", Request{QueryType: QueryAnalytics, StartDate: "02/01/2026", EndDate: "2026-02-28"}, `invalid start_date "02/01/2026", expected YYYY-MM-DD`},
		{"analytics bad end date", Request{QueryType: QueryAnalytics, StartDate: "2026-02-01", EndDate: "Feb 28"}, `invalid end_date "Feb 28", expected YYYY-MM-DD`},
		{"analytics bad start date alone", Request{QueryType: QueryAnalytics, StartDate: "02/01/2026"}, `invalid start_date "02/01/2026", expected YYYY-MM-DD`},
		{"analytics bad end date alone", Request{QueryType: QueryAnalytics, EndDate: "Feb 28"}, `invalid end_date "Feb 28", expected YYYY-MM-DD`},
		{"analytics start only", Request{QueryType: QueryAnalytics, StartDate: "2026-02-01"}, ""},
		{"channel_details", Request{QueryType: QueryChannelDetails}, ""},
		{"playlists", Request{QueryType: QueryPlaylists}, ""},
		{"my_videos", Request{QueryType: QueryMyVideos}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.validate(); got != tt.want {
				t.Errorf("validate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParameters(t *testing.T) {
	f := false
	req := Request{
		QueryType:         QueryMyVideos,
		Order:             "viewCount",
		MaxResults:        10,
		IncludeStatistics: &f,
	}

	p := req.parameters()
	if p["order"] != "viewCount" {
		t.Errorf("order = %v", p["order"])
	}
	if p["max_results"] != 10 {
		t.Errorf("max_results = %v", p["max_results"])
	}
	if p["include_statistics"] != false {
		t.Errorf("include_statistics = %v", p["include_statistics"])
	}
	if _, ok := p["q"]; ok {
		t.Error("empty fields must be omitted")
	}
}
