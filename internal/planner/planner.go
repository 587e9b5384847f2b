package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SREYASABU/Tubenor/internal/auth"
	"github.com/SREYASABU/Tubenor/internal/store"
	"github.com/SREYASABU/Tubenor/internal/youtube"
)

// ReportingClient is the set of reporting operations the planner
// dispatches to. *youtube.Client satisfies it.
type ReportingClient interface {
	SearchVideos(ctx context.Context, userID string, p youtube.SearchParams) (youtube.Document, error)
	MyVideos(ctx context.Context, userID string, p youtube.MyVideosParams) (youtube.Document, error)
	VideoDetails(ctx context.Context, userID string, videoIDs []string) (youtube.Document, error)
	ChannelDetails(ctx context.Context, userID string) (youtube.Document, error)
	Playlists(ctx context.Context, userID string, maxResults int) (youtube.Document, error)
	Comments(ctx context.Context, userID string, p youtube.CommentsParams) (youtube.Document, error)
	AnalyticsQuery(ctx context.Context, userID string, p youtube.AnalyticsParams) (youtube.Document, error)
}

// analyticsScopeMine is the default scope selector for analytics queries.
const analyticsScopeMine = "channel==MINE"

// Planner turns a Request into one or more reporting calls, applying
// defaults for omitted fields and chaining dependent lookups. It is total:
// a request never fails merely because optional fields were omitted, and
// query-level failures come back as error payloads, not Go errors.
type Planner struct {
	client ReportingClient
	store  *store.Store // optional query log; nil disables logging
	now    func() time.Time
}

// New creates a Planner. The store may be nil to disable query logging.
func New(client ReportingClient, s *store.Store) *Planner {
	return &Planner{
		client: client,
		store:  s,
		now:    time.Now,
	}
}

// SetNow overrides the clock. Used in tests for date-window defaulting.
func (p *Planner) SetNow(now func() time.Time) {
	p.now = now
}

// Execute plans and runs the request for the given user. Query-level
// failures come back inside the Result, which is always JSON-serializable;
// the returned error is non-nil only for credential-layer failures, the
// one category that must propagate past the planner boundary.
func (p *Planner) Execute(ctx context.Context, userID string, req Request) (*Result, error) {
	start := time.Now()
	res, err := p.execute(ctx, userID, req)
	p.logQuery(userID, req, res, err, time.Since(start))
	return res, err
}

func (p *Planner) execute(ctx context.Context, userID string, req Request) (*Result, error) {
	// Validation happens before any network call: a request with a
	// missing required field must not reach the reporting client.
	if msg := req.validate(); msg != "" {
		return errorResult(req, msg), nil
	}

	req = req.withDefaults(p.now())

	// Defaulting can complete a partial window, so the ordering check
	// runs again on the resolved dates.
	if msg := req.validateWindow(); msg != "" {
		return errorResult(req, msg), nil
	}

	var (
		doc youtube.Document
		err error
	)

	switch req.QueryType {
	case QueryAnalytics:
		doc, err = p.client.AnalyticsQuery(ctx, userID, youtube.AnalyticsParams{
			IDs:        analyticsScopeMine,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			Metrics:    req.Metrics,
			Dimensions: req.Dimensions,
			Filters:    req.Filters,
			Sort:       req.Sort, // pass-through: the reporting service owns sort semantics
			MaxResults: req.MaxResults,
		})

	case QuerySearch:
		doc, err = p.client.SearchVideos(ctx, userID, youtube.SearchParams{
			Query:      req.Query,
			Type:       req.Type,
			Order:      req.Order,
			MaxResults: req.MaxResults,
		})

	case QueryVideoDetails:
		doc, err = p.client.VideoDetails(ctx, userID, []string{req.VideoID})

	case QueryMyVideos:
		doc, err = p.executeMyVideos(ctx, userID, req)

	case QueryChannelDetails:
		// The only path that yields aggregate channel counts. my_videos
		// paginates and must never be substituted here.
		doc, err = p.client.ChannelDetails(ctx, userID)

	case QueryPlaylists:
		doc, err = p.client.Playlists(ctx, userID, req.MaxResults)

	case QueryComments:
		doc, err = p.client.Comments(ctx, userID, youtube.CommentsParams{
			VideoID:    req.VideoID,
			Order:      req.Order,
			MaxResults: req.MaxResults,
		})
	}

	if err != nil {
		// No query can proceed without a valid credential; those failures
		// are hard errors for the transport layer, not narratable payloads.
		var refreshErr *auth.RefreshError
		if errors.Is(err, auth.ErrUnconfigured) || errors.As(err, &refreshErr) {
			return nil, err
		}
		return errorResult(req, err.Error()), nil
	}

	return &Result{
		Data:        doc,
		ItemDetails: buildItemDetails(doc),
	}, nil
}

// executeMyVideos lists the user's uploads and, when statistics are
// requested and the listing is non-empty, chains a dependent lookup for
// the listed identifiers. The dependent call's id list is the first
// call's result set, order-preserved.
func (p *Planner) executeMyVideos(ctx context.Context, userID string, req Request) (youtube.Document, error) {
	includeStats := req.IncludeStatistics == nil || *req.IncludeStatistics

	c := &chain{
		first: func(ctx context.Context) (youtube.Document, error) {
			return p.client.MyVideos(ctx, userID, youtube.MyVideosParams{
				Order:      req.Order,
				MaxResults: req.MaxResults,
			})
		},
		extract: searchResultVideoIDs,
	}
	if includeStats {
		c.dependent = func(ctx context.Context, ids []string) (youtube.Document, error) {
			return p.client.VideoDetails(ctx, userID, ids)
		}
	}
	return c.run(ctx)
}

// buildItemDetails collects video ids and titles from a response document
// into the side map the narrator consumes. Returns nil when the document
// carries no video ids.
func buildItemDetails(doc youtube.Document) map[string]ItemDetail {
	items, _ := doc["items"].([]any)
	if len(items) == 0 {
		return nil
	}

	details := map[string]ItemDetail{}
	for _, it := range items {
		item, ok := it.(map[string]any)
		if !ok {
			continue
		}

		var videoID string
		switch id := item["id"].(type) {
		case string:
			// videos.list: id is the video id only when the item kind says so.
			if kind, _ := item["kind"].(string); kind == "youtube#video" {
				videoID = id
			}
		case map[string]any:
			// search.list: id is an object holding videoId.
			videoID, _ = id["videoId"].(string)
		}
		if videoID == "" {
			continue
		}

		title := ""
		if snippet, ok := item["snippet"].(map[string]any); ok {
			title, _ = snippet["title"].(string)
		}

		details[videoID] = ItemDetail{
			Title:    title,
			EmbedURL: "https://www.youtube.com/embed/" + videoID,
			WatchURL: "https://www.youtube.com/watch?v=" + videoID,
		}
	}

	if len(details) == 0 {
		return nil
	}
	return details
}

// logQuery records the dispatch in the query log. Logging failures are
// reported but never affect the result.
func (p *Planner) logQuery(userID string, req Request, res *Result, execErr error, elapsed time.Duration) {
	if p.store == nil {
		return
	}

	params, err := json.Marshal(req.parameters())
	if err != nil {
		params = []byte("{}")
	}

	status := "success"
	errMsg := ""
	switch {
	case execErr != nil:
		status = "error"
		errMsg = execErr.Error()
	case res.IsError():
		status = "error"
		errMsg = res.Error
	}

	entry := &store.QueryLogEntry{
		UserID:       userID,
		QueryType:    string(req.QueryType),
		Parameters:   string(params),
		Status:       status,
		ErrorMessage: errMsg,
		DurationMS:   elapsed.Milliseconds(),
	}
	if err := p.store.LogQuery(entry); err != nil {
		log.Printf("planner: warning: failed to log query: %v", err)
	}
}

// Describe returns a short human-readable description of a request, used
// in verbose logging.
func Describe(req Request) string {
	return fmt.Sprintf("%s %v", req.QueryType, req.parameters())
}
