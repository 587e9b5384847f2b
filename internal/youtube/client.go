package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SREYASABU/Tubenor/internal/auth"
)

const (
	dataAPIBase      = "https://www.googleapis.com/youtube/v3"
	analyticsAPIBase = "https://youtubeanalytics.googleapis.com/v2"
)

// CredentialSource supplies a currently valid bearer credential for a user.
type CredentialSource interface {
	ValidCredential(ctx context.Context, userID string) (*auth.Credential, error)
}

// Document is a raw API response, kept untyped because the external
// response shape is the fixed contract and the narrator consumes it as-is.
type Document = map[string]any

// Client is a thin typed wrapper over the YouTube Data API v3 and the
// YouTube Analytics API v2.
type Client struct {
	creds         CredentialSource
	httpClient    *http.Client
	dataBase      string
	analyticsBase string
}

// NewClient creates a Client that authorizes requests via creds.
func NewClient(creds CredentialSource) *Client {
	return &Client{
		creds: creds,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		dataBase:      dataAPIBase,
		analyticsBase: analyticsAPIBase,
	}
}

// SetBaseURLs overrides the API base URLs. Used in tests.
func (c *Client) SetBaseURLs(dataBase, analyticsBase string) {
	c.dataBase = dataBase
	c.analyticsBase = analyticsBase
}

// SearchParams are the parameters for SearchVideos.
type SearchParams struct {
	Query      string
	Type       string // "video", "channel", "playlist"
	Order      string
	MaxResults int
}

// SearchVideos searches public YouTube content by keyword.
func (c *Client) SearchVideos(ctx context.Context, userID string, p SearchParams) (Document, error) {
	q := url.Values{
		"part": {"snippet"},
		"q":    {p.Query},
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	setMaxResults(q, p.MaxResults)
	return c.get(ctx, userID, c.dataBase+"/search", q)
}

// MyVideosParams are the parameters for MyVideos.
type MyVideosParams struct {
	Order      string
	MaxResults int
}

// MyVideos lists the authenticated user's uploaded videos. The search
// endpoint returns only lightweight snippets; statistics require a
// follow-up VideoDetails call.
func (c *Client) MyVideos(ctx context.Context, userID string, p MyVideosParams) (Document, error) {
	q := url.Values{
		"part":    {"snippet"},
		"forMine": {"true"},
		"type":    {"video"},
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	setMaxResults(q, p.MaxResults)
	return c.get(ctx, userID, c.dataBase+"/search", q)
}

// VideoDetails fetches full snippet, statistics, and content details for
// the given video ids, in the order requested.
func (c *Client) VideoDetails(ctx context.Context, userID string, videoIDs []string) (Document, error) {
	q := url.Values{
		"part": {"snippet,statistics,contentDetails"},
		"id":   {strings.Join(videoIDs, ",")},
	}
	return c.get(ctx, userID, c.dataBase+"/videos", q)
}

// ChannelDetails fetches the authenticated user's channel, including the
// aggregate statistics block (videoCount, subscriberCount, viewCount).
func (c *Client) ChannelDetails(ctx context.Context, userID string) (Document, error) {
	q := url.Values{
		"part": {"snippet,statistics,contentDetails,brandingSettings"},
		"mine": {"true"},
	}
	return c.get(ctx, userID, c.dataBase+"/channels", q)
}

// Playlists lists the authenticated user's playlists.
func (c *Client) Playlists(ctx context.Context, userID string, maxResults int) (Document, error) {
	q := url.Values{
		"part": {"snippet,contentDetails"},
		"mine": {"true"},
	}
	setMaxResults(q, maxResults)
	return c.get(ctx, userID, c.dataBase+"/playlists", q)
}

// CommentsParams are the parameters for Comments.
type CommentsParams struct {
	VideoID    string
	Order      string // "time" or "relevance"
	MaxResults int
}

// Comments lists top-level comment threads for a video.
func (c *Client) Comments(ctx context.Context, userID string, p CommentsParams) (Document, error) {
	q := url.Values{
		"part":    {"snippet"},
		"videoId": {p.VideoID},
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	setMaxResults(q, p.MaxResults)
	return c.get(ctx, userID, c.dataBase+"/commentThreads", q)
}

// AnalyticsParams are the parameters for AnalyticsQuery, matching the
// reports.query contract of the Analytics API.
type AnalyticsParams struct {
	IDs        string // scope selector, e.g. "channel==MINE"
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
	Metrics    string // comma-separated
	Dimensions string
	Filters    string
	Sort       string
	MaxResults int
}

// AnalyticsQuery runs a reports.query against the Analytics API.
func (c *Client) AnalyticsQuery(ctx context.Context, userID string, p AnalyticsParams) (Document, error) {
	q := url.Values{
		"ids":       {p.IDs},
		"startDate": {p.StartDate},
		"endDate":   {p.EndDate},
		"metrics":   {p.Metrics},
	}
	if p.Dimensions != "" {
		q.Set("dimensions", p.Dimensions)
	}
	if p.Filters != "" {
		q.Set("filters", p.Filters)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.MaxResults > 0 {
		q.Set("maxResults", strconv.Itoa(p.MaxResults))
	}
	return c.get(ctx, userID, c.analyticsBase+"/reports", q)
}

// get performs an authorized GET and decodes the JSON document.
func (c *Client) get(ctx context.Context, userID, endpoint string, q url.Values) (Document, error) {
	cred, err := c.creds.ValidCredential(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting credential: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling YouTube API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading YouTube API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parsing YouTube API response: %w", err)
	}

	log.Printf("youtube: GET %s -> %d (%s)", req.URL.Path, resp.StatusCode,
		time.Since(start).Round(time.Millisecond))
	return doc, nil
}

// setMaxResults applies maxResults when positive.
func setMaxResults(q url.Values, n int) {
	if n > 0 {
		q.Set("maxResults", strconv.Itoa(n))
	}
}
