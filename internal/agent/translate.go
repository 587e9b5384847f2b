package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/SREYASABU/Tubenor/internal/narrator"
	"github.com/SREYASABU/Tubenor/internal/planner"
)

const translatorSystemPrompt = `You translate a YouTube channel owner's natural-language
question into a single JSON query plan. Respond with JSON only, no prose or code fences.

The plan shape is:
{"query_type": "...", "metrics": "...", "dimensions": "...", "filters": "...",
 "sort": "...", "start_date": "YYYY-MM-DD", "end_date": "YYYY-MM-DD",
 "max_results": N, "q": "...", "video_id": "...", "order": "...",
 "type": "...", "include_statistics": true}

Only set the fields the question needs; every optional field has a safe default.

query_type values:
- "analytics": trends, performance metrics, statistics over time, audience data.
  Fields: metrics (comma-separated), dimensions, filters, sort, start_date, end_date,
  max_results. Sort syntax: "-metric" descending, "metric" ascending.
- "my_videos": recent uploads, latest posts, the user's video list.
  Fields: max_results, order ("date", "viewCount", "rating", "title"),
  include_statistics.
- "video_details": data about one specific video. Requires video_id.
- "channel_details": channel statistics, subscriber count, TOTAL video count.
  To answer "how many videos have I posted", always use channel_details (it
  returns the aggregate videoCount), never my_videos (a capped listing).
- "search": find public videos by keyword. Requires q; optional order, type.
- "playlists": the user's playlists. Optional max_results.
- "comments": comments on one video. Requires video_id; optional order
  ("time", "relevance"), max_results.

Metrics vocabulary (analytics): views, estimatedMinutesWatched,
averageViewDuration, averageViewPercentage, likes, dislikes, comments, shares,
subscribersGained, subscribersLost, annotationClickThroughRate, cardClickRate,
estimatedRevenue, estimatedAdRevenue, grossRevenue, cpm, viewerPercentage.

Dimensions vocabulary (analytics): day, month, video, playlist, country,
province, continent, ageGroup, gender, insightTrafficSourceType, deviceType,
operatingSystem, subscribedStatus, youtubeProduct.

Date guidance: today is %s. Resolve relative ranges yourself ("last week",
"yesterday", "this month") into start_date/end_date. Leave dates unset for
"overall" questions; the default window is the last 30 days.

Examples:
- "views on my most recent post" ->
  {"query_type":"my_videos","max_results":1,"order":"date","include_statistics":true}
- "total views in the last 7 days" ->
  {"query_type":"analytics","metrics":"views","start_date":"<7 days ago>","end_date":"<today>"}
- "which videos got the most views this week" ->
  {"query_type":"analytics","metrics":"views,likes,comments","dimensions":"video","sort":"-views","max_results":10,...}
- "how many videos have I posted" -> {"query_type":"channel_details"}
- "where is my traffic coming from" ->
  {"query_type":"analytics","metrics":"views","dimensions":"insightTrafficSourceType","sort":"-views"}`

// Translator maps a free-form question onto a query plan with one LLM
// call. Model output is repaired before unmarshaling because models emit
// sloppy JSON.
type Translator struct {
	llm narrator.LLMClient
	now func() time.Time
}

// NewTranslator creates a Translator.
func NewTranslator(llm narrator.LLMClient) *Translator {
	return &Translator{
		llm: llm,
		now: time.Now,
	}
}

// SetNow overrides the clock. Used in tests.
func (t *Translator) SetNow(now func() time.Time) {
	t.now = now
}

// Translate turns the question into a planner request.
func (t *Translator) Translate(ctx context.Context, query string) (planner.Request, error) {
	resp, err := t.llm.Complete(ctx, &narrator.CompletionRequest{
		SystemPrompt: fmt.Sprintf(translatorSystemPrompt, t.now().Format("2006-01-02")),
		UserPrompt:   query,
		Temperature:  0.1,
	})
	if err != nil {
		return planner.Request{}, fmt.Errorf("LLM completion for query translation: %w", err)
	}

	req, err := ParsePlan(resp.Content)
	if err != nil {
		return planner.Request{}, fmt.Errorf("parsing query plan: %w", err)
	}
	return req, nil
}

// ParsePlan decodes a model-emitted plan, stripping code fences and
// repairing malformed JSON before unmarshaling.
func ParsePlan(raw string) (planner.Request, error) {
	cleaned := stripCodeFences(raw)

	var req planner.Request
	if err := json.Unmarshal([]byte(cleaned), &req); err == nil {
		return req, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(cleaned)
	if repairErr != nil {
		return planner.Request{}, fmt.Errorf("repairing plan JSON: %w", repairErr)
	}
	log.Printf("agent: repaired malformed plan JSON from model")

	if err := json.Unmarshal([]byte(repaired), &req); err != nil {
		return planner.Request{}, fmt.Errorf("unmarshaling repaired plan: %w", err)
	}
	return req, nil
}

// stripCodeFences removes a surrounding markdown code fence, if any.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
