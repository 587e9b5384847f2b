package planner

import (
	"context"
	"fmt"

	"github.com/SREYASABU/Tubenor/internal/youtube"
)

// chainState tracks progress through a dependent-call chain.
type chainState int

const (
	chainIssuedFirst chainState = iota
	chainAwaitingDependent
	chainComplete
	chainFailed
)

// chain runs a two-step dependent call: a first call whose result yields
// identifiers, then a second call parameterized by those identifiers.
// Identifier order from the first call is preserved verbatim, so
// "most recent" semantics survive the join. Once the first call has been
// issued the dependent call is always attempted; there is no mid-chain
// cancellation beyond ctx itself.
type chain struct {
	// first issues the initial call.
	first func(ctx context.Context) (youtube.Document, error)

	// extract pulls the ordered identifier list out of the first result.
	// An empty list short-circuits the chain: the first document is final.
	extract func(doc youtube.Document) []string

	// dependent issues the follow-up call for the extracted identifiers.
	dependent func(ctx context.Context, ids []string) (youtube.Document, error)

	state chainState
}

// run drives the chain to completion and returns the final document.
func (c *chain) run(ctx context.Context) (youtube.Document, error) {
	c.state = chainIssuedFirst
	firstDoc, err := c.first(ctx)
	if err != nil {
		c.state = chainFailed
		return nil, fmt.Errorf("first call: %w", err)
	}

	ids := c.extract(firstDoc)
	if len(ids) == 0 || c.dependent == nil {
		c.state = chainComplete
		return firstDoc, nil
	}

	c.state = chainAwaitingDependent
	depDoc, err := c.dependent(ctx, ids)
	if err != nil {
		c.state = chainFailed
		return nil, fmt.Errorf("dependent call: %w", err)
	}

	c.state = chainComplete
	return depDoc, nil
}

// searchResultVideoIDs extracts the ordered video id list from a
// search.list response (items[].id.videoId).
func searchResultVideoIDs(doc youtube.Document) []string {
	items, _ := doc["items"].([]any)
	var ids []string
	for _, it := range items {
		item, ok := it.(map[string]any)
		if !ok {
			continue
		}
		idObj, ok := item["id"].(map[string]any)
		if !ok {
			continue
		}
		if vid, ok := idObj["videoId"].(string); ok && vid != "" {
			ids = append(ids, vid)
		}
	}
	return ids
}
