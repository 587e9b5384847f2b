package narrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SREYASABU/Tubenor/internal/planner"
)

const narratorSystemPrompt = `You are a YouTube channel analyst. You receive the raw JSON
response of a YouTube Data or Analytics API call, together with the question the
channel owner originally asked.

Write a clear, friendly answer in markdown:
- Answer the question directly in the first sentence.
- Use the item details map (titles and links) instead of raw video ids; never
  show a bare video id to the reader.
- Surface concrete numbers from the data; do not invent figures that are not
  in the JSON.
- When the payload is an error, explain in plain language what went wrong and
  what the user could try instead. Never show stack traces or raw error JSON.
- Keep it concise: a short paragraph plus a list or small table where it helps.`

// Narrator converts a planned query result into natural-language markdown
// using a hosted language model.
type Narrator struct {
	llm LLMClient
}

// New creates a Narrator.
func New(llm LLMClient) *Narrator {
	return &Narrator{llm: llm}
}

// Narrate renders the result of a query as markdown prose. The prompt
// carries the raw response document, the original question, and the
// id-to-title side map, which together form the narrator's input contract.
func (n *Narrator) Narrate(ctx context.Context, userQuery string, res *planner.Result) (string, error) {
	payload, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling query result: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User question:\n%s\n\n", userQuery)
	if res.IsError() {
		b.WriteString("The API call failed. Error payload:\n")
	} else {
		b.WriteString("API response payload (includes itemDetails mapping video ids to titles and links):\n")
	}
	b.WriteString("```json\n")
	b.Write(payload)
	b.WriteString("\n```\n")

	resp, err := n.llm.Complete(ctx, &CompletionRequest{
		SystemPrompt: narratorSystemPrompt,
		UserPrompt:   b.String(),
	})
	if err != nil {
		return "", fmt.Errorf("LLM completion for narration: %w", err)
	}

	return resp.Content, nil
}
