package narrator

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// AnthropicClient implements LLMClient using the Anthropic Claude API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new Anthropic Claude client.
func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	return &AnthropicClient{
		client: anthropic.NewClient(apiKey),
		model:  model,
	}
}

// Complete sends a completion request to the Anthropic Claude API.
func (c *AnthropicClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	temperature := req.Temperature
	if temperature <= 0 {
		temperature = 0.3
	}
	temperatureF32 := float32(temperature)

	apiReq := anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxTokens,
		Temperature: &temperatureF32,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(req.UserPrompt),
		},
	}

	if req.SystemPrompt != "" {
		apiReq.MultiSystem = []anthropic.MessageSystemPart{
			anthropic.NewSystemMessagePart(req.SystemPrompt),
		}
	}

	resp, err := c.client.CreateMessages(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	return &CompletionResponse{
		Content:    resp.GetFirstContentText(),
		Model:      string(resp.Model),
		TokensUsed: resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}
