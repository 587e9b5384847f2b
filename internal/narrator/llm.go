package narrator

import (
	"context"
	"fmt"

	"github.com/SREYASABU/Tubenor/internal/config"
)

// LLMClient is the interface for hosted language model providers.
type LLMClient interface {
	// Complete sends a prompt to the LLM and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest represents a request to the LLM.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// CompletionResponse represents a response from the LLM.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensUsed int
}

// NewClient creates the LLM client selected by the config.
func NewClient(cfg config.LLMConfig) (LLMClient, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicKey, cfg.Model), nil
	case "openai":
		return NewOpenAIClient(cfg.OpenAIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
