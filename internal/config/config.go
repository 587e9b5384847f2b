package config

import (
	"fmt"
)

// Config holds all application configuration.
type Config struct {
	Addr       string // HTTP listen address for `serve`
	DBPath     string
	AppName    string // session namespace, one per deployment
	Verbose    bool
	ConfigFile string

	LLM     LLMConfig
	YouTube YouTubeConfig
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider     string // "anthropic" or "openai"
	Model        string
	AnthropicKey string
	OpenAIKey    string
}

// YouTubeConfig holds the OAuth client secrets used to mint delegated
// credentials for the YouTube Data and Analytics APIs.
type YouTubeConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string // long-lived token for the single-user deployment
	RedirectURI  string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:    ":8080",
		DBPath:  "./tubenor.db",
		AppName: "tubenor",
		LLM: LLMConfig{
			Provider: "anthropic",
			Model:    "claude-sonnet-4-20250514",
		},
		YouTube: YouTubeConfig{
			RedirectURI: "http://localhost:8080/auth/callback",
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.AppName == "" {
		return fmt.Errorf("app-name must not be empty")
	}
	if c.LLM.Provider != "anthropic" && c.LLM.Provider != "openai" {
		return fmt.Errorf("llm provider must be 'anthropic' or 'openai', got %q", c.LLM.Provider)
	}
	switch c.LLM.Provider {
	case "anthropic":
		if c.LLM.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when using anthropic provider")
		}
	case "openai":
		if c.LLM.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when using openai provider")
		}
	}
	return nil
}

// HasOAuthSecrets reports whether the static OAuth client secrets are present.
// The web login flow needs the client pair; the headless refresh path
// additionally needs the refresh token.
func (c *YouTubeConfig) HasOAuthSecrets() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
