package cmd

import (
	"fmt"

	"github.com/SREYASABU/Tubenor/internal/agent"
	"github.com/SREYASABU/Tubenor/internal/auth"
	"github.com/SREYASABU/Tubenor/internal/config"
	"github.com/SREYASABU/Tubenor/internal/narrator"
	"github.com/SREYASABU/Tubenor/internal/planner"
	"github.com/SREYASABU/Tubenor/internal/store"
	"github.com/SREYASABU/Tubenor/internal/youtube"
)

// app holds the wired pipeline shared by the serve and ask commands.
type app struct {
	store       *store.Store
	provider    *auth.Provider
	oauth       *auth.OAuthFlow
	youtube     *youtube.Client
	coordinator *agent.Coordinator
}

// buildApp assembles storage, credentials, the reporting client, and the
// three pipeline stages from config. The caller must Close the result.
func buildApp(cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	provider := auth.NewProvider(cfg.YouTube, auth.NewSQLiteStore(st))
	yt := youtube.NewClient(provider)

	llm, err := narrator.NewClient(cfg.LLM)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}

	coordinator := agent.NewCoordinator(
		cfg.AppName,
		st,
		agent.NewTranslator(llm),
		planner.New(yt, st),
		narrator.New(llm),
	)
	coordinator.SetVerbose(cfg.Verbose)

	return &app{
		store:       st,
		provider:    provider,
		oauth:       auth.NewOAuthFlow(provider),
		youtube:     yt,
		coordinator: coordinator,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() error {
	return a.store.Close()
}
