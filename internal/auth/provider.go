package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/SREYASABU/Tubenor/internal/config"
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

// ErrUnconfigured is returned when one of the static OAuth secrets
// (client id, client secret, refresh token) is missing.
var ErrUnconfigured = errors.New("youtube OAuth secrets missing: set YT_CLIENT_ID, YT_CLIENT_SECRET, YT_REFRESH_TOKEN")

// RefreshError indicates the token refresh exchange was rejected upstream.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refreshing YouTube token: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Provider hands out currently valid bearer credentials, refreshing them
// transparently. One refresh attempt per call; callers re-invoke on failure
// rather than the provider looping internally.
type Provider struct {
	cfg        config.YouTubeConfig
	store      CredentialStore
	tokenURL   string
	httpClient *http.Client

	// Serializes refreshes so concurrent callers for the same user do a
	// single last-writer-wins replacement instead of racing partial writes.
	mu sync.Mutex
}

// NewProvider creates a Provider backed by the given credential store.
func NewProvider(cfg config.YouTubeConfig, store CredentialStore) *Provider {
	return &Provider{
		cfg:      cfg,
		store:    store,
		tokenURL: googleTokenURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetTokenURL overrides the token endpoint. Used in tests.
func (p *Provider) SetTokenURL(u string) {
	p.tokenURL = u
}

// ValidCredential returns a currently valid credential for the user,
// refreshing the access token if the cached one is expired or absent.
func (p *Provider) ValidCredential(ctx context.Context, userID string) (*Credential, error) {
	cred, err := p.store.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("loading credential: %w", err)
	}

	now := time.Now()
	if cred.Valid(now) {
		return cred, nil
	}

	// Fall back to the static refresh token when the user has no stored
	// credential at all (the single-user env-configured deployment).
	refreshToken := p.cfg.RefreshToken
	if cred != nil && cred.RefreshToken != "" {
		refreshToken = cred.RefreshToken
	}

	if p.cfg.ClientID == "" || p.cfg.ClientSecret == "" || refreshToken == "" {
		return nil, ErrUnconfigured
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have refreshed while we waited on the lock.
	if cred, err = p.store.Get(userID); err == nil && cred.Valid(time.Now()) {
		return cred, nil
	}

	fresh, err := p.refresh(ctx, refreshToken)
	if err != nil {
		return nil, &RefreshError{Err: err}
	}

	if err := p.store.Put(userID, fresh); err != nil {
		return nil, fmt.Errorf("storing refreshed credential: %w", err)
	}

	log.Printf("auth: refreshed credential for user %s (expires %s)",
		userID, fresh.Expiry.Format(time.RFC3339))
	return fresh, nil
}

// tokenResponse is the OAuth token endpoint response shape.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	Scope            string `json:"scope"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// refresh performs a single refresh-token exchange against the token endpoint.
func (p *Provider) refresh(ctx context.Context, refreshToken string) (*Credential, error) {
	form := url.Values{
		"client_id":     {p.cfg.ClientID},
		"client_secret": {p.cfg.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	tok, err := p.postTokenForm(ctx, form)
	if err != nil {
		return nil, err
	}

	return &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: refreshToken, // refresh grants do not rotate the refresh token
		Expiry:       time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
		Scopes:       strings.Fields(tok.Scope),
	}, nil
}

// postTokenForm posts a form to the token endpoint and decodes the response.
func (p *Provider) postTokenForm(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || tok.Error != "" {
		if tok.Error != "" {
			return nil, fmt.Errorf("token endpoint rejected request: %s (%s)",
				tok.Error, tok.ErrorDescription)
		}
		return nil, fmt.Errorf("token endpoint returned HTTP %d", resp.StatusCode)
	}

	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}

	return &tok, nil
}
