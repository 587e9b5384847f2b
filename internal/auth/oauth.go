package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const googleAuthURL = "https://accounts.google.com/o/oauth2/auth"

// OAuthFlow implements the web authorization-code flow for delegated
// YouTube access. It shares the Provider's client secrets and credential
// store; a successful exchange registers a new user.
type OAuthFlow struct {
	provider *Provider
}

// NewOAuthFlow creates an OAuthFlow on top of a Provider.
func NewOAuthFlow(p *Provider) *OAuthFlow {
	return &OAuthFlow{provider: p}
}

// Configured reports whether the client secrets needed for the web flow
// are present.
func (f *OAuthFlow) Configured() bool {
	return f.provider.cfg.ClientID != "" && f.provider.cfg.ClientSecret != ""
}

// NewState returns a fresh opaque state value for CSRF protection.
func NewState() string {
	return uuid.NewString()
}

// AuthURL builds the Google consent-screen URL for the given state.
// access_type=offline is required to receive a refresh token.
func (f *OAuthFlow) AuthURL(state string) string {
	q := url.Values{
		"client_id":              {f.provider.cfg.ClientID},
		"redirect_uri":           {f.provider.cfg.RedirectURI},
		"response_type":          {"code"},
		"scope":                  {ScopeYouTubeReadonly + " " + ScopeAnalyticsReadonly},
		"access_type":            {"offline"},
		"include_granted_scopes": {"true"},
		"state":                  {state},
	}
	return googleAuthURL + "?" + q.Encode()
}

// Exchange trades an authorization code for tokens, stores the resulting
// credential under a freshly minted user id, and returns that id.
func (f *OAuthFlow) Exchange(ctx context.Context, code string) (string, *Credential, error) {
	if !f.Configured() {
		return "", nil, ErrUnconfigured
	}

	form := url.Values{
		"client_id":     {f.provider.cfg.ClientID},
		"client_secret": {f.provider.cfg.ClientSecret},
		"code":          {code},
		"redirect_uri":  {f.provider.cfg.RedirectURI},
		"grant_type":    {"authorization_code"},
	}

	tok, err := f.provider.postTokenForm(ctx, form)
	if err != nil {
		return "", nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	cred := &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second),
		Scopes:       strings.Fields(tok.Scope),
	}

	userID := uuid.NewString()
	if err := f.provider.store.Put(userID, cred); err != nil {
		return "", nil, fmt.Errorf("storing credential: %w", err)
	}

	return userID, cred, nil
}

// Revoke removes the stored credential for a user.
func (f *OAuthFlow) Revoke(userID string) error {
	return f.provider.store.Delete(userID)
}
