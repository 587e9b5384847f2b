package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SREYASABU/Tubenor/internal/auth"
	"github.com/SREYASABU/Tubenor/internal/config"
	"github.com/SREYASABU/Tubenor/internal/youtube"
)

// fakeAsker returns a canned answer or error.
type fakeAsker struct {
	answer    string
	sessionID string
	err       error

	gotUserID    string
	gotSessionID string
	gotQuery     string
}

func (f *fakeAsker) Ask(ctx context.Context, userID, sessionID, query string) (string, string, error) {
	f.gotUserID = userID
	f.gotSessionID = sessionID
	f.gotQuery = query
	if f.err != nil {
		return "", sessionID, f.err
	}
	return f.answer, f.sessionID, nil
}

func newTestServer(t *testing.T, asker Asker, ytCfg config.YouTubeConfig) *Server {
	t.Helper()
	provider := auth.NewProvider(ytCfg, auth.NewMemoryStore())
	oauth := auth.NewOAuthFlow(provider)
	yt := youtube.NewClient(provider)
	return New(":0", asker, provider, oauth, yt)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp APIResponse
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response %q: %v", w.Body.String(), err)
		}
	}
	return w, resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeAsker{}, config.YouTubeConfig{})

	w, resp := doJSON(t, s.Handler(), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !resp.Success {
		t.Error("Success should be true")
	}
}

func TestListAgents(t *testing.T) {
	s := newTestServer(t, &fakeAsker{}, config.YouTubeConfig{})

	w, resp := doJSON(t, s.Handler(), http.MethodGet, "/agents/list", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	stages, ok := resp.Data.([]any)
	if !ok || len(stages) != 3 {
		t.Errorf("Data = %v, want three stages", resp.Data)
	}
}

func TestGeneralQuery(t *testing.T) {
	asker := &fakeAsker{answer: "You have 42 videos.", sessionID: "sess-1"}
	s := newTestServer(t, asker, config.YouTubeConfig{})

	w, resp := doJSON(t, s.Handler(), http.MethodPost, "/agents/general-query",
		`{"query": "how many videos?", "user_id": "alice"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if !resp.Success {
		t.Fatalf("Success = false: %s", resp.Error)
	}

	data := resp.Data.(map[string]any)
	if data["response"] != "You have 42 videos." {
		t.Errorf("response = %v", data["response"])
	}
	if data["session_id"] != "sess-1" {
		t.Errorf("session_id = %v", data["session_id"])
	}
	if asker.gotUserID != "alice" || asker.gotQuery != "how many videos?" {
		t.Errorf("asker got user=%q query=%q", asker.gotUserID, asker.gotQuery)
	}
}

func TestGeneralQuery_MissingQuery(t *testing.T) {
	s := newTestServer(t, &fakeAsker{}, config.YouTubeConfig{})

	w, resp := doJSON(t, s.Handler(), http.MethodPost, "/agents/general-query", `{"user_id": "alice"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.Success {
		t.Error("Success should be false")
	}
}

func TestGeneralQuery_UserFromCookie(t *testing.T) {
	asker := &fakeAsker{answer: "ok", sessionID: "s"}
	s := newTestServer(t, asker, config.YouTubeConfig{})

	req := httptest.NewRequest(http.MethodPost, "/agents/general-query",
		strings.NewReader(`{"query": "hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "tubenor_user", Value: "cookie-user"})
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if asker.gotUserID != "cookie-user" {
		t.Errorf("user = %q, want the cookie value", asker.gotUserID)
	}
}

func TestGeneralQuery_CredentialErrorMapsTo401(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unconfigured", auth.ErrUnconfigured},
		{"refresh failed", &auth.RefreshError{Err: context.DeadlineExceeded}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakeAsker{err: tt.err}, config.YouTubeConfig{})

			w, resp := doJSON(t, s.Handler(), http.MethodPost, "/agents/general-query",
				`{"query": "how many videos?"}`)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if resp.Success {
				t.Error("Success should be false")
			}
		})
	}
}

func TestGeneralQuery_OtherErrorMapsTo500(t *testing.T) {
	s := newTestServer(t, &fakeAsker{err: context.DeadlineExceeded}, config.YouTubeConfig{})

	w, _ := doJSON(t, s.Handler(), http.MethodPost, "/agents/general-query", `{"query": "hi"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestLogin_RedirectsToConsent(t *testing.T) {
	s := newTestServer(t, &fakeAsker{}, config.YouTubeConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:8080/auth/callback",
	})

	w, _ := doJSON(t, s.Handler(), http.MethodGet, "/auth/login", "")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://accounts.google.com/o/oauth2/auth?") {
		t.Errorf("Location = %q", loc)
	}

	// A state cookie must accompany the redirect.
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "tubenor_oauth_state" && c.Value != "" {
			found = true
			if !strings.Contains(loc, "state="+c.Value) {
				t.Error("redirect state does not match the cookie")
			}
		}
	}
	if !found {
		t.Error("state cookie not set")
	}
}

func TestLogin_Unconfigured(t *testing.T) {
	s := newTestServer(t, &fakeAsker{}, config.YouTubeConfig{})

	w, resp := doJSON(t, s.Handler(), http.MethodGet, "/auth/login", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.Success {
		t.Error("Success should be false")
	}
}

func TestCallback_StateMismatch(t *testing.T) {
	s := newTestServer(t, &fakeAsker{}, config.YouTubeConfig{
		ClientID: "id", ClientSecret: "secret",
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: "tubenor_oauth_state", Value: "good"})
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCallback_MissingCode(t *testing.T) {
	s := newTestServer(t, &fakeAsker{}, config.YouTubeConfig{})

	w, _ := doJSON(t, s.Handler(), http.MethodGet, "/auth/callback", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCallback_Success(t *testing.T) {
	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "ya29.new", "refresh_token": "1//r", "expires_in": 3600, "token_type": "Bearer"}`))
	}))
	defer token.Close()

	provider := auth.NewProvider(config.YouTubeConfig{
		ClientID: "id", ClientSecret: "secret", RedirectURI: "http://localhost:8080/auth/callback",
	}, auth.NewMemoryStore())
	provider.SetTokenURL(token.URL)
	s := New(":0", &fakeAsker{}, provider, auth.NewOAuthFlow(provider), youtube.NewClient(provider))

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=st", nil)
	req.AddCookie(&http.Cookie{Name: "tubenor_oauth_state", Value: "st"})
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	data := resp.Data.(map[string]any)
	if data["user_id"] == "" {
		t.Error("user_id missing from callback response")
	}

	// The user cookie is set for subsequent queries.
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "tubenor_user" && c.Value == data["user_id"] {
			found = true
		}
	}
	if !found {
		t.Error("user cookie not set to the minted id")
	}
}

func TestStatus_Unauthorized(t *testing.T) {
	s := newTestServer(t, &fakeAsker{}, config.YouTubeConfig{})

	w, _ := doJSON(t, s.Handler(), http.MethodGet, "/auth/status", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLogout_RequiresUser(t *testing.T) {
	s := newTestServer(t, &fakeAsker{}, config.YouTubeConfig{})

	w, _ := doJSON(t, s.Handler(), http.MethodPost, "/auth/logout", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestChannelSummary(t *testing.T) {
	doc := map[string]any{"items": []any{map[string]any{
		"snippet":    map[string]any{"title": "My Channel"},
		"statistics": map[string]any{"subscriberCount": "1000", "videoCount": "42", "viewCount": "99999"},
	}}}

	info := channelSummary(doc)
	if info["title"] != "My Channel" {
		t.Errorf("title = %v", info["title"])
	}
	if info["video_count"] != "42" {
		t.Errorf("video_count = %v", info["video_count"])
	}

	if channelSummary(map[string]any{}) != nil {
		t.Error("empty document should yield nil")
	}
}
