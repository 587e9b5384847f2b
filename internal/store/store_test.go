package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t)
	if s == nil {
		t.Fatal("store should not be nil")
	}
	if s.DB() == nil {
		t.Fatal("db should not be nil")
	}
}

func TestMigrations(t *testing.T) {
	s := newTestStore(t)

	// Verify all tables exist
	tables := []string{"sessions", "session_messages", "query_log", "credentials"}
	for _, table := range tables {
		var name string
		err := s.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %q should exist: %v", table, err)
		}
	}
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{
		AppName:   "tubenor",
		UserID:    "alice",
		SessionID: "sess-1",
	}
	if err := s.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.ID == 0 {
		t.Fatal("CreateSession should set the rowid")
	}

	got, err := s.GetSession("tubenor", "alice", "sess-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("ID = %d, want %d", got.ID, sess.ID)
	}
	if got.State != "{}" {
		t.Errorf("State = %q, want %q", got.State, "{}")
	}
}

func TestGetSession_Missing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSession("tubenor", "alice", "nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestCreateSession_DuplicateKey(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{AppName: "tubenor", UserID: "alice", SessionID: "sess-1"}
	if err := s.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	dup := &Session{AppName: "tubenor", UserID: "alice", SessionID: "sess-1"}
	if err := s.CreateSession(dup); err == nil {
		t.Error("duplicate (app, user, session) key should fail")
	}

	// Same session id under a different user is a different session.
	other := &Session{AppName: "tubenor", UserID: "bob", SessionID: "sess-1"}
	if err := s.CreateSession(other); err != nil {
		t.Errorf("same session id under another user should succeed: %v", err)
	}
}

func TestUpdateSessionState(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{AppName: "tubenor", UserID: "alice", SessionID: "sess-1"}
	if err := s.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := s.UpdateSessionState(sess.ID, `{"topic":"analytics"}`); err != nil {
		t.Fatalf("UpdateSessionState failed: %v", err)
	}

	got, err := s.GetSession("tubenor", "alice", "sess-1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.State != `{"topic":"analytics"}` {
		t.Errorf("State = %q, want updated JSON", got.State)
	}
}

func TestAppendAndListMessages(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{AppName: "tubenor", UserID: "alice", SessionID: "sess-1"}
	if err := s.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	exchanges := []struct {
		role    string
		content string
	}{
		{"user", "how many views this month?"},
		{"assistant", "Your channel got 1,234 views."},
		{"user", "and likes?"},
		{"assistant", "56 likes."},
	}
	for _, e := range exchanges {
		if err := s.AppendMessage(sess.ID, e.role, e.content); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	msgs, err := s.ListMessages(sess.ID, 0)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}
	for i, e := range exchanges {
		if msgs[i].Role != e.role || msgs[i].Content != e.content {
			t.Errorf("msg[%d] = (%q, %q), want (%q, %q)", i, msgs[i].Role, msgs[i].Content, e.role, e.content)
		}
	}
}

func TestListMessages_Limit(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{AppName: "tubenor", UserID: "alice", SessionID: "sess-1"}
	if err := s.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	for i := 0; i < 6; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		if err := s.AppendMessage(sess.ID, role, "msg"); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}

	msgs, err := s.ListMessages(sess.ID, 2)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	// The cap keeps the newest entries but returns them oldest first.
	if msgs[0].ID >= msgs[1].ID {
		t.Errorf("messages out of order: %d then %d", msgs[0].ID, msgs[1].ID)
	}
	if msgs[1].Role != "assistant" {
		t.Errorf("last message role = %q, want assistant", msgs[1].Role)
	}
}

func TestQueryLog(t *testing.T) {
	s := newTestStore(t)

	entries := []*QueryLogEntry{
		{UserID: "alice", QueryType: "analytics", Parameters: `{"metrics":"views"}`, Status: "success", DurationMS: 120},
		{UserID: "alice", QueryType: "search", Parameters: `{"q":"golang"}`, Status: "error", ErrorMessage: "quota exceeded", DurationMS: 40},
	}
	for _, e := range entries {
		if err := s.LogQuery(e); err != nil {
			t.Fatalf("LogQuery failed: %v", err)
		}
	}

	got, err := s.RecentQueries(10)
	if err != nil {
		t.Fatalf("RecentQueries failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	// Newest first.
	if got[0].QueryType != "search" {
		t.Errorf("first entry = %q, want search", got[0].QueryType)
	}
	if got[0].ErrorMessage != "quota exceeded" {
		t.Errorf("ErrorMessage = %q, want %q", got[0].ErrorMessage, "quota exceeded")
	}
	if got[1].Status != "success" {
		t.Errorf("second entry status = %q, want success", got[1].Status)
	}
}

func TestCredentialRoundTrip(t *testing.T) {
	s := newTestStore(t)

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	rec := &CredentialRecord{
		UserID:       "alice",
		AccessToken:  "ya29.access",
		RefreshToken: "1//refresh",
		Expiry:       expiry,
		Scopes:       "scope-a scope-b",
	}
	if err := s.PutCredential(rec); err != nil {
		t.Fatalf("PutCredential failed: %v", err)
	}

	got, err := s.GetCredential("alice")
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if got.AccessToken != "ya29.access" {
		t.Errorf("AccessToken = %q", got.AccessToken)
	}
	if !got.Expiry.Equal(expiry) {
		t.Errorf("Expiry = %v, want %v", got.Expiry, expiry)
	}

	// Upsert replaces.
	rec.AccessToken = "ya29.fresh"
	if err := s.PutCredential(rec); err != nil {
		t.Fatalf("PutCredential update failed: %v", err)
	}
	got, err = s.GetCredential("alice")
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if got.AccessToken != "ya29.fresh" {
		t.Errorf("AccessToken after upsert = %q, want %q", got.AccessToken, "ya29.fresh")
	}
}

func TestDeleteCredential(t *testing.T) {
	s := newTestStore(t)

	rec := &CredentialRecord{UserID: "alice", AccessToken: "a", RefreshToken: "r", Expiry: time.Now()}
	if err := s.PutCredential(rec); err != nil {
		t.Fatalf("PutCredential failed: %v", err)
	}
	if err := s.DeleteCredential("alice"); err != nil {
		t.Fatalf("DeleteCredential failed: %v", err)
	}
	if _, err := s.GetCredential("alice"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}

	// Deleting a missing credential is not an error.
	if err := s.DeleteCredential("nobody"); err != nil {
		t.Errorf("DeleteCredential on missing user: %v", err)
	}
}
