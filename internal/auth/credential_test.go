package auth

import (
	"testing"
	"time"

	"github.com/SREYASABU/Tubenor/internal/store"
)

func TestCredentialValid(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cred *Credential
		want bool
	}{
		{"nil credential", nil, false},
		{"empty access token", &Credential{Expiry: now.Add(time.Hour)}, false},
		{"well before expiry", &Credential{AccessToken: "a", Expiry: now.Add(time.Hour)}, true},
		{"already expired", &Credential{AccessToken: "a", Expiry: now.Add(-time.Minute)}, false},
		{"inside the safety margin", &Credential{AccessToken: "a", Expiry: now.Add(time.Minute)}, false},
		{"just outside the margin", &Credential{AccessToken: "a", Expiry: now.Add(3 * time.Minute)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cred.Valid(now); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()

	got, err := m.Get("alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get on empty store = %v, want nil", got)
	}

	cred := &Credential{AccessToken: "tok", RefreshToken: "ref", Expiry: time.Now().Add(time.Hour)}
	if err := m.Put("alice", cred); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err = m.Get("alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.AccessToken != "tok" {
		t.Errorf("Get = %v", got)
	}

	if err := m.Delete("alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, _ = m.Get("alice")
	if got != nil {
		t.Errorf("Get after Delete = %v, want nil", got)
	}
}

func TestSQLiteStore(t *testing.T) {
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := NewSQLiteStore(db)

	got, err := s.Get("alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get on empty store = %v, want nil", got)
	}

	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	cred := &Credential{
		AccessToken:  "tok",
		RefreshToken: "ref",
		Expiry:       expiry,
		Scopes:       []string{ScopeYouTubeReadonly, ScopeAnalyticsReadonly},
	}
	if err := s.Put("alice", cred); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err = s.Get("alice")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.AccessToken != "tok" || got.RefreshToken != "ref" {
		t.Errorf("Get = %+v", got)
	}
	if !got.Expiry.Equal(expiry) {
		t.Errorf("Expiry = %v, want %v", got.Expiry, expiry)
	}
	if len(got.Scopes) != 2 || got.Scopes[0] != ScopeYouTubeReadonly {
		t.Errorf("Scopes = %v", got.Scopes)
	}

	if err := s.Delete("alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, _ = s.Get("alice")
	if got != nil {
		t.Errorf("Get after Delete = %v, want nil", got)
	}
}
