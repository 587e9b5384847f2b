package auth

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/SREYASABU/Tubenor/internal/store"
)

// YouTube API scopes requested for delegated access.
const (
	ScopeYouTubeReadonly   = "https://www.googleapis.com/auth/youtube.readonly"
	ScopeAnalyticsReadonly = "https://www.googleapis.com/auth/yt-analytics.readonly"
)

// Credential is a delegated-access bearer token plus its refresh token
// and expiry.
type Credential struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Scopes       []string
}

// Valid reports whether the access token is still usable, with a safety
// margin so a token that expires mid-request never gets dispatched.
func (c *Credential) Valid(now time.Time) bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	return now.Add(expiryMargin).Before(c.Expiry)
}

// expiryMargin is subtracted from the token expiry when deciding whether
// a refresh is needed.
const expiryMargin = 2 * time.Minute

// CredentialStore is a keyed store of per-user credentials.
type CredentialStore interface {
	Get(userID string) (*Credential, error)
	Put(userID string, cred *Credential) error
	Delete(userID string) error
}

// MemoryStore is an in-process CredentialStore, used in tests and as the
// fallback when no database is configured. Tokens are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	creds map[string]*Credential
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{creds: make(map[string]*Credential)}
}

// Get returns the credential for a user, or nil if none is stored.
func (m *MemoryStore) Get(userID string) (*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds[userID], nil
}

// Put stores the credential for a user, replacing any previous one.
func (m *MemoryStore) Put(userID string, cred *Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[userID] = cred
	return nil
}

// Delete removes the credential for a user.
func (m *MemoryStore) Delete(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.creds, userID)
	return nil
}

// SQLiteStore is a CredentialStore backed by the application database, so
// delegated tokens survive restarts.
type SQLiteStore struct {
	store *store.Store
}

// NewSQLiteStore creates a SQLiteStore on top of an open store.
func NewSQLiteStore(s *store.Store) *SQLiteStore {
	return &SQLiteStore{store: s}
}

// Get returns the credential for a user, or nil if none is stored.
func (s *SQLiteStore) Get(userID string) (*Credential, error) {
	rec, err := s.store.GetCredential(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var scopes []string
	if rec.Scopes != "" {
		scopes = strings.Fields(rec.Scopes)
	}
	return &Credential{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		Expiry:       rec.Expiry,
		Scopes:       scopes,
	}, nil
}

// Put stores the credential for a user, replacing any previous one.
func (s *SQLiteStore) Put(userID string, cred *Credential) error {
	return s.store.PutCredential(&store.CredentialRecord{
		UserID:       userID,
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.Expiry,
		Scopes:       strings.Join(cred.Scopes, " "),
	})
}

// Delete removes the credential for a user.
func (s *SQLiteStore) Delete(userID string) error {
	return s.store.DeleteCredential(userID)
}
