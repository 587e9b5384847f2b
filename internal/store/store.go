package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Session represents a conversation session keyed by (app, user, session).
type Session struct {
	ID        int64
	AppName   string
	UserID    string
	SessionID string
	State     string // JSON-encoded state mapping
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message represents one transcript entry within a session.
type Message struct {
	ID        int64
	Role      string // "user" or "assistant"
	Content   string
	CreatedAt time.Time
}

// QueryLogEntry records a single planner dispatch.
type QueryLogEntry struct {
	ID           int64
	UserID       string
	QueryType    string
	Parameters   string // JSON-encoded request parameters
	Status       string // "success" or "error"
	ErrorMessage string
	DurationMS   int64
	CreatedAt    time.Time
}

// CredentialRecord is the persisted form of a delegated-access credential.
type CredentialRecord struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	Scopes       string // space-separated
	UpdatedAt    time.Time
}

// Store provides database operations for the application.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// GetSession fetches a session by its (app, user, session) key.
// Returns sql.ErrNoRows if the session does not exist.
func (s *Store) GetSession(appName, userID, sessionID string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT id, app_name, user_id, session_id, state, created_at, updated_at
		FROM sessions
		WHERE app_name = ? AND user_id = ? AND session_id = ?`,
		appName, userID, sessionID)

	var sess Session
	err := row.Scan(&sess.ID, &sess.AppName, &sess.UserID, &sess.SessionID,
		&sess.State, &sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// CreateSession inserts a new session and sets its rowid on the struct.
func (s *Store) CreateSession(sess *Session) error {
	if sess.State == "" {
		sess.State = "{}"
	}
	res, err := s.db.Exec(`
		INSERT INTO sessions (app_name, user_id, session_id, state)
		VALUES (?, ?, ?, ?)`,
		sess.AppName, sess.UserID, sess.SessionID, sess.State)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading session rowid: %w", err)
	}
	sess.ID = id
	return nil
}

// UpdateSessionState replaces a session's state JSON and bumps updated_at.
func (s *Store) UpdateSessionState(id int64, state string) error {
	_, err := s.db.Exec(`
		UPDATE sessions SET state = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		state, id)
	if err != nil {
		return fmt.Errorf("updating session state: %w", err)
	}
	return nil
}

// AppendMessage adds a transcript entry to a session.
func (s *Store) AppendMessage(sessionRowID int64, role, content string) error {
	_, err := s.db.Exec(`
		INSERT INTO session_messages (session_rowid, role, content)
		VALUES (?, ?, ?)`,
		sessionRowID, role, content)
	if err != nil {
		return fmt.Errorf("inserting session message: %w", err)
	}
	_, err = s.db.Exec(`
		UPDATE sessions SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, sessionRowID)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}

// ListMessages returns a session's transcript in insertion order, capped
// at limit entries from the end (limit <= 0 means no cap).
func (s *Store) ListMessages(sessionRowID int64, limit int) ([]*Message, error) {
	query := `
		SELECT id, role, content, created_at
		FROM session_messages
		WHERE session_rowid = ?
		ORDER BY id`
	args := []any{sessionRowID}
	if limit > 0 {
		query = `
			SELECT id, role, content, created_at FROM (
				SELECT id, role, content, created_at
				FROM session_messages
				WHERE session_rowid = ?
				ORDER BY id DESC LIMIT ?
			) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying session messages: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session message: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

// LogQuery records a planner dispatch in the query log.
func (s *Store) LogQuery(entry *QueryLogEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO query_log (user_id, query_type, parameters, status, error_message, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.QueryType, entry.Parameters, entry.Status,
		entry.ErrorMessage, entry.DurationMS)
	if err != nil {
		return fmt.Errorf("inserting query log entry: %w", err)
	}
	return nil
}

// RecentQueries returns the most recent query log entries, newest first.
func (s *Store) RecentQueries(limit int) ([]*QueryLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, user_id, query_type, parameters, status,
		       COALESCE(error_message, ''), COALESCE(duration_ms, 0), created_at
		FROM query_log
		ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying query log: %w", err)
	}
	defer rows.Close()

	var entries []*QueryLogEntry
	for rows.Next() {
		var e QueryLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.QueryType, &e.Parameters,
			&e.Status, &e.ErrorMessage, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning query log entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// PutCredential inserts or replaces the credential for a user.
func (s *Store) PutCredential(rec *CredentialRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO credentials (user_id, access_token, refresh_token, expiry, scopes, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token=excluded.access_token,
			refresh_token=excluded.refresh_token,
			expiry=excluded.expiry,
			scopes=excluded.scopes,
			updated_at=CURRENT_TIMESTAMP`,
		rec.UserID, rec.AccessToken, rec.RefreshToken, rec.Expiry, rec.Scopes)
	if err != nil {
		return fmt.Errorf("upserting credential: %w", err)
	}
	return nil
}

// GetCredential fetches the credential for a user.
// Returns sql.ErrNoRows if no credential is stored.
func (s *Store) GetCredential(userID string) (*CredentialRecord, error) {
	row := s.db.QueryRow(`
		SELECT user_id, access_token, refresh_token, expiry, scopes, updated_at
		FROM credentials WHERE user_id = ?`, userID)

	var rec CredentialRecord
	err := row.Scan(&rec.UserID, &rec.AccessToken, &rec.RefreshToken,
		&rec.Expiry, &rec.Scopes, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteCredential removes the credential for a user. Deleting a missing
// credential is not an error.
func (s *Store) DeleteCredential(userID string) error {
	_, err := s.db.Exec(`DELETE FROM credentials WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}
	return nil
}
