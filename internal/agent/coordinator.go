package agent

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/SREYASABU/Tubenor/internal/narrator"
	"github.com/SREYASABU/Tubenor/internal/planner"
	"github.com/SREYASABU/Tubenor/internal/store"
)

// Stage names, addressable via the HTTP listing endpoint.
const (
	StageCoordinator  = "coordinator"
	StageQueryPlanner = "query_planner"
	StageNarrator     = "narrator"
)

// Stages lists the pipeline stages in execution order.
func Stages() []string {
	return []string{StageCoordinator, StageQueryPlanner, StageNarrator}
}

// QueryPlanner is the planning stage consumed by the coordinator.
// *planner.Planner satisfies it. A non-nil error is a credential-layer
// failure and must reach the transport layer as a hard failure.
type QueryPlanner interface {
	Execute(ctx context.Context, userID string, req planner.Request) (*planner.Result, error)
}

// Coordinator sequences translate -> plan -> narrate for one question and
// owns per-conversation session identity.
type Coordinator struct {
	appName    string
	store      *store.Store
	translator *Translator
	planner    QueryPlanner
	narrator   *narrator.Narrator
	verbose    bool
}

// NewCoordinator wires the pipeline stages together.
func NewCoordinator(appName string, s *store.Store, t *Translator, p QueryPlanner, n *narrator.Narrator) *Coordinator {
	return &Coordinator{
		appName:    appName,
		store:      s,
		translator: t,
		planner:    p,
		narrator:   n,
	}
}

// SetVerbose enables per-stage debug logging.
func (c *Coordinator) SetVerbose(v bool) {
	c.verbose = v
}

// Ask answers one natural-language question for the given user and
// session. Empty ids are minted. Returns the markdown answer and the
// session id the exchange was recorded under.
func (c *Coordinator) Ask(ctx context.Context, userID, sessionID, query string) (string, string, error) {
	if query == "" {
		return "", sessionID, fmt.Errorf("query must not be empty")
	}
	if userID == "" {
		userID = "default"
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sess, err := c.getOrCreateSession(userID, sessionID)
	if err != nil {
		return "", sessionID, fmt.Errorf("resolving session: %w", err)
	}

	if err := c.store.AppendMessage(sess.ID, "user", query); err != nil {
		log.Printf("agent: warning: failed to record user message: %v", err)
	}

	req, err := c.translator.Translate(ctx, query)
	if err != nil {
		return "", sessionID, fmt.Errorf("translating query: %w", err)
	}
	if c.verbose {
		log.Printf("agent: plan for session %s: %s", sessionID, planner.Describe(req))
	}

	res, err := c.planner.Execute(ctx, userID, req)
	if err != nil {
		return "", sessionID, fmt.Errorf("executing query: %w", err)
	}
	if res.IsError() {
		log.Printf("agent: query failed for session %s: %s", sessionID, res.Error)
	}

	answer, err := c.narrator.Narrate(ctx, query, res)
	if err != nil {
		return "", sessionID, fmt.Errorf("narrating result: %w", err)
	}

	if err := c.store.AppendMessage(sess.ID, "assistant", answer); err != nil {
		log.Printf("agent: warning: failed to record assistant message: %v", err)
	}

	return answer, sessionID, nil
}

// getOrCreateSession returns the session for (app, user, session),
// creating it on first contact.
func (c *Coordinator) getOrCreateSession(userID, sessionID string) (*store.Session, error) {
	sess, err := c.store.GetSession(c.appName, userID, sessionID)
	if err == nil {
		return sess, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	sess = &store.Session{
		AppName:   c.appName,
		UserID:    userID,
		SessionID: sessionID,
	}
	if err := c.store.CreateSession(sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

// Transcript returns the recorded exchange history for a session, newest
// last, capped at limit entries.
func (c *Coordinator) Transcript(userID, sessionID string, limit int) ([]*store.Message, error) {
	sess, err := c.store.GetSession(c.appName, userID, sessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return c.store.ListMessages(sess.ID, limit)
}
