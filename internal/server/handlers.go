package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SREYASABU/Tubenor/internal/agent"
	"github.com/SREYASABU/Tubenor/internal/auth"
)

const (
	stateCookie = "tubenor_oauth_state"
	userCookie  = "tubenor_user"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: gin.H{"status": "ok"}})
}

func (s *Server) handleListAgents(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: agent.Stages()})
}

// QueryRequest is the payload for /agents/general-query.
type QueryRequest struct {
	Query     string `json:"query" binding:"required"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// QueryResponse is the result of /agents/general-query.
type QueryResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleGeneralQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	userID := req.UserID
	if userID == "" {
		if cookie, err := c.Cookie(userCookie); err == nil {
			userID = cookie
		}
	}

	answer, sessionID, err := s.coordinator.Ask(c.Request.Context(), userID, req.SessionID, req.Query)
	if err != nil {
		status := http.StatusInternalServerError
		// Credential failures mean the user must (re)authorize.
		var refreshErr *auth.RefreshError
		if errors.Is(err, auth.ErrUnconfigured) || errors.As(err, &refreshErr) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, APIResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    QueryResponse{Response: answer, SessionID: sessionID},
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	if !s.oauth.Configured() {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Error:   auth.ErrUnconfigured.Error(),
		})
		return
	}

	state := auth.NewState()
	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, s.oauth.AuthURL(state))
}

func (s *Server) handleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   "missing authorization code",
		})
		return
	}

	state := c.Query("state")
	wantState, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != wantState {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   "state mismatch",
		})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	userID, cred, err := s.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("authorization failed: %v", err),
		})
		return
	}

	c.SetCookie(userCookie, userID, 30*24*3600, "/", "", false, true)
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: gin.H{
			"user_id": userID,
			"expiry":  cred.Expiry,
			"scopes":  cred.Scopes,
		},
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		if cookie, err := c.Cookie(userCookie); err == nil {
			userID = cookie
		}
	}
	if userID == "" {
		userID = "default"
	}

	cred, err := s.provider.ValidCredential(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		var refreshErr *auth.RefreshError
		if errors.Is(err, auth.ErrUnconfigured) || errors.As(err, &refreshErr) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, APIResponse{Success: false, Error: err.Error()})
		return
	}

	data := gin.H{
		"user_id": userID,
		"expiry":  cred.Expiry,
		"scopes":  cred.Scopes,
	}

	// Best-effort channel summary; the credential is already known valid.
	if doc, err := s.yt.ChannelDetails(c.Request.Context(), userID); err == nil {
		if info := channelSummary(doc); info != nil {
			data["channel"] = info
		}
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func (s *Server) handleLogout(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		if cookie, err := c.Cookie(userCookie); err == nil {
			userID = cookie
		}
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   "user_id is required",
		})
		return
	}

	if err := s.oauth.Revoke(userID); err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Error:   fmt.Sprintf("revoking credential: %v", err),
		})
		return
	}

	c.SetCookie(userCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, APIResponse{Success: true})
}

// channelSummary extracts the display fields from a channels.list response.
func channelSummary(doc map[string]any) map[string]any {
	items, _ := doc["items"].([]any)
	if len(items) == 0 {
		return nil
	}
	channel, ok := items[0].(map[string]any)
	if !ok {
		return nil
	}

	out := map[string]any{}
	if snippet, ok := channel["snippet"].(map[string]any); ok {
		out["title"], _ = snippet["title"].(string)
	}
	if stats, ok := channel["statistics"].(map[string]any); ok {
		out["subscriber_count"] = stats["subscriberCount"]
		out["video_count"] = stats["videoCount"]
		out["view_count"] = stats["viewCount"]
	}
	return out
}
