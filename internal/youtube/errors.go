package youtube

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a typed failure from the YouTube Data or Analytics API,
// covering quota, auth, and malformed-request rejections.
type APIError struct {
	StatusCode int
	Reason     string // e.g. "quotaExceeded", "forbidden"
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("YouTube API error: HTTP %d %s: %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("YouTube API error: HTTP %d: %s", e.StatusCode, e.Message)
}

// googleErrorEnvelope matches the standard Google API error body.
type googleErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// parseAPIError builds an APIError from a non-200 response body, falling
// back to the raw body when the envelope does not parse.
func parseAPIError(statusCode int, body []byte) *APIError {
	var env googleErrorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		apiErr := &APIError{
			StatusCode: statusCode,
			Message:    env.Error.Message,
		}
		if len(env.Error.Errors) > 0 {
			apiErr.Reason = env.Error.Errors[0].Reason
		}
		return apiErr
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}
