package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Common error types for the portal
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRefreshFailed      = errors.New("token refresh failed")
	ErrValidation         = errors.New("validation failed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// AuthError carries the upstream API's error payload for a rejected
// credential or registration request, so the UI can surface the server's
// own message with a generic fallback.
type AuthError struct {
	StatusCode int
	Payload    json.RawMessage
	Fallback   string
}

func (e *AuthError) Error() string {
	if msg := e.Message(); msg != "" {
		return msg
	}
	return fmt.Sprintf("authentication failed (status %d)", e.StatusCode)
}

// Message extracts a human readable message from the upstream payload.
// DRF-style payloads use "detail" or "message"; field validation errors
// arrive as {"field": ["msg", ...]}.
func (e *AuthError) Message() string {
	if len(e.Payload) == 0 {
		return e.Fallback
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(e.Payload, &body); err != nil {
		return e.Fallback
	}

	for _, key := range []string{"detail", "message", "error"} {
		var msg string
		if raw, ok := body[key]; ok && json.Unmarshal(raw, &msg) == nil && msg != "" {
			return msg
		}
	}

	// Field errors: take the first message of the first field
	for field, raw := range body {
		var msgs []string
		if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 {
			return fmt.Sprintf("%s: %s", field, msgs[0])
		}
	}

	return e.Fallback
}

// UpstreamError is a non-auth HTTP error from the restaurant API, passed
// through to the caller untouched.
type UpstreamError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream API error: status %d", e.StatusCode)
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
