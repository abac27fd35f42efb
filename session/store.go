package session

import (
	"context"
)

// Store persists sessions between requests and across portal restarts.
// All writes are atomic from the caller's perspective: identity, role and
// token pair land (or vanish) together.
//
// Get returns errs.ErrSessionNotFound both for absent and for expired
// records, so consumers only ever observe "session" or "guest".
type Store interface {
	// Get hydrates the session for the given session ID.
	Get(ctx context.Context, sid string) (Session, error)

	// Set writes identity, role and both tokens in one operation,
	// replacing any previous session under the same ID.
	Set(ctx context.Context, sid string, sess Session) error

	// SetAccessToken replaces only the role's access token, keeping the
	// rest of the record intact. Used by the client adapter after a
	// successful refresh.
	SetAccessToken(ctx context.Context, sid string, role Role, access string) error

	// Clear removes the whole record: identity, role and the token keys
	// of both role namespaces. Clearing an absent session is not an error.
	Clear(ctx context.Context, sid string) error
}
