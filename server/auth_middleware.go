package server

import (
	"context"
	"net/http"

	errs "restaurante-portal/internal/errors"
	"restaurante-portal/session"

	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the hydrated session for the request
	ContextKeySession ContextKey = "session"
	// ContextKeySessionID stores the session cookie value
	ContextKeySessionID ContextKey = "session_id"
)

// SessionFromContext returns the session injected by the auth middleware.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	sess, ok := ctx.Value(ContextKeySession).(session.Session)
	return sess, ok
}

// SessionIDFromContext returns the session ID injected by the auth middleware.
func SessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(ContextKeySessionID).(string)
	return sid
}

// currentSession resolves the session for the request's cookie, if any.
// A missing cookie, an unknown session or an expired session all report ok=false.
func (s *Server) currentSession(r *http.Request) (session.Session, string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return session.Session{}, "", false
	}

	sess, err := s.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		if !errs.Is(err, errs.ErrSessionNotFound) {
			log.Err(err).Msg("Failed to load session from store")
		}
		return session.Session{}, cookie.Value, false
	}
	return sess, cookie.Value, true
}

// RequireEmployee is middleware for server-rendered staff routes. Guests are
// redirected to the employee login page, customers to the home page. When
// adminOnly is set, non-admin employees are redirected to the home page too.
func (s *Server) RequireEmployee(adminOnly bool) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sess, sid, ok := s.currentSession(r)
			if !ok {
				if sid != "" {
					s.SetSessionCookie(w, r, "", -1) // Drop the stale cookie
				}
				http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
				return
			}
			if sess.Role != session.RoleEmployee {
				http.Redirect(w, r, RouteHome, http.StatusSeeOther)
				return
			}
			if adminOnly && !sess.IsAdmin() {
				http.Redirect(w, r, RouteHome, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			ctx = context.WithValue(ctx, ContextKeySessionID, sid)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireCustomer is middleware for customer-only routes. Guests are redirected
// to the customer login page, employees to the home page.
func (s *Server) RequireCustomer() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sess, sid, ok := s.currentSession(r)
			if !ok {
				if sid != "" {
					s.SetSessionCookie(w, r, "", -1) // Drop the stale cookie
				}
				http.Redirect(w, r, RouteCustomerLogin, http.StatusSeeOther)
				return
			}
			if sess.Role != session.RoleCustomer {
				http.Redirect(w, r, RouteHome, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			ctx = context.WithValue(ctx, ContextKeySessionID, sid)
			next(w, r.WithContext(ctx))
		}
	}
}
