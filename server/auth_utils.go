package server

import (
	"net/http"
	"net/url"

	errs "restaurante-portal/internal/errors"
	"restaurante-portal/session"
)

// sessionCookieName is the name of the cookie that carries the portal session ID
const sessionCookieName = "portal_session_id"

func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string, maxAge int) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	fullPath := path + "?error=" + url.QueryEscape(errorMsg)

	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", fullPath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// upstreamMessage surfaces the upstream API's own error message when the
// error chain carries one, falling back to a generic message otherwise.
func upstreamMessage(err error, fallback string) string {
	var authErr *errs.AuthError
	if errs.As(err, &authErr) {
		if msg := authErr.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}

// loginRouteFor maps a role to its login page.
func loginRouteFor(role session.Role) string {
	if role == session.RoleCustomer {
		return RouteCustomerLogin
	}
	return RouteLogin
}

// handleExpiredSession checks whether an upstream call failed because the
// session can no longer be refreshed. If so, the cookie is dropped and the
// user is sent back to the login page for their role; the caller should stop
// handling the request.
func (s *Server) handleExpiredSession(w http.ResponseWriter, r *http.Request, err error, role session.Role) bool {
	if err == nil {
		return false
	}
	if !errs.Is(err, errs.ErrRefreshFailed) && !errs.Is(err, errs.ErrSessionNotFound) {
		return false
	}
	s.SetSessionCookie(w, r, "", -1)
	redirectWithError(w, r, loginRouteFor(role), "La sesión ha expirado, inicia sesión nuevamente")
	return true
}
