package server

import (
	"net/http"
	"net/url"

	errs "restaurante-portal/internal/errors"
	"restaurante-portal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login pages
type LoginPageData struct {
	AppName  string
	Error    string
	Success  string
	Username string // Preserve username on error
}

// LoginPageUIHandler displays the employee login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	tmpl, err := ParsePage("layout_guest.html", "login.html")
	if err != nil {
		panic("Failed to parse login template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		// Already signed in - send to the right home page
		if _, _, ok := s.currentSession(r); ok {
			http.Redirect(w, r, RouteAuthRedirect, http.StatusSeeOther)
			return
		}

		data := LoginPageData{
			AppName:  s.config.GetAppName(),
			Error:    r.URL.Query().Get("error"),
			Username: r.URL.Query().Get("username"),
		}
		s.renderPage(w, tmpl, "layout_guest.html", data)
	}
}

// LoginSubmissionHandler processes the employee login form (POST /auth/login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		username := r.FormValue("username")
		password := r.FormValue("password")
		if username == "" || password == "" {
			s.renderLoginError(w, r, RouteLogin, "Usuario y contraseña son obligatorios", username)
			return
		}

		// Replacing an existing session - drop the old record first
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			if err := s.sessions.Clear(r.Context(), cookie.Value); err != nil {
				log.Err(err).Msg("Failed to clear previous session")
			}
		}

		sid := uuid.NewString()
		employee, err := s.auth.LoginEmployee(r.Context(), sid, username, password)
		if err != nil {
			if errs.Is(err, errs.ErrInvalidCredentials) {
				s.renderLoginError(w, r, RouteLogin, upstreamMessage(err, "Credenciales incorrectas"), username)
				return
			}
			s.renderLoginError(w, r, RouteLogin, "No se pudo iniciar sesión, intenta de nuevo", username)
			return
		}

		s.SetSessionCookie(w, r, sid, s.sessionCookieMaxAge())
		if employee.IsAdmin {
			redirectSuccess(w, r, RouteAdminHome)
			return
		}
		redirectSuccess(w, r, RouteStaffHome)
	}
}

// CustomerLoginPageUIHandler displays the customer login page (GET /login-cliente)
func (s *Server) CustomerLoginPageUIHandler() http.HandlerFunc {
	tmpl, err := ParsePage("layout_guest.html", "login_cliente.html")
	if err != nil {
		panic("Failed to parse customer login template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := s.currentSession(r); ok {
			http.Redirect(w, r, RouteAuthRedirect, http.StatusSeeOther)
			return
		}

		data := LoginPageData{
			AppName:  s.config.GetAppName(),
			Error:    r.URL.Query().Get("error"),
			Success:  r.URL.Query().Get("registered"),
			Username: r.URL.Query().Get("username"),
		}
		s.renderPage(w, tmpl, "layout_guest.html", data)
	}
}

// CustomerLoginSubmissionHandler processes the customer login form (POST /auth/login-cliente)
func (s *Server) CustomerLoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		usuario := r.FormValue("usuario")
		password := r.FormValue("password")
		if usuario == "" || password == "" {
			s.renderLoginError(w, r, RouteCustomerLogin, "Usuario y contraseña son obligatorios", usuario)
			return
		}

		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			if err := s.sessions.Clear(r.Context(), cookie.Value); err != nil {
				log.Err(err).Msg("Failed to clear previous session")
			}
		}

		sid := uuid.NewString()
		if _, err := s.auth.LoginCustomer(r.Context(), sid, usuario, password); err != nil {
			if errs.Is(err, errs.ErrInvalidCredentials) {
				s.renderLoginError(w, r, RouteCustomerLogin, upstreamMessage(err, "Credenciales incorrectas"), usuario)
				return
			}
			s.renderLoginError(w, r, RouteCustomerLogin, "No se pudo iniciar sesión, intenta de nuevo", usuario)
			return
		}

		s.SetSessionCookie(w, r, sid, s.sessionCookieMaxAge())
		redirectSuccess(w, r, RouteCustomerHome)
	}
}

// LogoutHandler clears the local session and returns to the home page (GET /logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err == nil && cookie.Value != "" {
			if err := s.auth.Logout(r.Context(), cookie.Value); err != nil {
				log.Err(err).Msg("Failed to clear session on logout")
			}
		}

		s.SetSessionCookie(w, r, "", -1) // Delete cookie
		redirectSuccess(w, r, RouteHome)
	}
}

// AuthRedirectHandler sends an authenticated user to the home page for their
// role: admins to the admin dashboard, other employees to the staff page and
// customers to the customer home. Guests end up on the public home page.
func (s *Server) AuthRedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _, ok := s.currentSession(r)
		if !ok {
			http.Redirect(w, r, RouteHome, http.StatusSeeOther)
			return
		}

		switch {
		case sess.Role == session.RoleCustomer:
			http.Redirect(w, r, RouteCustomerHome, http.StatusSeeOther)
		case sess.IsAdmin():
			http.Redirect(w, r, RouteAdminHome, http.StatusSeeOther)
		default:
			http.Redirect(w, r, RouteStaffHome, http.StatusSeeOther)
		}
	}
}

// renderLoginError redirects back to a login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, loginRoute, errorMsg, username string) {
	redirectURL := loginRoute + "?error=" + url.QueryEscape(errorMsg)
	if username != "" {
		redirectURL += "&username=" + url.QueryEscape(username)
	}
	redirectSuccess(w, r, redirectURL)
}

func (s *Server) sessionCookieMaxAge() int {
	return s.config.GetSessionTTLHours() * 3600
}
