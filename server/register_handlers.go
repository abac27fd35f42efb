package server

import (
	"net/http"
	"net/url"

	errs "restaurante-portal/internal/errors"
)

// RegisterPageData contains data for rendering the customer signup page
type RegisterPageData struct {
	AppName string
	Error   string
	Usuario string // Preserve form values on error
	Email   string
}

// RegisterPageUIHandler displays the customer signup page (GET /registro-cliente)
func (s *Server) RegisterPageUIHandler() http.HandlerFunc {
	tmpl, err := ParsePage("layout_guest.html", "registro_cliente.html")
	if err != nil {
		panic("Failed to parse register template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := s.currentSession(r); ok {
			http.Redirect(w, r, RouteAuthRedirect, http.StatusSeeOther)
			return
		}

		data := RegisterPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Usuario: r.URL.Query().Get("usuario"),
			Email:   r.URL.Query().Get("email"),
		}
		s.renderPage(w, tmpl, "layout_guest.html", data)
	}
}

// RegisterSubmissionHandler processes the customer signup form (POST /auth/registro-cliente).
// Registration never signs the customer in - on success they are sent to the
// login page to authenticate with their new credentials.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		usuario := r.FormValue("usuario")
		email := r.FormValue("email")
		password := r.FormValue("password")
		confirm := r.FormValue("password_confirm")

		if usuario == "" || email == "" || password == "" {
			s.renderRegisterError(w, r, "Todos los campos son obligatorios", usuario, email)
			return
		}
		if confirm != "" && confirm != password {
			s.renderRegisterError(w, r, "Las contraseñas no coinciden", usuario, email)
			return
		}

		if _, err := s.auth.RegisterCustomer(r.Context(), usuario, email, password); err != nil {
			if errs.Is(err, errs.ErrValidation) {
				s.renderRegisterError(w, r, upstreamMessage(err, "Error en el registro"), usuario, email)
				return
			}
			s.renderRegisterError(w, r, "No se pudo completar el registro, intenta de nuevo", usuario, email)
			return
		}

		redirectSuccess(w, r, RouteCustomerLogin+"?registered=1&username="+url.QueryEscape(usuario))
	}
}

func (s *Server) renderRegisterError(w http.ResponseWriter, r *http.Request, errorMsg, usuario, email string) {
	redirectURL := RouteRegister + "?error=" + url.QueryEscape(errorMsg)
	if usuario != "" {
		redirectURL += "&usuario=" + url.QueryEscape(usuario)
	}
	if email != "" {
		redirectURL += "&email=" + url.QueryEscape(email)
	}
	redirectSuccess(w, r, redirectURL)
}
