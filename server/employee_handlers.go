package server

import (
	"net/http"
	"net/url"

	"restaurante-portal/restapi"
	"restaurante-portal/session"
)

// EmployeeFormPageData contains data for the new-employee form
type EmployeeFormPageData struct {
	AppName  string
	Username string
	IsAdmin  bool
	Error    string
	Success  string
}

// EmployeeFormHandler renders the new-employee form (GET /admin/empleados/nuevo)
func (s *Server) EmployeeFormHandler() http.HandlerFunc {
	tmpl, err := ParsePage("layout_staff.html", "empleado_form.html")
	if err != nil {
		panic("Failed to parse employee form template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())

		data := EmployeeFormPageData{
			AppName:  s.config.GetAppName(),
			Username: sess.Username(),
			IsAdmin:  sess.IsAdmin(),
			Error:    r.URL.Query().Get("error"),
			Success:  r.URL.Query().Get("success"),
		}
		s.renderPage(w, tmpl, "layout_staff.html", data)
	}
}

// EmployeeCreateHandler registers a new staff member upstream
// (POST /admin/empleados/nuevo)
func (s *Server) EmployeeCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionIDFromContext(r.Context())

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		empleado := restapi.NuevoEmpleado{
			Username:     r.FormValue("username"),
			Email:        r.FormValue("email"),
			TipoEmpleado: r.FormValue("tipo_empleado"),
			Password:     r.FormValue("password"),
		}
		if empleado.Username == "" || empleado.Password == "" {
			redirectWithError(w, r, RouteEmployeeNew, "Usuario y contraseña son obligatorios")
			return
		}
		if empleado.TipoEmpleado != restapi.EmpleadoAdmin && empleado.TipoEmpleado != restapi.EmpleadoMesero {
			redirectWithError(w, r, RouteEmployeeNew, "Tipo de empleado inválido")
			return
		}

		if _, err := s.api.CreateEmpleado(r.Context(), sid, empleado); err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			redirectWithError(w, r, RouteEmployeeNew, upstreamMessage(err, "No se pudo crear el empleado"))
			return
		}

		redirectSuccess(w, r, RouteEmployeeNew+"?success="+url.QueryEscape("Empleado creado"))
	}
}
