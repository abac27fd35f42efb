package server

import (
	"net/http"
	"net/url"
	"strconv"

	"restaurante-portal/restapi"
	"restaurante-portal/session"
)

// PromotionListPageData contains data for the promotion dashboard
type PromotionListPageData struct {
	AppName     string
	Username    string
	IsAdmin     bool
	Error       string
	Success     string
	Promociones []restapi.Promocion
}

// PromotionFormPageData contains data for the promotion create/edit form
type PromotionFormPageData struct {
	AppName   string
	Username  string
	IsAdmin   bool
	Error     string
	Editing   bool
	Promocion restapi.Promocion
	Productos []restapi.Producto // Selectable products
}

// PromotionListHandler renders the promotion dashboard (GET /promociones)
func (s *Server) PromotionListHandler() http.HandlerFunc {
	tmpl, err := ParsePage("layout_staff.html", "promociones.html")
	if err != nil {
		panic("Failed to parse promotion list template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())
		sid := SessionIDFromContext(r.Context())

		data := PromotionListPageData{
			AppName:  s.config.GetAppName(),
			Username: sess.Username(),
			IsAdmin:  sess.IsAdmin(),
			Error:    r.URL.Query().Get("error"),
			Success:  r.URL.Query().Get("success"),
		}

		promociones, err := s.api.ListPromociones(r.Context(), sid)
		if err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			data.Error = "No se pudo cargar las promociones"
			s.renderPage(w, tmpl, "layout_staff.html", data)
			return
		}

		data.Promociones = promociones
		s.renderPage(w, tmpl, "layout_staff.html", data)
	}
}

// PromotionFormHandler renders the create or edit form (GET /promociones/...)
func (s *Server) PromotionFormHandler() http.HandlerFunc {
	tmpl, err := ParsePage("layout_staff.html", "promocion_form.html")
	if err != nil {
		panic("Failed to parse promotion form template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())
		sid := SessionIDFromContext(r.Context())

		data := PromotionFormPageData{
			AppName:  s.config.GetAppName(),
			Username: sess.Username(),
			IsAdmin:  sess.IsAdmin(),
			Error:    r.URL.Query().Get("error"),
		}

		productos, err := s.api.ListProductos(r.Context(), sid)
		if err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			redirectWithError(w, r, RoutePromotions, "No se pudo cargar los productos")
			return
		}
		data.Productos = productos

		if rawID := r.PathValue("id"); rawID != "" {
			id, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				http.Error(w, "Invalid promotion ID", http.StatusBadRequest)
				return
			}
			promocion, err := s.api.GetPromocion(r.Context(), sid, id)
			if err != nil {
				if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
					return
				}
				redirectWithError(w, r, RoutePromotions, "Promoción no encontrada")
				return
			}
			data.Editing = true
			data.Promocion = promocion
		}

		s.renderPage(w, tmpl, "layout_staff.html", data)
	}
}

// PromotionCreateHandler processes the new-promotion form (POST /promociones/nueva)
func (s *Server) PromotionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionIDFromContext(r.Context())

		promocion, formErr := promocionFromForm(r)
		if formErr != "" {
			redirectWithError(w, r, RoutePromotionNew, formErr)
			return
		}

		if _, err := s.api.CreatePromocion(r.Context(), sid, promocion); err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			redirectWithError(w, r, RoutePromotionNew, upstreamMessage(err, "No se pudo crear la promoción"))
			return
		}

		redirectSuccess(w, r, RoutePromotions+"?success="+url.QueryEscape("Promoción creada"))
	}
}

// PromotionUpdateHandler processes the edit form (POST /promociones/editar/{id})
func (s *Server) PromotionUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionIDFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid promotion ID", http.StatusBadRequest)
			return
		}

		editRoute := "/promociones/editar/" + strconv.FormatInt(id, 10)
		promocion, formErr := promocionFromForm(r)
		if formErr != "" {
			redirectWithError(w, r, editRoute, formErr)
			return
		}

		if _, err := s.api.UpdatePromocion(r.Context(), sid, id, promocion); err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			redirectWithError(w, r, editRoute, upstreamMessage(err, "No se pudo actualizar la promoción"))
			return
		}

		redirectSuccess(w, r, RoutePromotions+"?success="+url.QueryEscape("Promoción actualizada"))
	}
}

// PromotionDeleteHandler removes a promotion (POST /promociones/eliminar/{id})
func (s *Server) PromotionDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionIDFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid promotion ID", http.StatusBadRequest)
			return
		}

		if err := s.api.DeletePromocion(r.Context(), sid, id); err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			redirectWithError(w, r, RoutePromotions, "No se pudo eliminar la promoción")
			return
		}

		redirectSuccess(w, r, RoutePromotions+"?success="+url.QueryEscape("Promoción eliminada"))
	}
}

// promocionFromForm builds a promotion from form values. The productos field
// arrives as repeated checkbox values.
func promocionFromForm(r *http.Request) (restapi.Promocion, string) {
	if err := r.ParseForm(); err != nil {
		return restapi.Promocion{}, "Formulario inválido"
	}

	promocion := restapi.Promocion{
		Nombre:      r.FormValue("nombre"),
		Descripcion: r.FormValue("descripcion"),
		Descuento:   r.FormValue("descuento"),
		FechaInicio: r.FormValue("fecha_inicio"),
		FechaFin:    r.FormValue("fecha_fin"),
		Estado:      r.FormValue("estado"),
	}
	for _, raw := range r.Form["productos"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return restapi.Promocion{}, "Producto inválido en la selección"
		}
		promocion.Productos = append(promocion.Productos, id)
	}

	if promocion.Nombre == "" || promocion.Descuento == "" {
		return restapi.Promocion{}, "Nombre y descuento son obligatorios"
	}
	if promocion.FechaInicio == "" || promocion.FechaFin == "" {
		return restapi.Promocion{}, "Las fechas de inicio y fin son obligatorias"
	}
	if len(promocion.Productos) == 0 {
		return restapi.Promocion{}, "Selecciona al menos un producto"
	}
	return promocion, ""
}
