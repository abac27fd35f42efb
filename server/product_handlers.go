package server

import (
	"net/http"
	"net/url"
	"strconv"

	"restaurante-portal/restapi"
	"restaurante-portal/session"
)

// ProductListPageData contains data for rendering the staff product list
type ProductListPageData struct {
	AppName    string
	Username   string
	IsAdmin    bool
	Error      string
	Success    string
	Productos  []restapi.Producto
	Categoria  string
	Categorias []string
}

// ProductFormPageData contains data for the product create/edit form
type ProductFormPageData struct {
	AppName    string
	Username   string
	IsAdmin    bool
	Error      string
	Editing    bool
	Producto   restapi.Producto
	Categorias []string
}

// ProductListHandler renders the product dashboard for staff. Admins and
// waiters share the page; the template shows management controls only to
// admins.
func (s *Server) ProductListHandler() http.HandlerFunc {
	tmpl, err := ParsePage("layout_staff.html", "productos.html")
	if err != nil {
		panic("Failed to parse product list template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())
		sid := SessionIDFromContext(r.Context())

		data := ProductListPageData{
			AppName:    s.config.GetAppName(),
			Username:   sess.Username(),
			IsAdmin:    sess.IsAdmin(),
			Error:      r.URL.Query().Get("error"),
			Success:    r.URL.Query().Get("success"),
			Categoria:  r.URL.Query().Get("categoria"),
			Categorias: restapi.Categorias(),
		}

		productos, err := s.api.ListProductos(r.Context(), sid)
		if err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			data.Error = "No se pudo cargar los productos"
			s.renderPage(w, tmpl, "layout_staff.html", data)
			return
		}

		data.Productos = filterProductos(productos, data.Categoria)
		s.renderPage(w, tmpl, "layout_staff.html", data)
	}
}

// ProductToggleHandler flips a product's availability (POST /productos/{id}/toggle).
// Any employee can use it, matching the waiter's out-of-stock workflow.
func (s *Server) ProductToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())
		sid := SessionIDFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid product ID", http.StatusBadRequest)
			return
		}

		backRoute := RouteStaffHome
		if sess.IsAdmin() {
			backRoute = RouteAdminHome
		}
		if categoria := r.FormValue("categoria"); categoria != "" {
			backRoute += "?categoria=" + url.QueryEscape(categoria)
		}

		if _, err := s.api.ToggleProductoEstado(r.Context(), sid, id); err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			redirectWithError(w, r, backRoute, "No se pudo cambiar el estado del producto")
			return
		}

		redirectSuccess(w, r, backRoute)
	}
}

// ProductFormHandler renders the create or edit form (GET /admin/productos/...)
func (s *Server) ProductFormHandler() http.HandlerFunc {
	tmpl, err := ParsePage("layout_staff.html", "producto_form.html")
	if err != nil {
		panic("Failed to parse product form template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())
		sid := SessionIDFromContext(r.Context())

		data := ProductFormPageData{
			AppName:    s.config.GetAppName(),
			Username:   sess.Username(),
			IsAdmin:    sess.IsAdmin(),
			Error:      r.URL.Query().Get("error"),
			Categorias: restapi.Categorias(),
		}

		if rawID := r.PathValue("id"); rawID != "" {
			id, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				http.Error(w, "Invalid product ID", http.StatusBadRequest)
				return
			}
			producto, err := s.api.GetProducto(r.Context(), sid, id)
			if err != nil {
				if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
					return
				}
				redirectWithError(w, r, RouteAdminHome, "Producto no encontrado")
				return
			}
			data.Editing = true
			data.Producto = producto
		}

		s.renderPage(w, tmpl, "layout_staff.html", data)
	}
}

// ProductCreateHandler processes the new-product form (POST /admin/productos/nuevo)
func (s *Server) ProductCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionIDFromContext(r.Context())

		producto, formErr := productoFromForm(r)
		if formErr != "" {
			redirectWithError(w, r, RouteProductNew, formErr)
			return
		}

		if _, err := s.api.CreateProducto(r.Context(), sid, producto); err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			redirectWithError(w, r, RouteProductNew, upstreamMessage(err, "No se pudo crear el producto"))
			return
		}

		redirectSuccess(w, r, RouteAdminHome+"?success="+url.QueryEscape("Producto creado"))
	}
}

// ProductUpdateHandler processes the edit form (POST /admin/productos/editar/{id})
func (s *Server) ProductUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionIDFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid product ID", http.StatusBadRequest)
			return
		}

		editRoute := "/admin/productos/editar/" + strconv.FormatInt(id, 10)
		producto, formErr := productoFromForm(r)
		if formErr != "" {
			redirectWithError(w, r, editRoute, formErr)
			return
		}

		if _, err := s.api.UpdateProducto(r.Context(), sid, id, producto); err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			redirectWithError(w, r, editRoute, upstreamMessage(err, "No se pudo actualizar el producto"))
			return
		}

		redirectSuccess(w, r, RouteAdminHome+"?success="+url.QueryEscape("Producto actualizado"))
	}
}

// ProductDeleteHandler removes a product (POST /admin/productos/eliminar/{id})
func (s *Server) ProductDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := SessionIDFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid product ID", http.StatusBadRequest)
			return
		}

		if err := s.api.DeleteProducto(r.Context(), sid, id); err != nil {
			if s.handleExpiredSession(w, r, err, session.RoleEmployee) {
				return
			}
			redirectWithError(w, r, RouteAdminHome, "No se pudo eliminar el producto")
			return
		}

		redirectSuccess(w, r, RouteAdminHome+"?success="+url.QueryEscape("Producto eliminado"))
	}
}

// productoFromForm builds a product from form values, returning a user-facing
// error message when required fields are missing.
func productoFromForm(r *http.Request) (restapi.Producto, string) {
	if err := r.ParseForm(); err != nil {
		return restapi.Producto{}, "Formulario inválido"
	}

	producto := restapi.Producto{
		Nombre:      r.FormValue("nombre"),
		Descripcion: r.FormValue("descripcion"),
		Precio:      r.FormValue("precio"),
		Categoria:   r.FormValue("categoria"),
		Estado:      r.FormValue("estado"),
	}
	if producto.Nombre == "" || producto.Precio == "" || producto.Categoria == "" {
		return restapi.Producto{}, "Nombre, precio y categoría son obligatorios"
	}
	if _, err := strconv.ParseFloat(producto.Precio, 64); err != nil {
		return restapi.Producto{}, "El precio debe ser un número"
	}
	return producto, ""
}
