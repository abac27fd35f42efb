package server

import (
	"net/http"

	"restaurante-portal/restapi"
	"restaurante-portal/session"

	"github.com/rs/zerolog/log"
)

// MenuPageData contains data for rendering the public menu
type MenuPageData struct {
	AppName     string
	Username    string
	Error       string
	Productos   []restapi.Producto
	Promociones []restapi.Promocion
	Categoria   string // Active category filter
	Categorias  []string
}

// IndexHandler renders the public home page with the menu. Guests see the
// guest chrome; signed-in customers get their own navigation.
func (s *Server) IndexHandler() http.HandlerFunc {
	guestTmpl, err := ParsePage("layout_guest.html", "menu.html")
	if err != nil {
		panic("Failed to parse guest menu template: " + err.Error())
	}
	customerTmpl, err := ParsePage("layout_customer.html", "menu.html")
	if err != nil {
		panic("Failed to parse customer menu template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		// "GET /" is the mux fallback, keep it to the real home page
		if r.URL.Path != RouteHome {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}

		sess, sid, ok := s.currentSession(r)
		if ok && sess.Role == session.RoleEmployee {
			http.Redirect(w, r, RouteAuthRedirect, http.StatusSeeOther)
			return
		}
		if !ok {
			sid = "" // Browse as guest
		}

		data := s.menuPageData(r, sid)
		data.Username = sess.Username()

		if ok && sess.Role == session.RoleCustomer {
			s.renderPage(w, customerTmpl, "layout_customer.html", data)
			return
		}
		s.renderPage(w, guestTmpl, "layout_guest.html", data)
	}
}

// CustomerHomeHandler renders the customer landing page (GET /customer-home)
func (s *Server) CustomerHomeHandler() http.HandlerFunc {
	tmpl, err := ParsePage("layout_customer.html", "menu.html")
	if err != nil {
		panic("Failed to parse customer home template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess, _ := SessionFromContext(r.Context())
		sid := SessionIDFromContext(r.Context())

		data := s.menuPageData(r, sid)
		data.Username = sess.Username()
		s.renderPage(w, tmpl, "layout_customer.html", data)
	}
}

// menuPageData loads the menu and active promotions, filtered by the
// optional categoria query parameter. Load failures degrade to an empty
// menu with an error banner rather than a 500.
func (s *Server) menuPageData(r *http.Request, sid string) MenuPageData {
	data := MenuPageData{
		AppName:    s.config.GetAppName(),
		Categoria:  r.URL.Query().Get("categoria"),
		Categorias: restapi.Categorias(),
	}

	productos, err := s.api.ListProductos(r.Context(), sid)
	if err != nil {
		log.Err(err).Msg("Failed to load products for menu")
		data.Error = "No se pudo cargar el menú"
		return data
	}
	data.Productos = filterProductos(productos, data.Categoria)

	promociones, err := s.api.ListPromociones(r.Context(), sid)
	if err != nil {
		log.Err(err).Msg("Failed to load promotions for menu")
		return data
	}
	for _, p := range promociones {
		if p.Estado == restapi.PromocionActiva {
			data.Promociones = append(data.Promociones, p)
		}
	}
	return data
}

func filterProductos(productos []restapi.Producto, categoria string) []restapi.Producto {
	if categoria == "" {
		return productos
	}
	filtered := make([]restapi.Producto, 0, len(productos))
	for _, p := range productos {
		if p.Categoria == categoria {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
