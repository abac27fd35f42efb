package server

import (
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	// Public pages
	s.RegisterRouteHandler("GET "+RouteHome, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthRedirect, ChainMiddleware(s.AuthRedirectHandler(), s.HTMLMiddleWare()...))

	// LOGIN - employees
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, s.loginLimiter(ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...)))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// LOGIN & SIGNUP - customers
	s.RegisterRouteHandler("GET "+RouteCustomerLogin, ChainMiddleware(s.CustomerLoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthCustomerLogin, s.loginLimiter(ChainMiddleware(s.CustomerLoginSubmissionHandler(), s.HTMLMiddleWare()...)))
	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(s.RegisterPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthRegister, s.loginLimiter(ChainMiddleware(s.RegisterSubmissionHandler(), s.HTMLMiddleWare()...)))

	// Role home pages
	s.RegisterRouteHandler("GET "+RouteStaffHome, ChainMiddleware(s.ProductListHandler(), s.HTMLMiddleWare(s.RequireEmployee(false))...))
	s.RegisterRouteHandler("GET "+RouteAdminHome, ChainMiddleware(s.ProductListHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))
	s.RegisterRouteHandler("GET "+RouteCustomerHome, ChainMiddleware(s.CustomerHomeHandler(), s.HTMLMiddleWare(s.RequireCustomer())...))

	// Product management
	s.RegisterRouteHandler("POST "+RouteProductToggle, ChainMiddleware(s.ProductToggleHandler(), s.HTMLMiddleWare(s.RequireEmployee(false))...))
	s.RegisterRouteHandler("GET "+RouteProductNew, ChainMiddleware(s.ProductFormHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))
	s.RegisterRouteHandler("POST "+RouteProductNew, ChainMiddleware(s.ProductCreateHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))
	s.RegisterRouteHandler("GET "+RouteProductEdit, ChainMiddleware(s.ProductFormHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))
	s.RegisterRouteHandler("POST "+RouteProductEdit, ChainMiddleware(s.ProductUpdateHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))
	s.RegisterRouteHandler("POST "+RouteProductDelete, ChainMiddleware(s.ProductDeleteHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))

	// Promotion management
	s.RegisterRouteHandler("GET "+RoutePromotions, ChainMiddleware(s.PromotionListHandler(), s.HTMLMiddleWare(s.RequireEmployee(false))...))
	s.RegisterRouteHandler("GET "+RoutePromotionNew, ChainMiddleware(s.PromotionFormHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))
	s.RegisterRouteHandler("POST "+RoutePromotionNew, ChainMiddleware(s.PromotionCreateHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))
	s.RegisterRouteHandler("GET "+RoutePromotionEdit, ChainMiddleware(s.PromotionFormHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))
	s.RegisterRouteHandler("POST "+RoutePromotionEdit, ChainMiddleware(s.PromotionUpdateHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))
	s.RegisterRouteHandler("POST "+RoutePromotionDelete, ChainMiddleware(s.PromotionDeleteHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))

	// Employee management
	s.RegisterRouteHandler("GET "+RouteEmployeeNew, ChainMiddleware(s.EmployeeFormHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))
	s.RegisterRouteHandler("POST "+RouteEmployeeNew, ChainMiddleware(s.EmployeeCreateHandler(), s.HTMLMiddleWare(s.RequireEmployee(true))...))

	// Static assets
	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		s.fileServer.ServeHTTP(w, r)
	}
}
