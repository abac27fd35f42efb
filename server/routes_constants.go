package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public pages
	RouteHome         = "/"
	RouteAuthRedirect = "/auth-redirect"

	// Auth Routes - Employee login
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/logout"

	// Auth Routes - Customer login & registration
	RouteCustomerLogin     = "/login-cliente"
	RouteAuthCustomerLogin = "/auth/login-cliente"
	RouteRegister          = "/registro-cliente"
	RouteAuthRegister      = "/auth/registro-cliente"

	// Role home pages
	RouteStaffHome    = "/mesero"
	RouteAdminHome    = "/admin"
	RouteCustomerHome = "/customer-home"

	// Product management (admin)
	RouteProductNew    = "/admin/productos/nuevo"
	RouteProductEdit   = "/admin/productos/editar/{id}"
	RouteProductDelete = "/admin/productos/eliminar/{id}"
	RouteProductToggle = "/productos/{id}/toggle"

	// Promotion management
	RoutePromotions      = "/promociones"
	RoutePromotionNew    = "/promociones/nueva"
	RoutePromotionEdit   = "/promociones/editar/{id}"
	RoutePromotionDelete = "/promociones/eliminar/{id}"

	// Employee management (admin)
	RouteEmployeeNew = "/admin/empleados/nuevo"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
