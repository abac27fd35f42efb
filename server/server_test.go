package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"restaurante-portal/auth"
	"restaurante-portal/internal/config"
	errs "restaurante-portal/internal/errors"
	"restaurante-portal/restapi"
	"restaurante-portal/server"
	"restaurante-portal/session"
)

const (
	sessionCookie = "portal_session_id"
	adminSID      = "11111111-1111-4111-8111-111111111111"
	waiterSID     = "22222222-2222-4222-8222-222222222222"
	customerSID   = "33333333-3333-4333-8333-333333333333"
)

// fakeAPI serves the upstream endpoints the portal pages rely on.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /productos/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"nombre":"Bandeja paisa","descripcion":"Plato típico","precio":"32000.00","categoria":"PLATO_PRINCIPAL","estado":"DISPONIBLE"}]`))
	})
	mux.HandleFunc("GET /promociones/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"nombre":"Combo almuerzo","descripcion":"","descuento":"15.00","productos":[1],"fecha_inicio":"2026-08-01","fecha_fin":"2026-12-31","estado":"ACTIVA"}]`))
	})
	mux.HandleFunc("POST /auth/token/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"access":"emp-access","refresh":"emp-refresh","user_id":1,"username":"admin","tipo_empleado":"ADM","is_admin":true}`))
	})
	mux.HandleFunc("POST /clientes/login/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"access":"cust-access","refresh":"cust-refresh","user_id":7,"usuario":"cliente1","email":"cliente1@example.com"}`))
	})
	mux.HandleFunc("POST /clientes/registro/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","message":"Cliente registrado exitosamente","data":{"id":8}}`))
	})

	return httptest.NewServer(mux)
}

type fixture struct {
	srv      *server.Server
	sessions session.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	upstream := fakeAPI(t)
	t.Cleanup(upstream.Close)

	sessions := session.NewInMemoryStore()
	api := restapi.New(upstream.URL, sessions)
	authService, err := auth.NewService(api, sessions, 24*time.Hour)
	require.NoError(t, err)

	srv, err := server.New(config.New(), api, authService, sessions)
	require.NoError(t, err)

	f := &fixture{srv: srv, sessions: sessions}
	f.seedSessions(t)
	return f
}

func (f *fixture) seedSessions(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	require.NoError(t, f.sessions.Set(ctx, adminSID, session.Session{
		Role:      session.RoleEmployee,
		Employee:  &session.EmployeeIdentity{ID: 1, Username: "admin", EmployeeKind: "ADM", IsAdmin: true},
		Tokens:    session.TokenPair{Access: "emp-access", Refresh: "emp-refresh"},
		ExpiresAt: expires,
	}))
	require.NoError(t, f.sessions.Set(ctx, waiterSID, session.Session{
		Role:      session.RoleEmployee,
		Employee:  &session.EmployeeIdentity{ID: 2, Username: "mesero1", EmployeeKind: "MES", IsAdmin: false},
		Tokens:    session.TokenPair{Access: "emp-access", Refresh: "emp-refresh"},
		ExpiresAt: expires,
	}))
	require.NoError(t, f.sessions.Set(ctx, customerSID, session.Session{
		Role:      session.RoleCustomer,
		Customer:  &session.CustomerIdentity{ID: 7, Username: "cliente1", Email: "cliente1@example.com"},
		Tokens:    session.TokenPair{Access: "cust-access", Refresh: "cust-refresh"},
		ExpiresAt: expires,
	}))
}

func (f *fixture) get(path, sid string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sid})
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func TestGuard_GuestRedirectedToRoleLogin(t *testing.T) {
	f := newFixture(t)

	t.Run("staff route goes to employee login", func(t *testing.T) {
		rec := f.get("/mesero", "")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("admin route goes to employee login", func(t *testing.T) {
		rec := f.get("/admin", "")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("customer route goes to customer login", func(t *testing.T) {
		rec := f.get("/customer-home", "")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login-cliente", rec.Header().Get("Location"))
	})
}

func TestGuard_WrongRoleRedirectedHome(t *testing.T) {
	f := newFixture(t)

	t.Run("customer on staff route", func(t *testing.T) {
		rec := f.get("/mesero", customerSID)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("employee on customer route", func(t *testing.T) {
		rec := f.get("/customer-home", adminSID)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
	})
}

func TestGuard_NonAdminBlockedFromAdminRoutes(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/admin", "/admin/productos/nuevo", "/admin/empleados/nuevo", "/promociones/nueva"} {
		rec := f.get(path, waiterSID)
		require.Equal(t, http.StatusSeeOther, rec.Code, path)
		require.Equal(t, "/", rec.Header().Get("Location"), path)
	}
}

func TestGuard_AuthorizedRoleRenders(t *testing.T) {
	f := newFixture(t)

	t.Run("admin sees the dashboard", func(t *testing.T) {
		rec := f.get("/admin", adminSID)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Bandeja paisa")
		require.Contains(t, rec.Body.String(), "Nuevo producto")
	})

	t.Run("waiter sees the product list without admin controls", func(t *testing.T) {
		rec := f.get("/mesero", waiterSID)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Bandeja paisa")
		require.NotContains(t, rec.Body.String(), "Nuevo producto")
	})

	t.Run("customer sees the menu", func(t *testing.T) {
		rec := f.get("/customer-home", customerSID)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Bandeja paisa")
		require.Contains(t, rec.Body.String(), "Combo almuerzo")
	})
}

func TestGuard_StaleCookieTreatedAsGuest(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/mesero", "no-such-session")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestHome_PublicMenuForGuests(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Bandeja paisa")
	require.Contains(t, rec.Body.String(), "Iniciar sesión")
}

func TestHome_UnknownPathIs404(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/no-such-page", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthRedirect_RoutesByRole(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		sid  string
		want string
	}{
		{"admin", adminSID, "/admin"},
		{"waiter", waiterSID, "/mesero"},
		{"customer", customerSID, "/customer-home"},
		{"guest", "", "/"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.get("/auth-redirect", tc.sid)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			require.Equal(t, tc.want, rec.Header().Get("Location"))
		})
	}
}

func TestLogin_SubmissionEstablishesSession(t *testing.T) {
	f := newFixture(t)

	form := "username=admin&password=adminpass"
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin", rec.Header().Get("Location"))

	var sid string
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid, "login must set the session cookie")

	sess, err := f.sessions.Get(context.Background(), sid)
	require.NoError(t, err)
	require.Equal(t, session.RoleEmployee, sess.Role)
	require.True(t, sess.IsAdmin())
}

func TestLogout_ClearsSessionAndCookie(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/logout", adminSID)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	// Session record is gone
	_, err := f.sessions.Get(context.Background(), adminSID)
	require.ErrorIs(t, err, errs.ErrSessionNotFound)

	// Cookie is deleted
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared, "logout must drop the session cookie")
}

func TestRegister_RedirectsToCustomerLogin(t *testing.T) {
	f := newFixture(t)

	form := "usuario=nuevo&email=nuevo%40example.com&password=secret123&password_confirm=secret123"
	req := httptest.NewRequest(http.MethodPost, "/auth/registro-cliente", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	require.Contains(t, location, "/login-cliente")
	require.Contains(t, location, "registered=1")

	// No session was created by registration
	for _, c := range rec.Result().Cookies() {
		require.NotEqual(t, sessionCookie, c.Name)
	}
}

func TestStatic_CSSIsServed(t *testing.T) {
	f := newFixture(t)

	rec := f.get("/css/portal.css", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "navbar")
}
