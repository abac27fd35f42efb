package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"restaurante-portal/auth"
	errs "restaurante-portal/internal/errors"
	"restaurante-portal/restapi"
	"restaurante-portal/session"
)

const (
	testSID      = "b4d16b27-4e4f-4d9b-8f5c-6a7e8d9c0b1a"
	adminUser    = "admin"
	adminPass    = "adminpass"
	customerUser = "cliente1"
	customerPass = "clientepass"
)

// fakeUpstream mimics the restaurant API's auth endpoints.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/token/", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))

		if creds["username"] != adminUser || creds["password"] != adminPass {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access":"emp-access","refresh":"emp-refresh","user_id":1,"username":"admin","tipo_empleado":"ADM","is_admin":true}`))
	})

	mux.HandleFunc("POST /clientes/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))

		if creds["usuario"] != customerUser || creds["password"] != customerPass {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Credenciales incorrectas"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access":"cust-access","refresh":"cust-refresh","user_id":7,"usuario":"cliente1","email":"cliente1@example.com"}`))
	})

	mux.HandleFunc("POST /clientes/registro/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if body["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"email":["cliente with this email already exists."]}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"success","message":"Cliente registrado exitosamente","data":{"id":8}}`))
	})

	return httptest.NewServer(mux)
}

func newService(t *testing.T, upstreamURL string) (*auth.Service, session.Store) {
	t.Helper()
	store := session.NewInMemoryStore()
	api := restapi.New(upstreamURL, store)
	svc, err := auth.NewService(api, store, 24*time.Hour)
	require.NoError(t, err)
	return svc, store
}

func TestService_LoginEmployee(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	svc, store := newService(t, upstream.URL)
	ctx := context.Background()

	identity, err := svc.LoginEmployee(ctx, testSID, adminUser, adminPass)
	require.NoError(t, err)
	require.Equal(t, int64(1), identity.ID)
	require.Equal(t, "admin", identity.Username)
	require.Equal(t, "ADM", identity.EmployeeKind)
	require.True(t, identity.IsAdmin)

	sess, err := store.Get(ctx, testSID)
	require.NoError(t, err)
	require.Equal(t, session.RoleEmployee, sess.Role)
	require.Equal(t, "emp-access", sess.Tokens.Access)
	require.Equal(t, "emp-refresh", sess.Tokens.Refresh)
	require.False(t, sess.ExpiresAt.IsZero())
}

func TestService_LoginEmployeeBadCredentials(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	svc, store := newService(t, upstream.URL)
	ctx := context.Background()

	_, err := svc.LoginEmployee(ctx, testSID, adminUser, "wrong")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	var authErr *errs.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "No active account found with the given credentials", authErr.Message())

	// Failed login leaves no session behind
	_, err = store.Get(ctx, testSID)
	require.ErrorIs(t, err, errs.ErrSessionNotFound)
}

func TestService_LoginEmployeeMissingFields(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	svc, _ := newService(t, upstream.URL)

	_, err := svc.LoginEmployee(context.Background(), testSID, "", adminPass)
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = svc.LoginEmployee(context.Background(), testSID, adminUser, "")
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestService_LoginCustomer(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	svc, store := newService(t, upstream.URL)
	ctx := context.Background()

	identity, err := svc.LoginCustomer(ctx, testSID, customerUser, customerPass)
	require.NoError(t, err)
	require.Equal(t, int64(7), identity.ID)
	require.Equal(t, "cliente1", identity.Username)
	require.Equal(t, "cliente1@example.com", identity.Email)

	sess, err := store.Get(ctx, testSID)
	require.NoError(t, err)
	require.Equal(t, session.RoleCustomer, sess.Role)
	require.False(t, sess.IsAdmin())
	require.Equal(t, "cust-access", sess.Tokens.Access)
}

func TestService_RegisterCustomer(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	svc, store := newService(t, upstream.URL)
	ctx := context.Background()

	resp, err := svc.RegisterCustomer(ctx, "nuevo", "nuevo@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "success", resp.Status)
	require.Equal(t, "Cliente registrado exitosamente", resp.Message)

	// Registration never signs the customer in
	_, err = store.Get(ctx, testSID)
	require.ErrorIs(t, err, errs.ErrSessionNotFound)
}

func TestService_RegisterCustomerDuplicateEmail(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	svc, _ := newService(t, upstream.URL)

	_, err := svc.RegisterCustomer(context.Background(), "nuevo", "taken@example.com", "secret123")
	require.ErrorIs(t, err, errs.ErrValidation)

	var authErr *errs.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "email: cliente with this email already exists.", authErr.Message())
}

func TestService_RegisterCustomerMissingFields(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	svc, _ := newService(t, upstream.URL)

	_, err := svc.RegisterCustomer(context.Background(), "", "a@example.com", "secret")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestService_Logout(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	svc, store := newService(t, upstream.URL)
	ctx := context.Background()

	_, err := svc.LoginEmployee(ctx, testSID, adminUser, adminPass)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, testSID))

	_, err = store.Get(ctx, testSID)
	require.ErrorIs(t, err, errs.ErrSessionNotFound)

	// Logging out twice is harmless
	require.NoError(t, svc.Logout(ctx, testSID))
}

func TestService_LegacyLoginDelegatesToEmployee(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()
	svc, store := newService(t, upstream.URL)
	ctx := context.Background()

	identity, err := svc.Login(ctx, testSID, adminUser, adminPass)
	require.NoError(t, err)
	require.True(t, identity.IsAdmin)

	sess, err := store.Get(ctx, testSID)
	require.NoError(t, err)
	require.Equal(t, session.RoleEmployee, sess.Role)
}

func TestService_SessionExpiryFromRefreshToken(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	store := session.NewInMemoryStore()
	api := restapi.New(upstream.URL, store)
	now := time.Now().UTC().Truncate(time.Second)
	svc, err := auth.NewService(api, store, 6*time.Hour, auth.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	// The fake upstream issues opaque refresh tokens, so expiry falls back
	// to now + TTL
	_, err = svc.LoginEmployee(context.Background(), testSID, adminUser, adminPass)
	require.NoError(t, err)

	sess, err := store.Get(context.Background(), testSID)
	require.NoError(t, err)
	require.True(t, sess.ExpiresAt.Equal(now.Add(6*time.Hour)))
}
