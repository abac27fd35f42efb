package session_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	errs "restaurante-portal/internal/errors"
	"restaurante-portal/session"
)

const (
	testSID      = "0b2f9c3a-5f04-4a8c-9d0e-1f2a3b4c5d6e"
	testAccess   = "access-token-1"
	testRefresh  = "refresh-token-1"
	testUsername = "admin"
)

func employeeSession() session.Session {
	return session.Session{
		Role: session.RoleEmployee,
		Employee: &session.EmployeeIdentity{
			ID:           1,
			Username:     testUsername,
			EmployeeKind: "ADM",
			IsAdmin:      true,
		},
		Tokens:    session.TokenPair{Access: testAccess, Refresh: testRefresh},
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
}

func customerSession() session.Session {
	return session.Session{
		Role: session.RoleCustomer,
		Customer: &session.CustomerIdentity{
			ID:       7,
			Username: "cliente1",
			Email:    "cliente1@example.com",
		},
		Tokens:    session.TokenPair{Access: "cust-access", Refresh: "cust-refresh"},
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
}

func newRedisBackend(t *testing.T) session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return session.NewRedisStore(client, time.Hour)
}

func newFileBackend(t *testing.T) session.Store {
	t.Helper()
	store, err := session.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func backends(t *testing.T) map[string]session.Store {
	t.Helper()
	return map[string]session.Store{
		"memory": session.NewInMemoryStore(),
		"file":   newFileBackend(t),
		"redis":  newRedisBackend(t),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := employeeSession()
			require.NoError(t, store.Set(ctx, testSID, want))

			got, err := store.Get(ctx, testSID)
			require.NoError(t, err)
			require.Equal(t, session.RoleEmployee, got.Role)
			require.NotNil(t, got.Employee)
			require.Equal(t, testUsername, got.Employee.Username)
			require.True(t, got.IsAdmin())
			require.Equal(t, testAccess, got.Tokens.Access)
			require.Equal(t, testRefresh, got.Tokens.Refresh)
			require.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
		})
	}
}

func TestStore_CustomerRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, testSID, customerSession()))

			got, err := store.Get(ctx, testSID)
			require.NoError(t, err)
			require.Equal(t, session.RoleCustomer, got.Role)
			require.NotNil(t, got.Customer)
			require.Equal(t, "cliente1", got.Username())
			require.False(t, got.IsAdmin())
			require.Equal(t, "cust-access", got.Tokens.Access)
		})
	}
}

func TestStore_RoleSwitchReplacesRecord(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, testSID, employeeSession()))
			require.NoError(t, store.Set(ctx, testSID, customerSession()))

			got, err := store.Get(ctx, testSID)
			require.NoError(t, err)
			require.Equal(t, session.RoleCustomer, got.Role)
			require.Equal(t, "cust-access", got.Tokens.Access)
			require.Equal(t, "cust-refresh", got.Tokens.Refresh)
		})
	}
}

func TestStore_SetAccessToken(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, testSID, employeeSession()))
			require.NoError(t, store.SetAccessToken(ctx, testSID, session.RoleEmployee, "access-token-2"))

			got, err := store.Get(ctx, testSID)
			require.NoError(t, err)
			require.Equal(t, "access-token-2", got.Tokens.Access)
			require.Equal(t, testRefresh, got.Tokens.Refresh, "refresh token must survive an access refresh")
		})
	}
}

func TestStore_SetAccessTokenUnknownSession(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := store.SetAccessToken(ctx, "no-such-session", session.RoleEmployee, "whatever")
			require.ErrorIs(t, err, errs.ErrSessionNotFound)
		})
	}
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, testSID, employeeSession()))
			require.NoError(t, store.Clear(ctx, testSID))

			_, err := store.Get(ctx, testSID)
			require.ErrorIs(t, err, errs.ErrSessionNotFound)

			// Clearing an already-empty session is not an error
			require.NoError(t, store.Clear(ctx, testSID))
		})
	}
}

func TestStore_GetUnknownSession(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "no-such-session")
			require.ErrorIs(t, err, errs.ErrSessionNotFound)

			_, err = store.Get(ctx, "")
			require.ErrorIs(t, err, errs.ErrSessionNotFound)
		})
	}
}

func TestStore_ExpiredSessionIsGone(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sess := employeeSession()
			sess.ExpiresAt = time.Now().Add(-time.Minute)
			require.NoError(t, store.Set(ctx, testSID, sess))

			_, err := store.Get(ctx, testSID)
			require.ErrorIs(t, err, errs.ErrSessionNotFound)
		})
	}
}

func TestInMemoryStore_ConcurrentGetAndTokenRefresh(t *testing.T) {
	ctx := context.Background()
	store := session.NewInMemoryStore()
	require.NoError(t, store.Set(ctx, testSID, employeeSession()))

	// One request hydrating the session while another persists a refreshed
	// access token for the same sid, as the client adapter does on a 401.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			err := store.SetAccessToken(ctx, testSID, session.RoleEmployee, "access-"+strconv.Itoa(i))
			require.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			got, err := store.Get(ctx, testSID)
			require.NoError(t, err)
			require.Equal(t, testRefresh, got.Tokens.Refresh)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, testSID)
	require.NoError(t, err)
	require.NotEmpty(t, got.Tokens.Access)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := session.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, testSID, employeeSession()))

	// A fresh store over the same folder hydrates the same session
	second, err := session.NewFileStore(dir)
	require.NoError(t, err)

	got, err := second.Get(ctx, testSID)
	require.NoError(t, err)
	require.Equal(t, testUsername, got.Username())
	require.Equal(t, testAccess, got.Tokens.Access)
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	ctx := context.Background()

	store, err := session.NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Set(ctx, "../escape", employeeSession())
	require.Error(t, err)
}

func TestRedisStore_LegacyUnprefixedKeys(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := session.NewRedisStore(client, time.Hour)

	// A record written by the old scheme: role-less token keys
	mr.HSet("session:"+testSID,
		"userType", "employee",
		"user", `{"id":1,"username":"admin","tipo_empleado":"ADM","is_admin":true}`,
		"access_token", "legacy-access",
		"refresh_token", "legacy-refresh",
	)

	got, err := store.Get(ctx, testSID)
	require.NoError(t, err)
	require.Equal(t, "legacy-access", got.Tokens.Access)
	require.Equal(t, "legacy-refresh", got.Tokens.Refresh)
	require.True(t, got.IsAdmin())
}
