// Package auth implements the credentialed flows against the upstream API:
// employee login, customer login, customer registration and logout. Each
// successful login durably establishes exactly one session: identity,
// role tag and token pair written together.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	errs "restaurante-portal/internal/errors"
	"restaurante-portal/restapi"
	"restaurante-portal/session"
)

type Service struct {
	api        *restapi.Client
	sessions   session.Store
	sessionTTL time.Duration
	nowTime    func() time.Time
}

type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(api *restapi.Client, sessions session.Store, sessionTTL time.Duration, options ...ServiceOption) (*Service, error) {
	if api == nil {
		return nil, errs.Wrapf(errs.ErrInternal, "[NewService] api client is required")
	}
	if sessions == nil {
		return nil, errs.Wrapf(errs.ErrInternal, "[NewService] session store is required")
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}

	s := &Service{
		api:        api,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// LoginEmployee authenticates staff credentials against the employee token
// endpoint and stores the resulting session under the employee namespace.
func (s *Service) LoginEmployee(ctx context.Context, sid, username, password string) (*session.EmployeeIdentity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, credentialsError(nil)
	}

	resp, err := s.api.ObtainEmployeeToken(ctx, username, password)
	if err != nil {
		return nil, credentialsError(err)
	}

	identity := &session.EmployeeIdentity{
		ID:           resp.UserID,
		Username:     resp.Username,
		EmployeeKind: resp.TipoEmpleado,
		IsAdmin:      resp.IsAdmin,
	}

	sess := session.Session{
		Role:      session.RoleEmployee,
		Employee:  identity,
		Tokens:    session.TokenPair{Access: resp.Access, Refresh: resp.Refresh},
		ExpiresAt: s.sessionExpiry(resp.Refresh),
	}
	if err := s.sessions.Set(ctx, sid, sess); err != nil {
		return nil, errs.Wrapf(err, "login employee: store session")
	}

	log.Info().Str("username", identity.Username).Bool("admin", identity.IsAdmin).Msg("employee logged in")
	return identity, nil
}

// LoginCustomer authenticates a customer and stores the session under the
// customer namespace.
func (s *Service) LoginCustomer(ctx context.Context, sid, usuario, password string) (*session.CustomerIdentity, error) {
	usuario = strings.TrimSpace(usuario)
	if usuario == "" || password == "" {
		return nil, credentialsError(nil)
	}

	resp, err := s.api.CustomerLogin(ctx, usuario, password)
	if err != nil {
		return nil, credentialsError(err)
	}

	identity := &session.CustomerIdentity{
		ID:       resp.UserID,
		Username: resp.Usuario,
		Email:    resp.Email,
	}

	sess := session.Session{
		Role:      session.RoleCustomer,
		Customer:  identity,
		Tokens:    session.TokenPair{Access: resp.Access, Refresh: resp.Refresh},
		ExpiresAt: s.sessionExpiry(resp.Refresh),
	}
	if err := s.sessions.Set(ctx, sid, sess); err != nil {
		return nil, errs.Wrapf(err, "login customer: store session")
	}

	log.Info().Str("usuario", identity.Username).Msg("customer logged in")
	return identity, nil
}

// RegisterCustomer creates a customer account upstream. Registration does
// not establish a session; the caller is expected to log in afterwards.
// Validation failures (duplicate email and friends) surface the upstream
// payload verbatim.
func (s *Service) RegisterCustomer(ctx context.Context, usuario, email, password string) (restapi.RegistroResponse, error) {
	usuario = strings.TrimSpace(usuario)
	email = strings.TrimSpace(email)
	if usuario == "" || email == "" || password == "" {
		return restapi.RegistroResponse{}, errs.Wrapf(errs.ErrValidation, "usuario, email and password are required")
	}

	resp, err := s.api.RegisterCustomer(ctx, usuario, email, password)
	if err != nil {
		var upstream *errs.UpstreamError
		if errs.As(err, &upstream) && upstream.StatusCode < http.StatusInternalServerError {
			authErr := &errs.AuthError{
				StatusCode: upstream.StatusCode,
				Payload:    upstream.Body,
				Fallback:   "Error en el registro",
			}
			return restapi.RegistroResponse{}, fmt.Errorf("register customer: %w: %w", errs.ErrValidation, authErr)
		}
		return restapi.RegistroResponse{}, errs.Wrapf(err, "register customer")
	}

	log.Info().Str("usuario", usuario).Msg("customer registered")
	return resp, nil
}

// Logout destroys the session locally. No upstream call is made: token
// invalidation is the server's concern on next use.
func (s *Service) Logout(ctx context.Context, sid string) error {
	if err := s.sessions.Clear(ctx, sid); err != nil {
		return errs.Wrapf(err, "logout")
	}
	return nil
}

// Login is the legacy role-less entry point, kept for callers that don't
// yet distinguish employee and customer flows. It delegates to
// LoginEmployee.
func (s *Service) Login(ctx context.Context, sid, username, password string) (*session.EmployeeIdentity, error) {
	return s.LoginEmployee(ctx, sid, username, password)
}

// credentialsError maps an upstream rejection onto the credentials
// taxonomy, preserving the server payload when there is one.
func credentialsError(err error) error {
	if err == nil {
		return errs.Wrapf(errs.ErrInvalidCredentials, "missing credentials")
	}

	var upstream *errs.UpstreamError
	if errs.As(err, &upstream) &&
		(upstream.StatusCode == http.StatusUnauthorized || upstream.StatusCode == http.StatusBadRequest) {
		authErr := &errs.AuthError{
			StatusCode: upstream.StatusCode,
			Payload:    upstream.Body,
			Fallback:   "Credenciales incorrectas",
		}
		return fmt.Errorf("%w: %w", errs.ErrInvalidCredentials, authErr)
	}
	return err
}
