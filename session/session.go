package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role tags which kind of identity owns the session. It is persisted under
// the "userType" key so the active role can always be recovered from
// storage alone, e.g. after the portal restarts.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleCustomer
}

// EmployeeIdentity mirrors the upstream token endpoint's user fields.
type EmployeeIdentity struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	EmployeeKind string `json:"tipo_empleado"` // "ADM" or "MES"
	IsAdmin      bool   `json:"is_admin"`
}

// CustomerIdentity mirrors the upstream customer login fields.
type CustomerIdentity struct {
	ID       int64  `json:"id"`
	Username string `json:"usuario"`
	Email    string `json:"email"`
}

// TokenPair holds the upstream access/refresh tokens. The access token is
// short-lived; the refresh token mints a new access token exactly once per
// recovery cycle.
type TokenPair struct {
	Access  string
	Refresh string
}

// Session is the single source of truth for "who is logged in and as what
// role". A session always carries a matching token pair; the two are
// created and destroyed together.
type Session struct {
	Role      Role
	Employee  *EmployeeIdentity
	Customer  *CustomerIdentity
	Tokens    TokenPair
	ExpiresAt time.Time
}

func (s Session) Username() string {
	switch s.Role {
	case RoleEmployee:
		if s.Employee != nil {
			return s.Employee.Username
		}
	case RoleCustomer:
		if s.Customer != nil {
			return s.Customer.Username
		}
	}
	return ""
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleEmployee && s.Employee != nil && s.Employee.IsAdmin
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Storage keys. Tokens live under role-prefixed keys so an employee and a
// customer token set can never clobber each other; identity and role share
// the "user"/"userType" keys. The unprefixed token keys are a legacy scheme
// still accepted on read.
const (
	keyUser     = "user"
	keyUserType = "userType"
	keyExpires  = "expires_at"

	keyEmployeeAccess  = "employee_access_token"
	keyEmployeeRefresh = "employee_refresh_token"
	keyCustomerAccess  = "customer_access_token"
	keyCustomerRefresh = "customer_refresh_token"

	legacyKeyAccess  = "access_token"
	legacyKeyRefresh = "refresh_token"
)

// AccessTokenKey returns the storage key for the role's access token.
func AccessTokenKey(role Role) string {
	if role == RoleCustomer {
		return keyCustomerAccess
	}
	return keyEmployeeAccess
}

// RefreshTokenKey returns the storage key for the role's refresh token.
func RefreshTokenKey(role Role) string {
	if role == RoleCustomer {
		return keyCustomerRefresh
	}
	return keyEmployeeRefresh
}

// encodeKeys flattens a session into its storage key map. Identity, role
// and both tokens are written in one shot so callers observe the write
// atomically.
func encodeKeys(s Session) (map[string]string, error) {
	if !s.Role.Valid() {
		return nil, fmt.Errorf("encode session: invalid role %q", s.Role)
	}

	var identity any
	switch s.Role {
	case RoleEmployee:
		identity = s.Employee
	case RoleCustomer:
		identity = s.Customer
	}
	if identity == nil {
		return nil, fmt.Errorf("encode session: missing %s identity", s.Role)
	}

	user, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("encode session identity: %w", err)
	}

	keys := map[string]string{
		keyUser:                 string(user),
		keyUserType:             string(s.Role),
		AccessTokenKey(s.Role):  s.Tokens.Access,
		RefreshTokenKey(s.Role): s.Tokens.Refresh,
	}
	if !s.ExpiresAt.IsZero() {
		keys[keyExpires] = s.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return keys, nil
}

// decodeKeys rebuilds a session from its storage key map. The role tag
// alone decides which token namespace applies; the legacy unprefixed keys
// are consulted when the role-prefixed ones are absent.
func decodeKeys(keys map[string]string) (Session, error) {
	role := Role(keys[keyUserType])
	if !role.Valid() {
		return Session{}, fmt.Errorf("decode session: invalid role %q", keys[keyUserType])
	}

	s := Session{Role: role}

	switch role {
	case RoleEmployee:
		var id EmployeeIdentity
		if err := json.Unmarshal([]byte(keys[keyUser]), &id); err != nil {
			return Session{}, fmt.Errorf("decode employee identity: %w", err)
		}
		s.Employee = &id
	case RoleCustomer:
		var id CustomerIdentity
		if err := json.Unmarshal([]byte(keys[keyUser]), &id); err != nil {
			return Session{}, fmt.Errorf("decode customer identity: %w", err)
		}
		s.Customer = &id
	}

	s.Tokens.Access = keys[AccessTokenKey(role)]
	if s.Tokens.Access == "" {
		s.Tokens.Access = keys[legacyKeyAccess]
	}
	s.Tokens.Refresh = keys[RefreshTokenKey(role)]
	if s.Tokens.Refresh == "" {
		s.Tokens.Refresh = keys[legacyKeyRefresh]
	}

	if raw := keys[keyExpires]; raw != "" {
		expires, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Session{}, fmt.Errorf("decode session expiry: %w", err)
		}
		s.ExpiresAt = expires
	}

	return s, nil
}
