package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionExpiry pins the session's lifetime to the refresh token's exp
// claim, since the session is only useful while the refresh token can
// still mint access tokens. The token is decoded without verification;
// signing and validation are the upstream's job. Opaque or claimless
// tokens fall back to the configured TTL.
func (s *Service) sessionExpiry(refreshToken string) time.Time {
	fallback := s.nowTime().Add(s.sessionTTL)

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(refreshToken, claims); err != nil {
		return fallback
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(s.nowTime()) {
		return fallback
	}
	return claims.ExpiresAt.Time
}
