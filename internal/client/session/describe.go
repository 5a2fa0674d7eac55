package session

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Info summarizes the current session for display.
type Info struct {
	Status Status
	// Token is the stored credential with its middle masked, empty when
	// anonymous.
	Token string
	// ExpiresAt is set only when the credential is a JWT carrying exp.
	ExpiresAt time.Time
	Expired   bool
}

// Describe reports the session status and, for JWT credentials, the expiry
// read from the unverified exp claim. Opaque tokens have no expiry. The
// expiry is informational: the session stays Authenticated until the remote
// rejects the credential.
func (m *Manager) Describe(ctx context.Context) (Info, error) {
	token, ok, err := m.store.Get(ctx)
	if err != nil {
		return Info{}, err
	}

	info := Info{Status: m.Status()}
	if !ok {
		return info, nil
	}
	info.Token = MaskToken(token)

	if exp, ok := jwtExpiry(token); ok {
		info.ExpiresAt = exp
		info.Expired = !m.clock.Now().Before(exp)
	}
	return info, nil
}

func jwtExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// MaskToken keeps the first and last four characters of token.
func MaskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
