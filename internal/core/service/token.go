package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hackorsnooze/story-client/internal/core/domain"
)

// checkToken inspects the claims of a persisted token before it is replayed.
// The signature is not verified; only the store holds the key. Tokens that
// are not JWTs are left for the store to judge.
func checkToken(token, username string, now time.Time) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	if sub, ok := claims["username"].(string); ok && sub != username {
		return fmt.Errorf("%w: token was issued for %q", domain.ErrAuth, sub)
	}

	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil && exp.Time.Before(now) {
		return fmt.Errorf("%w: token expired at %s", domain.ErrAuth, exp.Time.Format(time.RFC3339))
	}
	return nil
}
