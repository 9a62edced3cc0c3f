package tokens

import (
	"context"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// WithExpiryCheck wraps a Provider so that JWT-shaped tokens whose exp claim
// has passed are reported as absent instead of being sent to the server.
// Signature verification stays with the server; only the unverified expiry
// is inspected here. Tokens that are not JWTs pass through untouched.
func WithExpiryCheck(p Provider) Provider {
	return withExpiryCheck(p, time.Now)
}

func withExpiryCheck(p Provider, nowTime func() time.Time) Provider {
	return ProviderFunc(func(ctx context.Context) (string, error) {
		token, err := p.Token(ctx)
		if err != nil {
			return "", err
		}
		if !looksLikeJWT(token) {
			return token, nil
		}
		parsed, _, err := jwtlib.NewParser().ParseUnverified(token, jwtlib.MapClaims{})
		if err != nil {
			// Opaque token that merely resembles a JWT; let the server decide.
			return token, nil
		}
		exp, err := parsed.Claims.GetExpirationTime()
		if err != nil || exp == nil {
			return token, nil
		}
		if exp.Before(nowTime()) {
			return "", fmt.Errorf("%w: bearer token expired at %s", ErrNoToken, exp.Format(time.RFC3339))
		}
		return token, nil
	})
}

func looksLikeJWT(token string) bool {
	return strings.Count(token, ".") == 2
}
