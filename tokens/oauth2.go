package tokens

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// FromTokenSource adapts an oauth2.TokenSource so applications that already
// manage credentials through the oauth2 package can reuse them as the
// bearer token for passkey API calls.
func FromTokenSource(ts oauth2.TokenSource) Provider {
	return ProviderFunc(func(context.Context) (string, error) {
		if ts == nil {
			return "", ErrNoToken
		}
		tok, err := ts.Token()
		if err != nil {
			return "", errors.Join(ErrNoToken, err)
		}
		if tok == nil || tok.AccessToken == "" || !tok.Valid() {
			return "", ErrNoToken
		}
		return tok.AccessToken, nil
	})
}
