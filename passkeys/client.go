// Package passkeys drives the passkey ceremonies (registration and
// second-factor authentication) and the passkey management operations
// against the relying-party API. Each ceremony is a strictly sequential
// begin -> broker -> finish chain; sessions and challenges are single-use,
// so nothing is retried here. Failures are logged and returned unmodified
// to keep the broker's taxonomy (user cancellation vs. system fault)
// visible to callers.
package passkeys

import (
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-passkey-client/api"
	"github.com/jrsteele09/go-passkey-client/broker"
)

// API routes. The two-factor routes are unauthenticated: they run before
// the user holds a token.
const (
	RouteRegistrationBegin  = "/passkeys/registration/begin"
	RouteRegistrationFinish = "/passkeys/registration/finish"
	RouteTwoFactorBegin     = "/users/two-factor/passkeys/begin"
	RouteTwoFactorFinish    = "/users/two-factor/passkeys/finish"
	RoutePasskeys           = "/passkeys"
)

// ErrAuthenticationRequired mirrors api.ErrAuthenticationRequired for
// callers that only import this package.
var ErrAuthenticationRequired = api.ErrAuthenticationRequired

// Client orchestrates passkey ceremonies.
type Client struct {
	api    *api.Client
	broker broker.CredentialBroker
}

// New creates a ceremony client over the given transport and credential
// broker.
func New(apiClient *api.Client, credentialBroker broker.CredentialBroker) (*Client, error) {
	if apiClient == nil {
		return nil, errors.New("passkeys: api client is required")
	}
	if credentialBroker == nil {
		return nil, errors.New("passkeys: credential broker is required")
	}
	return &Client{api: apiClient, broker: credentialBroker}, nil
}
