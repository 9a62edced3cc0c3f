package passkeys

import (
	"encoding/json"

	"github.com/jrsteele09/go-passkey-client/broker"
)

// Passkey is a registered credential record as reported by the server.
type Passkey struct {
	ID           string `json:"id"`
	UserID       int64  `json:"userID"`
	FriendlyName string `json:"friendlyName"`
	CreatedAt    int64  `json:"createdAt"`
}

// RegistrationSession is the server-issued state for one registration
// ceremony. It is single-use: once FinishRegistration resolves, the session
// and its challenge are dead and a new ceremony must start from
// BeginRegistration.
type RegistrationSession struct {
	ID      string
	Options broker.CreationOptions
}

// AuthenticationSession is the server-issued state for one authentication
// ceremony. LoginSessionID identifies the enclosing second-factor login;
// CeremonySessionID identifies this begin/finish pair. Both must be echoed
// back verbatim on finish, which is why they live together in one struct.
type AuthenticationSession struct {
	LoginSessionID    string
	CeremonySessionID string
	Options           broker.RequestOptions
}

// AuthResult is the server's answer to a successful authentication finish.
// Token handling downstream of the ceremony is out of scope, so the raw
// response is retained alongside the commonly used fields.
type AuthResult struct {
	UserID int64  `json:"id,omitempty"`
	Token  string `json:"token,omitempty"`

	raw json.RawMessage
}

// Raw returns the unparsed finish-authentication response body.
func (r *AuthResult) Raw() json.RawMessage {
	return r.raw
}
