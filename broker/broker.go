// Package broker defines the boundary over the platform's credential
// creation/assertion capability. Ceremony options arrive with binary fields
// already decoded to raw bytes; responses carry opaque binary payloads that
// the caller encodes for the wire.
package broker

import "context"

// CredentialType is the discriminator for public-key credentials.
const CredentialType = "public-key"

// RelyingParty identifies the server-side entity a credential is bound to.
type RelyingParty struct {
	ID   string
	Name string
}

// User identifies the account a new credential belongs to.
type User struct {
	ID          []byte
	Name        string
	DisplayName string
}

// CredentialParameter expresses an acceptable credential type/algorithm pair.
type CredentialParameter struct {
	Type      string
	Algorithm int64
}

// CredentialDescriptor refers to an existing credential.
type CredentialDescriptor struct {
	Type string
	ID   []byte
}

// AuthenticatorSelection narrows which authenticators may serve a creation.
type AuthenticatorSelection struct {
	AuthenticatorAttachment string
	ResidentKey             string
	UserVerification        string
}

// CreationOptions are the decoded server-issued options for registering a
// new credential.
type CreationOptions struct {
	Challenge          []byte
	RelyingParty       RelyingParty
	User               User
	Parameters         []CredentialParameter
	TimeoutMillis      uint64
	ExcludeCredentials []CredentialDescriptor
	Selection          AuthenticatorSelection
	Attestation        string
}

// RequestOptions are the decoded server-issued options for asserting an
// existing credential.
type RequestOptions struct {
	Challenge          []byte
	RelyingPartyID     string
	AllowedCredentials []CredentialDescriptor
	TimeoutMillis      uint64
	UserVerification   string
}

// CredentialResponse is the authenticator's answer to either ceremony.
// Registration populates AttestationObject; authentication populates
// AuthenticatorData, Signature and UserHandle. ClientDataJSON is always set.
type CredentialResponse struct {
	ID    string
	RawID []byte
	Type  string

	ClientDataJSON    []byte
	AttestationObject []byte
	AuthenticatorData []byte
	Signature         []byte
	UserHandle        []byte
}

// CredentialBroker produces credential responses from ceremony options.
// Either call may block on user interaction until ctx is done; both must
// honor cancellation.
type CredentialBroker interface {
	CreateCredential(ctx context.Context, options *CreationOptions) (*CredentialResponse, error)
	RequestAssertion(ctx context.Context, options *RequestOptions) (*CredentialResponse, error)
}
