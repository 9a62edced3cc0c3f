// Package softtoken is an in-process software authenticator implementing
// broker.CredentialBroker. Credentials are ES256 keypairs held in memory;
// registrations answer with packed self-attestation. It stands in for
// platform authenticators in tests, CLIs and headless environments.
package softtoken

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-passkey-client/broker"
	"github.com/jrsteele09/go-passkey-client/codec"
)

// Config configures an Authenticator.
type Config struct {
	// Origin is written into collected client data, e.g. "https://app.example.org".
	Origin string
	// Approve, when set, is consulted before any signing operation. It may
	// block on user interaction until ctx is done. A nil return approves;
	// context errors propagate unchanged; any other error is reported as
	// broker.ErrUserCancelled.
	Approve func(ctx context.Context) error
}

// Authenticator is a software credential store, safe for concurrent use.
type Authenticator struct {
	origin  string
	approve func(ctx context.Context) error

	mu          sync.Mutex
	credentials map[string]*credential // keyed by relying party ID
}

type credential struct {
	id         []byte
	key        *ecdsa.PrivateKey
	userHandle []byte
	signCount  uint32
}

// New creates an Authenticator with no credentials.
func New(cfg Config) (*Authenticator, error) {
	if cfg.Origin == "" {
		return nil, errors.New("softtoken: origin required")
	}
	return &Authenticator{
		origin:      cfg.Origin,
		approve:     cfg.Approve,
		credentials: make(map[string]*credential),
	}, nil
}

var _ broker.CredentialBroker = (*Authenticator)(nil)

// CreateCredential mints a new ES256 credential for the relying party and
// answers with a packed self-attestation.
func (a *Authenticator) CreateCredential(ctx context.Context, options *broker.CreationOptions) (*broker.CredentialResponse, error) {
	switch {
	case options == nil:
		return nil, fmt.Errorf("%w: creation options required", broker.ErrOptionsRejected)
	case len(options.Challenge) == 0:
		return nil, fmt.Errorf("%w: challenge required", broker.ErrOptionsRejected)
	case options.RelyingParty.ID == "":
		return nil, fmt.Errorf("%w: relying party ID required", broker.ErrOptionsRejected)
	case len(options.User.ID) == 0:
		return nil, fmt.Errorf("%w: user handle required", broker.ErrOptionsRejected)
	case options.User.Name == "":
		return nil, fmt.Errorf("%w: user name required", broker.ErrOptionsRejected)
	}
	if !supportsES256(options.Parameters) {
		return nil, fmt.Errorf("%w: only ES256 credential parameters are supported", broker.ErrOptionsRejected)
	}

	if err := a.waitApproval(ctx); err != nil {
		return nil, err
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "softtoken: generate key")
	}
	credentialID := newCredentialID()

	a.mu.Lock()
	a.credentials[options.RelyingParty.ID] = &credential{
		id:         credentialID,
		key:        key,
		userHandle: options.User.ID,
	}
	a.mu.Unlock()

	pubKeyCBOR, err := marshalPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}

	ccdJSON, ccdHash, err := collectedClientData(protocol.CreateCeremony, a.origin, options.Challenge)
	if err != nil {
		return nil, err
	}

	authData := authenticatorData(options.RelyingParty.ID, 0, &attestedCredential{
		id:         credentialID,
		pubKeyCBOR: pubKeyCBOR,
	})

	sig, err := signDigest(key, authData, ccdHash)
	if err != nil {
		return nil, err
	}

	attObj, err := cbor.Marshal(protocol.AttestationObject{
		RawAuthData: authData,
		Format:      "packed",
		AttStatement: map[string]interface{}{
			"alg": int64(webauthncose.AlgES256),
			"sig": sig,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "softtoken: marshal attestation object")
	}

	return &broker.CredentialResponse{
		ID:                codec.Encode(credentialID),
		RawID:             credentialID,
		Type:              broker.CredentialType,
		ClientDataJSON:    ccdJSON,
		AttestationObject: attObj,
	}, nil
}

// RequestAssertion signs the challenge with a previously created credential.
func (a *Authenticator) RequestAssertion(ctx context.Context, options *broker.RequestOptions) (*broker.CredentialResponse, error) {
	switch {
	case options == nil:
		return nil, fmt.Errorf("%w: request options required", broker.ErrOptionsRejected)
	case len(options.Challenge) == 0:
		return nil, fmt.Errorf("%w: challenge required", broker.ErrOptionsRejected)
	case options.RelyingPartyID == "":
		return nil, fmt.Errorf("%w: relying party ID required", broker.ErrOptionsRejected)
	}

	a.mu.Lock()
	cred, ok := a.credentials[options.RelyingPartyID]
	if ok && !credentialAllowed(cred, options.AllowedCredentials) {
		ok = false
	}
	a.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: no usable credential for relying party %q", broker.ErrOptionsRejected, options.RelyingPartyID)
	}

	if err := a.waitApproval(ctx); err != nil {
		return nil, err
	}

	ccdJSON, ccdHash, err := collectedClientData(protocol.AssertCeremony, a.origin, options.Challenge)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	cred.signCount++
	signCount := cred.signCount
	a.mu.Unlock()

	authData := authenticatorData(options.RelyingPartyID, signCount, nil)
	sig, err := signDigest(cred.key, authData, ccdHash)
	if err != nil {
		return nil, err
	}

	return &broker.CredentialResponse{
		ID:                codec.Encode(cred.id),
		RawID:             cred.id,
		Type:              broker.CredentialType,
		ClientDataJSON:    ccdJSON,
		AuthenticatorData: authData,
		Signature:         sig,
		UserHandle:        cred.userHandle,
	}, nil
}

func (a *Authenticator) waitApproval(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.approve == nil {
		return nil
	}
	if err := a.approve(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", broker.ErrUserCancelled, err)
	}
	return nil
}

func supportsES256(params []broker.CredentialParameter) bool {
	if len(params) == 0 {
		// No stated preference; ES256 is acceptable.
		return true
	}
	for _, param := range params {
		if param.Type == broker.CredentialType && param.Algorithm == int64(webauthncose.AlgES256) {
			return true
		}
	}
	return false
}

func credentialAllowed(cred *credential, allowed []broker.CredentialDescriptor) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, descriptor := range allowed {
		if bytes.Equal(descriptor.ID, cred.id) {
			return true
		}
	}
	return false
}

func newCredentialID() []byte {
	id := uuid.New()
	return id[:]
}

func marshalPublicKey(pubKey *ecdsa.PublicKey) ([]byte, error) {
	// x and y must have exactly 32 bytes in EC2PublicKeyData.
	x := make([]byte, 32)
	y := make([]byte, 32)
	pubKey.X.FillBytes(x)
	pubKey.Y.FillBytes(y)

	pubKeyCBOR, err := cbor.Marshal(&webauthncose.EC2PublicKeyData{
		PublicKeyData: webauthncose.PublicKeyData{
			KeyType:   int64(webauthncose.EllipticKey),
			Algorithm: int64(webauthncose.AlgES256),
		},
		// See https://datatracker.ietf.org/doc/html/rfc8152#section-13.1.
		Curve:  1, // P-256
		XCoord: x,
		YCoord: y,
	})
	if err != nil {
		return nil, errors.Wrap(err, "softtoken: marshal public key")
	}
	return pubKeyCBOR, nil
}

type attestedCredential struct {
	id         []byte
	pubKeyCBOR []byte
}

func collectedClientData(ceremony protocol.CeremonyType, origin string, challenge []byte) (ccdJSON []byte, ccdHash [32]byte, err error) {
	ccd := struct {
		Type      string `json:"type"`
		Challenge string `json:"challenge"`
		Origin    string `json:"origin"`
	}{
		Type:      string(ceremony),
		Challenge: codec.Encode(challenge),
		Origin:    origin,
	}
	ccdJSON, err = json.Marshal(ccd)
	if err != nil {
		return nil, ccdHash, errors.Wrap(err, "softtoken: marshal client data")
	}
	return ccdJSON, sha256.Sum256(ccdJSON), nil
}

// authenticatorData assembles rpIDHash | flags | signCount, plus attested
// credential data when cred is non-nil.
func authenticatorData(rpID string, signCount uint32, cred *attestedCredential) []byte {
	rpIDHash := sha256.Sum256([]byte(rpID))

	flags := byte(protocol.FlagUserPresent | protocol.FlagUserVerified)
	if cred != nil {
		flags |= byte(protocol.FlagAttestedCredentialData)
	}

	authData := &bytes.Buffer{}
	authData.Write(rpIDHash[:])
	authData.WriteByte(flags)
	binary.Write(authData, binary.BigEndian, signCount)
	if cred != nil {
		authData.Write(make([]byte, 16)) // aaguid
		binary.Write(authData, binary.BigEndian, uint16(len(cred.id)))
		authData.Write(cred.id)
		authData.Write(cred.pubKeyCBOR)
	}
	return authData.Bytes()
}

func signDigest(key *ecdsa.PrivateKey, authData []byte, ccdHash [32]byte) ([]byte, error) {
	digest := sha256.Sum256(append(append([]byte{}, authData...), ccdHash[:]...))
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "softtoken: sign")
	}
	return sig, nil
}
