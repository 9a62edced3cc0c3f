package softtoken_test

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-passkey-client/broker"
	"github.com/jrsteele09/go-passkey-client/broker/softtoken"
	"github.com/jrsteele09/go-passkey-client/codec"
)

const (
	testOrigin = "https://app.example.org"
	testRPID   = "example.org"
)

func newAuthenticator(t *testing.T) *softtoken.Authenticator {
	t.Helper()
	authenticator, err := softtoken.New(softtoken.Config{Origin: testOrigin})
	require.NoError(t, err)
	return authenticator
}

func creationOptions() *broker.CreationOptions {
	return &broker.CreationOptions{
		Challenge:    []byte("registration-challenge-0123456789"),
		RelyingParty: broker.RelyingParty{ID: testRPID, Name: "Example"},
		User: broker.User{
			ID:          []byte("user-handle-1"),
			Name:        "john.doe@example.com",
			DisplayName: "John Doe",
		},
		Parameters: []broker.CredentialParameter{
			{Type: broker.CredentialType, Algorithm: int64(webauthncose.AlgES256)},
		},
	}
}

type clientData struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Origin    string `json:"origin"`
}

func TestNewRequiresOrigin(t *testing.T) {
	_, err := softtoken.New(softtoken.Config{})
	require.Error(t, err)
}

func TestCreateCredential(t *testing.T) {
	authenticator := newAuthenticator(t)
	options := creationOptions()

	resp, err := authenticator.CreateCredential(context.Background(), options)
	require.NoError(t, err)
	require.Equal(t, broker.CredentialType, resp.Type)
	require.NotEmpty(t, resp.RawID)
	require.Equal(t, codec.Encode(resp.RawID), resp.ID)
	require.NotEmpty(t, resp.AttestationObject)
	require.Empty(t, resp.AuthenticatorData, "attestation responses carry no bare authenticator data")

	var ccd clientData
	require.NoError(t, json.Unmarshal(resp.ClientDataJSON, &ccd))
	require.Equal(t, "webauthn.create", ccd.Type)
	require.Equal(t, codec.Encode(options.Challenge), ccd.Challenge)
	require.Equal(t, testOrigin, ccd.Origin)

	// The packed self-attestation must verify against the attested key.
	var attObj protocol.AttestationObject
	require.NoError(t, cbor.Unmarshal(resp.AttestationObject, &attObj))
	require.Equal(t, "packed", attObj.Format)
	require.EqualValues(t, webauthncose.AlgES256, attObj.AttStatement["alg"])

	authData := attObj.RawAuthData
	rpIDHash := sha256.Sum256([]byte(testRPID))
	require.Equal(t, rpIDHash[:], authData[:32])

	flags := protocol.AuthenticatorFlags(authData[32])
	require.True(t, flags.UserPresent())
	require.True(t, flags.UserVerified())
	require.True(t, flags.HasAttestedCredentialData())

	idLen := binary.BigEndian.Uint16(authData[53:55])
	require.Equal(t, resp.RawID, authData[55:55+idLen])

	key, err := webauthncose.ParsePublicKey(authData[55+idLen:])
	require.NoError(t, err)

	ccdHash := sha256.Sum256(resp.ClientDataJSON)
	sig, ok := attObj.AttStatement["sig"].([]byte)
	require.True(t, ok)
	valid, err := webauthncose.VerifySignature(key, append(authData, ccdHash[:]...), sig)
	require.NoError(t, err)
	require.True(t, valid)
}

func TestCreateCredentialRejectsOptions(t *testing.T) {
	authenticator := newAuthenticator(t)

	mutations := map[string]func(*broker.CreationOptions){
		"missing challenge":  func(o *broker.CreationOptions) { o.Challenge = nil },
		"missing rp id":      func(o *broker.CreationOptions) { o.RelyingParty.ID = "" },
		"missing user id":    func(o *broker.CreationOptions) { o.User.ID = nil },
		"missing user name":  func(o *broker.CreationOptions) { o.User.Name = "" },
		"unsupported params": func(o *broker.CreationOptions) { o.Parameters = []broker.CredentialParameter{{Type: broker.CredentialType, Algorithm: -257}} },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			options := creationOptions()
			mutate(options)
			_, err := authenticator.CreateCredential(context.Background(), options)
			require.ErrorIs(t, err, broker.ErrOptionsRejected)
		})
	}

	t.Run("nil options", func(t *testing.T) {
		_, err := authenticator.CreateCredential(context.Background(), nil)
		require.ErrorIs(t, err, broker.ErrOptionsRejected)
	})
}

func TestRequestAssertion(t *testing.T) {
	authenticator := newAuthenticator(t)
	created, err := authenticator.CreateCredential(context.Background(), creationOptions())
	require.NoError(t, err)

	options := &broker.RequestOptions{
		Challenge:      []byte("assertion-challenge-9876543210"),
		RelyingPartyID: testRPID,
		AllowedCredentials: []broker.CredentialDescriptor{
			{Type: broker.CredentialType, ID: created.RawID},
		},
	}
	resp, err := authenticator.RequestAssertion(context.Background(), options)
	require.NoError(t, err)
	require.Equal(t, created.RawID, resp.RawID)
	require.Equal(t, []byte("user-handle-1"), resp.UserHandle)
	require.NotEmpty(t, resp.Signature)
	require.Empty(t, resp.AttestationObject)

	var ccd clientData
	require.NoError(t, json.Unmarshal(resp.ClientDataJSON, &ccd))
	require.Equal(t, "webauthn.get", ccd.Type)
	require.Equal(t, codec.Encode(options.Challenge), ccd.Challenge)

	// Sign count must be monotonically increasing across assertions.
	first := binary.BigEndian.Uint32(resp.AuthenticatorData[33:37])
	second, err := authenticator.RequestAssertion(context.Background(), options)
	require.NoError(t, err)
	require.Greater(t, binary.BigEndian.Uint32(second.AuthenticatorData[33:37]), first)
}

func TestRequestAssertionWithoutCredential(t *testing.T) {
	authenticator := newAuthenticator(t)
	_, err := authenticator.RequestAssertion(context.Background(), &broker.RequestOptions{
		Challenge:      []byte("challenge"),
		RelyingPartyID: "unknown.example.org",
	})
	require.ErrorIs(t, err, broker.ErrOptionsRejected)
}

func TestRequestAssertionExcludedByAllowList(t *testing.T) {
	authenticator := newAuthenticator(t)
	_, err := authenticator.CreateCredential(context.Background(), creationOptions())
	require.NoError(t, err)

	_, err = authenticator.RequestAssertion(context.Background(), &broker.RequestOptions{
		Challenge:      []byte("challenge"),
		RelyingPartyID: testRPID,
		AllowedCredentials: []broker.CredentialDescriptor{
			{Type: broker.CredentialType, ID: []byte("someone-elses-credential")},
		},
	})
	require.ErrorIs(t, err, broker.ErrOptionsRejected)
}

func TestApprovalHook(t *testing.T) {
	t.Run("denial becomes user cancellation", func(t *testing.T) {
		authenticator, err := softtoken.New(softtoken.Config{
			Origin: testOrigin,
			Approve: func(context.Context) error {
				return context.Canceled // hook failed, ctx still live
			},
		})
		require.NoError(t, err)
		_, err = authenticator.CreateCredential(context.Background(), creationOptions())
		require.ErrorIs(t, err, broker.ErrUserCancelled)
	})

	t.Run("caller cancellation propagates", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		authenticator, err := softtoken.New(softtoken.Config{
			Origin: testOrigin,
			Approve: func(ctx context.Context) error {
				cancel()
				<-ctx.Done()
				return ctx.Err()
			},
		})
		require.NoError(t, err)
		_, err = authenticator.CreateCredential(ctx, creationOptions())
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancelled before prompt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		authenticator := newAuthenticator(t)
		_, err := authenticator.CreateCredential(ctx, creationOptions())
		require.ErrorIs(t, err, context.Canceled)
	})
}
