package passkeys

import (
	"context"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-passkey-client/broker"
)

// Register runs the full registration ceremony: fetch options, create the
// credential through the broker, submit the attestation. friendlyName is
// the human-readable label for the new passkey.
//
// Broker failures pass through unmodified so callers can distinguish user
// cancellation from system faults. Server rejection of the finish call
// (challenge mismatch, expired session) is terminal for this ceremony; a
// retry must restart from BeginRegistration because the session is
// single-use.
func (c *Client) Register(ctx context.Context, friendlyName string) (*Passkey, error) {
	session, err := c.BeginRegistration(ctx)
	if err != nil {
		return nil, err
	}

	credential, err := c.broker.CreateCredential(ctx, &session.Options)
	if err != nil {
		log.Error().Err(err).Msg("passkeys: credential broker rejected creation")
		return nil, err
	}

	return c.FinishRegistration(ctx, friendlyName, credential, session.ID)
}

// BeginRegistration fetches creation options from the server and decodes
// their binary fields. Requires an auth token.
func (c *Client) BeginRegistration(ctx context.Context) (*RegistrationSession, error) {
	var resp beginRegistrationResponse
	if err := c.api.Get(ctx, RouteRegistrationBegin, nil, &resp); err != nil {
		log.Error().Err(err).Msg("passkeys: begin registration failed")
		return nil, err
	}

	options, err := resp.Options.PublicKey.decode()
	if err != nil {
		log.Error().Err(err).Msg("passkeys: malformed creation options")
		return nil, err
	}

	log.Debug().Str("session_id", resp.SessionID).Msg("passkeys: registration options fetched")
	return &RegistrationSession{
		ID:      resp.SessionID,
		Options: *options,
	}, nil
}

// FinishRegistration encodes the credential's binary payloads and submits
// them, together with the friendly name and session identifier, to the
// finish endpoint. Returns the created passkey record.
func (c *Client) FinishRegistration(ctx context.Context, friendlyName string, credential *broker.CredentialResponse, sessionID string) (*Passkey, error) {
	query := url.Values{}
	query.Set("friendlyName", friendlyName)
	query.Set("sessionID", sessionID)

	var passkey Passkey
	if err := c.api.Post(ctx, RouteRegistrationFinish, query, encodeRegistrationCredential(credential), &passkey); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("passkeys: finish registration failed")
		return nil, err
	}

	log.Debug().Str("passkey_id", passkey.ID).Msg("passkeys: registration complete")
	return &passkey, nil
}
