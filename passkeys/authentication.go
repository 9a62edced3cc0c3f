package passkeys

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-passkey-client/api"
	"github.com/jrsteele09/go-passkey-client/broker"
)

// Authenticate runs the full second-factor authentication ceremony for the
// given login session. No auth token is involved; the login session is
// pre-auth by definition.
func (c *Client) Authenticate(ctx context.Context, loginSessionID string) (*AuthResult, error) {
	session, err := c.BeginAuthentication(ctx, loginSessionID)
	if err != nil {
		return nil, err
	}

	credential, err := c.broker.RequestAssertion(ctx, &session.Options)
	if err != nil {
		log.Error().Err(err).Msg("passkeys: credential broker rejected assertion")
		return nil, err
	}

	return c.FinishAuthentication(ctx, session, credential)
}

// BeginAuthentication posts the login session identifier to the begin
// endpoint and decodes the returned request options. The response carries a
// second, ceremony-scoped session identifier; both identifiers ride the
// returned AuthenticationSession so FinishAuthentication can echo the exact
// pair.
func (c *Client) BeginAuthentication(ctx context.Context, loginSessionID string) (*AuthenticationSession, error) {
	var resp beginAuthenticationResponse
	err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   RouteTwoFactorBegin,
		Body:   beginAuthenticationRequest{SessionID: loginSessionID},
	}, &resp)
	if err != nil {
		log.Error().Err(err).Msg("passkeys: begin authentication failed")
		return nil, err
	}

	options, err := resp.Options.PublicKey.decode()
	if err != nil {
		log.Error().Err(err).Msg("passkeys: malformed request options")
		return nil, err
	}

	log.Debug().
		Str("ceremony_session_id", resp.CeremonySessionID).
		Msg("passkeys: authentication options fetched")
	return &AuthenticationSession{
		LoginSessionID:    loginSessionID,
		CeremonySessionID: resp.CeremonySessionID,
		Options:           *options,
	}, nil
}

// FinishAuthentication encodes the assertion's binary payloads and submits
// them together with the session identifier pair received from begin. The
// identifiers are echoed verbatim; the server rejects mismatched pairs.
func (c *Client) FinishAuthentication(ctx context.Context, session *AuthenticationSession, credential *broker.CredentialResponse) (*AuthResult, error) {
	query := url.Values{}
	query.Set("sessionID", session.LoginSessionID)
	query.Set("ceremonySessionID", session.CeremonySessionID)

	var raw json.RawMessage
	err := c.api.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   RouteTwoFactorFinish,
		Query:  query,
		Body:   encodeAssertionCredential(credential),
	}, &raw)
	if err != nil {
		log.Error().Err(err).Str("ceremony_session_id", session.CeremonySessionID).Msg("passkeys: finish authentication failed")
		return nil, err
	}

	result := &AuthResult{raw: raw}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			log.Error().Err(err).Msg("passkeys: malformed authentication result")
			return nil, err
		}
	}

	log.Debug().Msg("passkeys: authentication complete")
	return result, nil
}
