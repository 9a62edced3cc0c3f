package passkeys

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// List fetches the user's passkeys. When no auth token is available it
// returns (nil, nil) without issuing a network call: listing is often
// attempted opportunistically from contexts where auth is optional, so an
// absent token means "nothing to show" rather than an error.
func (c *Client) List(ctx context.Context) ([]Passkey, error) {
	if !c.api.HasToken(ctx) {
		log.Debug().Msg("passkeys: list skipped, no auth token")
		return nil, nil
	}

	var resp listPasskeysResponse
	if err := c.api.Get(ctx, RoutePasskeys, nil, &resp); err != nil {
		log.Error().Err(err).Msg("passkeys: list failed")
		return nil, err
	}
	return resp.Passkeys, nil
}

// Rename updates a passkey's friendly name. Unlike List, an absent token is
// an error here: silently dropping an explicit user-initiated mutation
// would mask intent.
func (c *Client) Rename(ctx context.Context, id, friendlyName string) (*Passkey, error) {
	var passkey Passkey
	if err := c.api.Patch(ctx, passkeyPath(id), nil, renamePasskeyRequest{FriendlyName: friendlyName}, &passkey); err != nil {
		log.Error().Err(err).Str("passkey_id", id).Msg("passkeys: rename failed")
		return nil, err
	}
	return &passkey, nil
}

// Delete removes a passkey. Same token policy as Rename.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, passkeyPath(id)); err != nil {
		log.Error().Err(err).Str("passkey_id", id).Msg("passkeys: delete failed")
		return err
	}
	return nil
}

func passkeyPath(id string) string {
	return fmt.Sprintf("%s/%s", RoutePasskeys, id)
}
