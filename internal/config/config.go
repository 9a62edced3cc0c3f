// Package config loads CLI configuration from the environment. Library
// packages never read ambient state; everything funnels through here at
// the edge and is passed down as explicit configuration.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-derived configuration for passkeyctl.
type Config struct {
	// Endpoint is the relying-party API origin.
	Endpoint string `env:"PASSKEY_ENDPOINT" envDefault:"https://api.ente.io"`
	// AuthToken is the bearer token for authenticated operations.
	AuthToken string `env:"PASSKEY_AUTH_TOKEN"`
	// ClientPackage identifies this client to the API.
	ClientPackage string `env:"PASSKEY_CLIENT_PACKAGE" envDefault:"io.ente.passkeyctl"`
	// Origin is written into collected client data by the software
	// authenticator; must match a relying-party origin.
	Origin string `env:"PASSKEY_ORIGIN" envDefault:"https://web.ente.io"`
	// Development enables the loopback redirect rule and debug logging.
	Development bool `env:"PASSKEY_DEV" envDefault:"false"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
