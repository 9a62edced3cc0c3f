// Package cmd implements the passkeyctl command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-passkey-client/api"
	"github.com/jrsteele09/go-passkey-client/broker/softtoken"
	"github.com/jrsteele09/go-passkey-client/internal/config"
	"github.com/jrsteele09/go-passkey-client/passkeys"
	"github.com/jrsteele09/go-passkey-client/tokens"
)

var (
	cfg     config.Config
	client  *passkeys.Client
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:               "passkeyctl",
	Short:             "Register, authenticate and manage passkeys against the API",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("passkeyctl failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func setup(_ *cobra.Command, _ []string) error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if verbose || cfg.Development {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	displayAppName("passkeyctl")

	apiClient, err := api.New(api.Config{
		BaseURL:       cfg.Endpoint,
		ClientPackage: cfg.ClientPackage,
		Tokens:        tokens.WithExpiryCheck(tokens.Static(cfg.AuthToken)),
	})
	if err != nil {
		return err
	}

	authenticator, err := softtoken.New(softtoken.Config{Origin: cfg.Origin})
	if err != nil {
		return err
	}

	client, err = passkeys.New(apiClient, authenticator)
	return err
}

func displayAppName(appName string) {
	myFigure := figure.NewFigure(appName, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
