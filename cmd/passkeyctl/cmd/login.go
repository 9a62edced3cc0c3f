package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-passkey-client/redirect"
)

var loginRedirect string

var loginCmd = &cobra.Command{
	Use:   "login <login-session-id>",
	Short: "Complete a second-factor login with a passkey assertion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client.Authenticate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println("authentication complete")
		if result.Token != "" {
			fmt.Printf("token: %s\n", result.Token)
		}

		if loginRedirect != "" {
			if !redirect.Default(cfg.Development).IsAllowedRedirect(loginRedirect) {
				return errors.Errorf("redirect target %q is not on the allowlist", loginRedirect)
			}
			fmt.Printf("redirect to: %s\n", loginRedirect)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginRedirect, "redirect", "", "post-login redirect target to validate")
	rootCmd.AddCommand(loginCmd)
}
