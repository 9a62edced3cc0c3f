package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <friendly-name>",
	Short: "Run the registration ceremony and create a new passkey",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passkey, err := client.Register(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("registered passkey %s (%s)\n", passkey.ID, passkey.FriendlyName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
