package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered passkeys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := client.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("no passkeys")
			return nil
		}
		for _, passkey := range list {
			created := time.Unix(passkey.CreatedAt, 0).UTC().Format(time.RFC3339)
			fmt.Printf("%s\t%s\t%s\n", passkey.ID, passkey.FriendlyName, created)
		}
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <friendly-name>",
	Short: "Rename a passkey",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		updated, err := client.Rename(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("renamed %s to %q\n", updated.ID, updated.FriendlyName)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a passkey",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd, renameCmd, deleteCmd)
}
