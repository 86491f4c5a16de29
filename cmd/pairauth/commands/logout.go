package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and clear the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			if err := appCtx.KV.Delete(kvPendingEmail, kvPendingChallenge); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}
