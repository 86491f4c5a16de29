package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <email>",
		Short: "Request an email verification code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBaseURL(); err != nil {
				return err
			}
			email := args[0]

			res, err := appCtx.Auth.SendCode(cmd.Context(), email)
			if err != nil {
				return err
			}

			// Cache the challenge so verify can run as a separate invocation.
			err = appCtx.KV.Set(map[string]string{
				kvPendingEmail:     email,
				kvPendingChallenge: res.Challenge,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Verification code sent to %s.\n", email)
			if res.RegistrationID != "" {
				fmt.Printf("Registration id: %s\n", res.RegistrationID)
			}
			fmt.Println("Run `pairauth verify` with the code from your inbox.")
			return nil
		},
	}
}
