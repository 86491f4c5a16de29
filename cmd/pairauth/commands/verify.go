package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pairauth/internal/domain"
)

func verifyCmd() *cobra.Command {
	var challenge string

	cmd := &cobra.Command{
		Use:   "verify <email> <code>",
		Short: "Redeem the verification code and log this device in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBaseURL(); err != nil {
				return err
			}
			email, code := args[0], args[1]

			if challenge == "" {
				cached, _, err := appCtx.KV.Get(kvPendingChallenge)
				if err != nil {
					return err
				}
				challenge = cached
			}

			rec, err := appCtx.Auth.VerifyCode(cmd.Context(), domain.VerifyParams{
				Email:     email,
				Code:      code,
				Challenge: challenge,
			})
			if err != nil {
				return err
			}

			if err := appCtx.KV.Delete(kvPendingEmail, kvPendingChallenge); err != nil {
				return err
			}

			fmt.Printf("Logged in. Session valid until %s.\n", rec.ExpiresAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
	cmd.Flags().StringVar(&challenge, "challenge", "", "challenge from register (defaults to the cached one)")
	return cmd
}
