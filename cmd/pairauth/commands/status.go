package commands

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"pairauth/internal/crypto"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session state, expiry and token claims",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := appCtx.Auth.Status()
			fmt.Printf("State: %s\n", status.State)

			id, err := appCtx.Keyring.EnsureIdentity()
			if err != nil {
				return err
			}
			fmt.Printf("Identity: %s\n", crypto.Fingerprint(id.Public.Slice()))

			rec, err := appCtx.Tokens.Load(time.Now())
			if err != nil {
				return err
			}
			if rec == nil {
				return nil
			}
			fmt.Printf("Expires: %s\n", rec.ExpiresAt.Format("2006-01-02 15:04:05"))
			printClaims(rec.AccessToken)
			return nil
		},
	}
}

// printClaims best-effort decodes the access token as a JWT for display.
// The signature is not checked: the server is the authority, this is cosmetic.
func printClaims(token string) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		fmt.Printf("Subject: %s\n", sub)
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		fmt.Printf("Email: %s\n", email)
	}
}
