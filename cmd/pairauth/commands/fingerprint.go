package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pairauth/internal/crypto"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the identity public key fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.Keyring.EnsureIdentity()
			if err != nil {
				return err
			}
			fmt.Printf("Fingerprint: %s\n", crypto.Fingerprint(id.Public.Slice()))
			fmt.Printf("Public key: %s\n", crypto.B64(id.Public.Slice()))
			return nil
		},
	}
}
