package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func pairCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "pair <qr-text>",
		Short: "Scan a QR payload and pair this device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireBaseURL(); err != nil {
				return err
			}
			if yes {
				// Skip the interactive prompt.
				appCtx.Pairing.SetConfirm(nil)
			}

			result, err := appCtx.Pairing.Scan(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("pairing %q: %w", args[0], err)
			}

			if result.NeedsApproval() {
				result, err = appCtx.Pairing.Approve(cmd.Context(), result.UserCode)
				if err != nil {
					return err
				}
			}

			fmt.Printf("Paired. Session %s complete.\n", result.Request.SessionID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "approve without prompting")
	return cmd
}
