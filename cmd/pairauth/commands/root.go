package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pairauth/internal/app"
)

// Local cache keys carrying registration state between the register and
// verify commands.
const (
	kvPendingEmail     = "pending_email"
	kvPendingChallenge = "pending_challenge"
)

var (
	home    string
	baseURL string
	verbose bool
	appCtx  *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "pairauth",
		Short: "Device pairing and authentication CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".pairauth")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			if baseURL == "" {
				baseURL = os.Getenv("PAIRAUTH_BASE_URL")
			}

			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()

			wire, err := app.NewWire(app.Config{
				Home:    home,
				BaseURL: baseURL,
				Logger:  logger,
				Confirm: promptConfirm,
			})
			if err != nil {
				return err
			}
			appCtx = wire
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.pairauth)")
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (or PAIRAUTH_BASE_URL)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		registerCmd(),
		verifyCmd(),
		statusCmd(),
		pairCmd(),
		logoutCmd(),
		fingerprintCmd(),
	)
	return root.Execute()
}

// promptConfirm asks for a y/n decision on a pairing user code.
func promptConfirm(userCode string) bool {
	fmt.Printf("Approve pairing request %s? [y/N]: ", userCode)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// requireBaseURL guards commands that talk to the backend.
func requireBaseURL() error {
	if baseURL == "" {
		return fmt.Errorf("no backend configured. use --base-url or PAIRAUTH_BASE_URL")
	}
	return nil
}
