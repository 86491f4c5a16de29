package app

import (
	"net/http"

	"github.com/rs/zerolog"

	"pairauth/internal/services/pairing"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home    string              // config directory, e.g. $HOME/.pairauth
	BaseURL string              // backend base URL
	HTTP    *http.Client        // optional; defaults to http.DefaultClient
	Logger  zerolog.Logger      // optional; defaults to a disabled logger
	Confirm pairing.ConfirmFunc // optional; nil auto-confirms approvals
}
