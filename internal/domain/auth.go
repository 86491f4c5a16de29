package domain

// AuthState is the authentication state machine's current position.
type AuthState int

const (
	LoggedOut AuthState = iota
	AwaitingVerification
	LoggedIn
)

func (s AuthState) String() string {
	switch s {
	case AwaitingVerification:
		return "awaiting-verification"
	case LoggedIn:
		return "logged-in"
	default:
		return "logged-out"
	}
}

// AuthStatus is a snapshot handed to subscribers and the CLI.
type AuthStatus struct {
	State       AuthState
	Email       string // set while awaiting verification
	Challenge   string // server challenge carried into verification
	AccessToken string // set while logged in
}

// DeviceInfo describes this device to the registration endpoint.
type DeviceInfo struct {
	Platform string `json:"platform"`
}

// RegisterRequest is the body of POST /api/v1/auth/register.
type RegisterRequest struct {
	Email      string     `json:"email"`
	PublicKey  string     `json:"public_key"`
	DeviceInfo DeviceInfo `json:"device_info"`
}

// RegistrationResult carries whatever the registration endpoint returned;
// Raw keeps fields this client does not know about.
type RegistrationResult struct {
	Challenge      string `json:"challenge,omitempty"`
	RegistrationID string `json:"registration_id,omitempty"`
	Raw            []byte `json:"-"`
}

// VerifyParams are the caller-supplied inputs to code verification.
type VerifyParams struct {
	Email     string
	Code      string
	Challenge string
}

// VerifyRequest is the body of POST /api/v1/auth/verify.
type VerifyRequest struct {
	Email     string `json:"email"`
	Code      string `json:"code"`
	Challenge string `json:"challenge"`
	Signature string `json:"signature"`
}
