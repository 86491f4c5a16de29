package domain

// PairingRequest is the payload carried by a pairing QR code. Scanned text is
// either JSON with these fields or a bare session id string.
type PairingRequest struct {
	SessionID       string `json:"session_id"`
	ServerPublicKey string `json:"public_key,omitempty"`
}

// ScanRequest is the body of POST /api/v1/device/qr/scan.
type ScanRequest struct {
	SessionID       string `json:"session_id"`
	MobilePublicKey string `json:"mobile_public_key"`
}

// ApproveRequest is the body of POST /api/v1/device/approve/{user_code}.
type ApproveRequest struct {
	MobileSignature string `json:"mobile_signature"`
}

// EncryptedEnvelope is the boxed variant of the scan response. All fields are
// base64.
type EncryptedEnvelope struct {
	Ciphertext      string
	Nonce           string
	ServerPublicKey string
}

// PlainPayload is the unencrypted variant of the scan response, after alias
// resolution.
type PlainPayload struct {
	UserCode  string
	Challenge string
}

// ScanResponse is the parsed scan response: exactly one branch is set.
type ScanResponse struct {
	Encrypted *EncryptedEnvelope
	Plain     *PlainPayload
}

// PairingState is the pairing state machine's current position.
type PairingState int

const (
	PairingIdle PairingState = iota
	PairingScanning
	PairingAwaitingApproval
	PairingApproving
	PairingPaired
	PairingFailed
)

func (s PairingState) String() string {
	switch s {
	case PairingScanning:
		return "scanning"
	case PairingAwaitingApproval:
		return "awaiting-approval"
	case PairingApproving:
		return "approving"
	case PairingPaired:
		return "paired"
	case PairingFailed:
		return "failed"
	default:
		return "idle"
	}
}

// PairingResult is the composite outcome of a pairing attempt. Whichever
// stages completed have their fields set so a UI can render progress.
type PairingResult struct {
	Request    PairingRequest
	UserCode   string
	Challenge  string
	ScanRaw    []byte
	ApproveRaw []byte
	State      PairingState
}

// NeedsApproval reports whether the attempt is parked on user confirmation.
func (r PairingResult) NeedsApproval() bool { return r.State == PairingAwaitingApproval }
