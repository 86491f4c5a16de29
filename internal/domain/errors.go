package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEmail is returned before any network call is made.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidCode is returned for an empty or malformed verification code.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrNotAuthenticated means no usable access token is held.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrDecryptionFailed means a pairing payload failed authenticated
	// decryption. The payload is given no partial trust.
	ErrDecryptionFailed = errors.New("pairing payload decryption failed")

	// ErrScanIgnored means a scan arrived while one was already in flight or
	// within the duplicate window and was dropped without a network call.
	ErrScanIgnored = errors.New("scan ignored")

	// ErrAttemptSuperseded means a response arrived for a pairing attempt
	// that has since been replaced or reset.
	ErrAttemptSuperseded = errors.New("pairing attempt superseded")

	// ErrApprovalDeclined means the user rejected the pairing confirmation.
	ErrApprovalDeclined = errors.New("pairing approval declined")

	// ErrNoApprovalPending means Approve was called outside awaiting-approval.
	ErrNoApprovalPending = errors.New("no pairing approval pending")
)

// Stages of the protocol that talk to the backend, used in RequestError.
const (
	StageRegister = "register"
	StageVerify   = "verify"
	StageRevoke   = "revoke"
	StageScan     = "scan"
	StageApprove  = "approve"
)

// RequestError wraps a non-2xx backend response with the stage it belongs to.
// The body is kept verbatim for user-facing alerts.
type RequestError struct {
	Stage  string
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s failed: %d %s", e.Stage, e.Status, e.Body)
}

// KeyStoreError wraps a storage failure that makes key material unavailable.
// Auth and pairing cannot safely proceed past one.
type KeyStoreError struct {
	Err error
}

func (e *KeyStoreError) Error() string { return "keystore: " + e.Err.Error() }
func (e *KeyStoreError) Unwrap() error { return e.Err }
