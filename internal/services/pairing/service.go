package pairing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pairauth/internal/crypto"
	"pairauth/internal/domain"
)

// debounceWindow is how long two scans of the same QR text count as one.
const debounceWindow = time.Second

// ConfirmFunc asks the user to confirm a pairing user code before it is
// signed. A nil func auto-confirms (headless use).
type ConfirmFunc func(userCode string) bool

// Service runs the pairing protocol against the backend.
//
// Within one attempt the scan response is always processed before approve is
// attempted; approve is never issued speculatively. Each attempt carries an
// id, and responses landing after the attempt was superseded or reset are
// dropped.
type Service struct {
	keys    domain.Keyring
	auth    domain.TokenSource
	api     domain.APIClient
	log     zerolog.Logger
	confirm ConfirmFunc
	now     func() time.Time

	mu         sync.Mutex
	state      domain.PairingState
	attemptID  string
	lastText   string
	lastScanAt time.Time
	result     domain.PairingResult
}

// New returns a pairing service. confirm may be nil.
func New(keys domain.Keyring, auth domain.TokenSource, client domain.APIClient, confirm ConfirmFunc, log zerolog.Logger) *Service {
	return &Service{
		keys:    keys,
		auth:    auth,
		api:     client,
		log:     log,
		confirm: confirm,
		now:     time.Now,
	}
}

// SetConfirm replaces the approval confirmation hook. A nil hook
// auto-confirms.
func (s *Service) SetConfirm(fn ConfirmFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirm = fn
}

// State returns the current state machine position.
func (s *Service) State() domain.PairingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the composite result of the current or last attempt.
func (s *Service) Result() domain.PairingResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Reset returns the machine to idle so a fresh scan can start. Any in-flight
// attempt is superseded and its late responses will be dropped.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.PairingIdle
	s.attemptID = ""
	s.lastText = ""
	s.result = domain.PairingResult{}
}

// Scan runs the scan stage for the given QR text. When the response carries a
// user code the machine parks in awaiting-approval for Approve; otherwise the
// scan alone completes the pairing.
func (s *Service) Scan(ctx context.Context, qrText string) (domain.PairingResult, error) {
	attempt, err := s.beginScan(qrText)
	if err != nil {
		return domain.PairingResult{}, err
	}

	req := ParseRequest(qrText)
	log := s.log.With().Str("session_id", req.SessionID).Logger()

	pair, err := s.keys.EnsurePairingPair()
	if err != nil {
		return s.fail(attempt, err)
	}

	token, err := s.auth.AccessToken()
	if err != nil {
		return s.fail(attempt, err)
	}
	if token == "" {
		return s.fail(attempt, domain.ErrNotAuthenticated)
	}

	raw, err := s.api.Scan(ctx, token, domain.ScanRequest{
		SessionID:       req.SessionID,
		MobilePublicKey: crypto.B64(pair.Public.Slice()),
	})
	if err != nil {
		return s.fail(attempt, err)
	}

	payload, err := s.decodeScan(raw, req, pair)
	if err != nil {
		return s.fail(attempt, err)
	}

	result := domain.PairingResult{
		Request:   req,
		UserCode:  payload.UserCode,
		Challenge: payload.Challenge,
		ScanRaw:   raw,
	}
	if payload.UserCode != "" {
		result.State = domain.PairingAwaitingApproval
	} else {
		result.State = domain.PairingPaired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attemptID != attempt {
		return domain.PairingResult{}, domain.ErrAttemptSuperseded
	}
	s.state = result.State
	s.result = result
	log.Debug().Stringer("state", result.State).Msg("scan complete")
	return result, nil
}

// Approve signs the pending challenge (or the user code when no challenge was
// issued) and confirms the pairing. The confirmation hook runs before
// anything is signed.
func (s *Service) Approve(ctx context.Context, userCode string) (domain.PairingResult, error) {
	s.mu.Lock()
	if s.state != domain.PairingAwaitingApproval {
		s.mu.Unlock()
		return domain.PairingResult{}, domain.ErrNoApprovalPending
	}
	attempt := s.attemptID
	result := s.result
	confirm := s.confirm
	s.state = domain.PairingApproving
	s.mu.Unlock()

	if confirm != nil && !confirm(userCode) {
		s.mu.Lock()
		if s.attemptID == attempt {
			s.state = domain.PairingAwaitingApproval
		}
		s.mu.Unlock()
		return result, domain.ErrApprovalDeclined
	}

	id, err := s.keys.EnsureIdentity()
	if err != nil {
		return s.fail(attempt, err)
	}

	token, err := s.auth.AccessToken()
	if err != nil {
		return s.fail(attempt, err)
	}
	if token == "" {
		return s.fail(attempt, domain.ErrNotAuthenticated)
	}

	message := result.Challenge
	if message == "" {
		message = userCode
	}
	sig := crypto.SignEd25519(id.Private, []byte(message))

	raw, err := s.api.Approve(ctx, token, userCode, domain.ApproveRequest{
		MobileSignature: crypto.B64(sig),
	})
	if err != nil {
		return s.fail(attempt, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attemptID != attempt {
		return domain.PairingResult{}, domain.ErrAttemptSuperseded
	}
	s.result.ApproveRaw = raw
	s.result.State = domain.PairingPaired
	s.state = domain.PairingPaired
	s.log.Debug().Str("user_code", userCode).Msg("pairing approved")
	return s.result, nil
}

// beginScan applies the in-flight and duplicate-scan guards and opens a new
// attempt.
func (s *Service) beginScan(qrText string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.state == domain.PairingScanning || s.state == domain.PairingApproving {
		return "", domain.ErrScanIgnored
	}
	if qrText == s.lastText && now.Sub(s.lastScanAt) < debounceWindow {
		return "", domain.ErrScanIgnored
	}

	attempt := uuid.NewString()
	s.state = domain.PairingScanning
	s.attemptID = attempt
	s.lastText = qrText
	s.lastScanAt = now
	s.result = domain.PairingResult{State: domain.PairingScanning}
	return attempt, nil
}

// decodeScan turns the raw scan body into a plain payload, opening the
// encrypted envelope when one is present.
func (s *Service) decodeScan(raw []byte, req domain.PairingRequest, pair domain.PairingKeyPair) (*domain.PlainPayload, error) {
	resp, err := parseScanResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing scan response: %w", err)
	}
	if resp.Plain != nil {
		return resp.Plain, nil
	}

	env := resp.Encrypted
	serverKeyB64 := env.ServerPublicKey
	if serverKeyB64 == "" {
		serverKeyB64 = req.ServerPublicKey
	}
	serverKeyBytes, err := crypto.B64Decode(serverKeyB64)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	serverKey, err := domain.X25519PublicFromBytes(serverKeyBytes)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	ciphertext, err := crypto.B64Decode(env.Ciphertext)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	nonce, err := crypto.B64Decode(env.Nonce)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}

	plaintext, err := crypto.OpenBox(ciphertext, nonce, serverKey, pair.Secret)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(plaintext)
	return parsePlainBytes(plaintext)
}

// fail marks the attempt failed unless it was already superseded, in which
// case the machine's state is left alone.
func (s *Service) fail(attempt string, err error) (domain.PairingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attemptID != attempt {
		s.log.Debug().Err(err).Msg("superseded pairing attempt failed")
		return s.result, err
	}
	s.state = domain.PairingFailed
	s.result.State = domain.PairingFailed
	s.log.Debug().Err(err).Msg("pairing attempt failed")
	return s.result, err
}

// Compile-time assertion that Service implements domain.PairingService.
var _ domain.PairingService = (*Service)(nil)
