package domain

import (
	"context"
	"time"
)

// Keyring guarantees exactly one identity pair and one pairing pair exist,
// generating on first use. Callers must tolerate regeneration after a failed
// persist.
type Keyring interface {
	EnsureIdentity() (IdentityKeyPair, error)
	EnsurePairingPair() (PairingKeyPair, error)
}

// TokenStore is the single source of truth for whether a usable access token
// is held. Load self-heals: a partial or expired record is cleared from
// storage and reported as absent.
type TokenStore interface {
	Load(now time.Time) (*TokenRecord, error)
	Save(tr TokenResponse, now time.Time) (TokenRecord, error)
	Clear() error
}

// APIClient is the minimal JSON/HTTP contract against the backend.
type APIClient interface {
	Register(ctx context.Context, req RegisterRequest) (RegistrationResult, error)
	Verify(ctx context.Context, req VerifyRequest) (TokenResponse, error)
	Revoke(ctx context.Context, refreshToken string) error
	Scan(ctx context.Context, accessToken string, req ScanRequest) ([]byte, error)
	Approve(ctx context.Context, accessToken, userCode string, req ApproveRequest) ([]byte, error)
}

// TokenSource hands out the current bearer token, or "" when logged out.
// This is the only auth surface chat/upload collaborators consume.
type TokenSource interface {
	AccessToken() (string, error)
}

// AuthService drives registration, verification, token access and sign-out.
type AuthService interface {
	TokenSource
	SendCode(ctx context.Context, email string) (RegistrationResult, error)
	VerifyCode(ctx context.Context, params VerifyParams) (TokenRecord, error)
	SignOut(ctx context.Context) error
	Status() AuthStatus
}

// PairingService drives the QR device-pairing protocol.
type PairingService interface {
	Scan(ctx context.Context, qrText string) (PairingResult, error)
	Approve(ctx context.Context, userCode string) (PairingResult, error)
	Reset()
	State() PairingState
}
