package auth

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pairauth/internal/crypto"
	"pairauth/internal/domain"
)

// Service drives registration, verification, token access and sign-out.
//
// Registration/verification are single-flight by caller convention (the
// triggering control is disabled while a request is outstanding); the service
// itself does not deduplicate, but concurrent calls cannot corrupt the token
// store — the last completed write wins.
type Service struct {
	keys   domain.Keyring
	tokens domain.TokenStore
	api    domain.APIClient
	log    zerolog.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     domain.AuthState
	email     string
	challenge string
	token     string
	subs      []func(domain.AuthStatus)
}

// New builds the session and determines the initial state: a valid persisted
// token means logged-in, anything else logged-out. Both key pairs are ensured
// up front regardless of auth state, since the pairing identity must exist
// before first login.
func New(keys domain.Keyring, tokens domain.TokenStore, client domain.APIClient, log zerolog.Logger) (*Service, error) {
	s := &Service{
		keys:   keys,
		tokens: tokens,
		api:    client,
		log:    log,
		now:    time.Now,
	}

	if _, err := keys.EnsureIdentity(); err != nil {
		return nil, err
	}
	if _, err := keys.EnsurePairingPair(); err != nil {
		return nil, err
	}

	rec, err := tokens.Load(s.now())
	if err != nil {
		return nil, fmt.Errorf("loading tokens: %w", err)
	}
	if rec != nil {
		s.state = domain.LoggedIn
		s.token = rec.AccessToken
	}
	return s, nil
}

// Subscribe registers fn to be called after every state transition.
func (s *Service) Subscribe(fn func(domain.AuthStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Status returns a snapshot of the current session state.
func (s *Service) Status() domain.AuthStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Service) statusLocked() domain.AuthStatus {
	return domain.AuthStatus{
		State:       s.state,
		Email:       s.email,
		Challenge:   s.challenge,
		AccessToken: s.token,
	}
}

// transition mutates state under the lock and notifies subscribers after
// releasing it.
func (s *Service) transition(fn func()) {
	s.mu.Lock()
	fn()
	status := s.statusLocked()
	subs := append(([]func(domain.AuthStatus))(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(status)
	}
}

// SendCode requests an email verification code. The registration body carries
// the persisted identity public key so the server can bind the challenge to
// this device.
func (s *Service) SendCode(ctx context.Context, email string) (domain.RegistrationResult, error) {
	if !strings.Contains(email, "@") {
		return domain.RegistrationResult{}, domain.ErrInvalidEmail
	}

	id, err := s.keys.EnsureIdentity()
	if err != nil {
		return domain.RegistrationResult{}, err
	}

	res, err := s.api.Register(ctx, domain.RegisterRequest{
		Email:      email,
		PublicKey:  crypto.B64(id.Public.Slice()),
		DeviceInfo: domain.DeviceInfo{Platform: runtime.GOOS},
	})
	if err != nil {
		return domain.RegistrationResult{}, err
	}

	s.transition(func() {
		s.state = domain.AwaitingVerification
		s.email = email
		s.challenge = res.Challenge
	})
	s.log.Debug().Str("email", email).Msg("verification code requested")
	return res, nil
}

// VerifyCode signs the challenge with the identity private key and redeems
// the emailed code for tokens. On success the record is persisted and the
// session becomes logged-in.
func (s *Service) VerifyCode(ctx context.Context, params domain.VerifyParams) (domain.TokenRecord, error) {
	if params.Code == "" {
		return domain.TokenRecord{}, domain.ErrInvalidCode
	}

	id, err := s.keys.EnsureIdentity()
	if err != nil {
		return domain.TokenRecord{}, err
	}
	sig := crypto.SignEd25519(id.Private, []byte(params.Challenge))

	resp, err := s.api.Verify(ctx, domain.VerifyRequest{
		Email:     params.Email,
		Code:      params.Code,
		Challenge: params.Challenge,
		Signature: crypto.B64(sig),
	})
	if err != nil {
		return domain.TokenRecord{}, err
	}

	rec, err := s.tokens.Save(resp, s.now())
	if err != nil {
		return domain.TokenRecord{}, fmt.Errorf("saving tokens: %w", err)
	}

	s.transition(func() {
		s.state = domain.LoggedIn
		s.token = rec.AccessToken
		s.challenge = ""
	})
	s.log.Debug().Time("expires_at", rec.ExpiresAt).Msg("logged in")
	return rec, nil
}

// AccessToken re-validates the persisted token on every call. An expired or
// missing token clears storage and silently degrades the session to
// logged-out; "" means no usable token.
func (s *Service) AccessToken() (string, error) {
	rec, err := s.tokens.Load(s.now())
	if err != nil {
		return "", err
	}
	if rec == nil {
		s.mu.Lock()
		wasLoggedIn := s.state == domain.LoggedIn
		s.mu.Unlock()
		if wasLoggedIn {
			s.transition(func() {
				s.state = domain.LoggedOut
				s.token = ""
			})
			s.log.Debug().Msg("session expired")
		}
		return "", nil
	}
	return rec.AccessToken, nil
}

// SignOut revokes the refresh token server-side when one is held, then clears
// local state. Revocation failure is logged and swallowed: local sign-out
// always succeeds.
func (s *Service) SignOut(ctx context.Context) error {
	rec, err := s.tokens.Load(s.now())
	if err == nil && rec != nil && rec.RefreshToken != "" {
		if err := s.api.Revoke(ctx, rec.RefreshToken); err != nil {
			s.log.Warn().Err(err).Msg("token revocation failed")
		}
	}

	clearErr := s.tokens.Clear()

	s.transition(func() {
		s.state = domain.LoggedOut
		s.email = ""
		s.challenge = ""
		s.token = ""
	})
	return clearErr
}

// Compile-time assertion that Service implements domain.AuthService.
var _ domain.AuthService = (*Service)(nil)
