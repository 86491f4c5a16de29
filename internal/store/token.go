package store

import (
	"strconv"
	"time"

	"pairauth/internal/domain"
)

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyExpiresAt    = "expires_at" // epoch millis, as string
)

// TokenFileStore persists the session token record in the kv file.
type TokenFileStore struct {
	kv *FileKV
}

// NewTokenFileStore returns a TokenFileStore over kv.
func NewTokenFileStore(kv *FileKV) *TokenFileStore { return &TokenFileStore{kv: kv} }

// Load returns the persisted record, or nil when no usable token is held.
// A partial, unparsable or expired record is cleared from storage before
// returning nil so subsequent loads stay consistent.
func (s *TokenFileStore) Load(now time.Time) (*domain.TokenRecord, error) {
	m, err := s.kv.GetAll(keyAccessToken, keyRefreshToken, keyExpiresAt)
	if err != nil {
		return nil, err
	}

	token, okToken := m[keyAccessToken]
	expStr, okExp := m[keyExpiresAt]
	if !okToken || !okExp || token == "" {
		return nil, s.Clear()
	}
	millis, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return nil, s.Clear()
	}

	rec := &domain.TokenRecord{
		AccessToken:  token,
		RefreshToken: m[keyRefreshToken],
		ExpiresAt:    time.UnixMilli(millis),
	}
	if !rec.Valid(now) {
		return nil, s.Clear()
	}
	return rec, nil
}

// Save persists the token response, computing the absolute expiry from now.
// When the response carries no refresh token, any stale one is removed in the
// same commit.
func (s *TokenFileStore) Save(tr domain.TokenResponse, now time.Time) (domain.TokenRecord, error) {
	expiresAt := now.Add(time.Duration(tr.ExpiresIn) * time.Second)

	err := s.kv.Update(func(m map[string]string) {
		m[keyAccessToken] = tr.AccessToken
		m[keyExpiresAt] = strconv.FormatInt(expiresAt.UnixMilli(), 10)
		if tr.RefreshToken != "" {
			m[keyRefreshToken] = tr.RefreshToken
		} else {
			delete(m, keyRefreshToken)
		}
	})
	if err != nil {
		return domain.TokenRecord{}, err
	}

	return domain.TokenRecord{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// Clear removes all token fields. Idempotent.
func (s *TokenFileStore) Clear() error {
	return s.kv.Delete(keyAccessToken, keyRefreshToken, keyExpiresAt)
}

// Compile-time assertion that TokenFileStore implements domain.TokenStore.
var _ domain.TokenStore = (*TokenFileStore)(nil)
