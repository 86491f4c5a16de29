package store

import (
	"fmt"

	"pairauth/internal/crypto"
	"pairauth/internal/domain"
)

const (
	keyEdPriv  = "ed25519_private_key"
	keyEdPub   = "ed25519_public_key"
	keyXSecret = "x25519_secret"
	keyXPublic = "x25519_public"
)

// KeyringStore holds the device's two key pairs in the kv file, generating
// each on first use. If only one half of a pair survives a crashed write the
// pair counts as not-yet-persisted and is regenerated.
type KeyringStore struct {
	kv *FileKV
}

// NewKeyringStore returns a KeyringStore over kv.
func NewKeyringStore(kv *FileKV) *KeyringStore { return &KeyringStore{kv: kv} }

// EnsureIdentity returns the persisted Ed25519 identity pair, generating and
// persisting a fresh one when absent.
func (s *KeyringStore) EnsureIdentity() (domain.IdentityKeyPair, error) {
	var pair domain.IdentityKeyPair

	m, err := s.kv.GetAll(keyEdPriv, keyEdPub)
	if err != nil {
		return pair, &domain.KeyStoreError{Err: err}
	}
	privB64, okPriv := m[keyEdPriv]
	pubB64, okPub := m[keyEdPub]

	if okPriv && okPub {
		priv, err := decodeEd25519Private(privB64)
		if err != nil {
			return pair, &domain.KeyStoreError{Err: err}
		}
		pub, err := decodeEd25519Public(pubB64)
		if err != nil {
			return pair, &domain.KeyStoreError{Err: err}
		}
		return domain.IdentityKeyPair{Private: priv, Public: pub}, nil
	}

	priv, pub, err := crypto.GenerateEd25519()
	if err != nil {
		return pair, &domain.KeyStoreError{Err: err}
	}
	// One commit writes both halves: both-or-neither.
	err = s.kv.Set(map[string]string{
		keyEdPriv: crypto.B64(priv.Slice()),
		keyEdPub:  crypto.B64(pub.Slice()),
	})
	if err != nil {
		return pair, &domain.KeyStoreError{Err: err}
	}
	return domain.IdentityKeyPair{Private: priv, Public: pub}, nil
}

// EnsurePairingPair returns the persisted X25519 box pair, generating and
// persisting a fresh one when absent.
func (s *KeyringStore) EnsurePairingPair() (domain.PairingKeyPair, error) {
	var pair domain.PairingKeyPair

	m, err := s.kv.GetAll(keyXSecret, keyXPublic)
	if err != nil {
		return pair, &domain.KeyStoreError{Err: err}
	}
	secB64, okSec := m[keyXSecret]
	pubB64, okPub := m[keyXPublic]

	if okSec && okPub {
		sec, err := decodeX25519Secret(secB64)
		if err != nil {
			return pair, &domain.KeyStoreError{Err: err}
		}
		pub, err := decodeX25519Public(pubB64)
		if err != nil {
			return pair, &domain.KeyStoreError{Err: err}
		}
		return domain.PairingKeyPair{Secret: sec, Public: pub}, nil
	}

	sec, pub, err := crypto.GenerateX25519()
	if err != nil {
		return pair, &domain.KeyStoreError{Err: err}
	}
	err = s.kv.Set(map[string]string{
		keyXSecret: crypto.B64(sec.Slice()),
		keyXPublic: crypto.B64(pub.Slice()),
	})
	if err != nil {
		return pair, &domain.KeyStoreError{Err: err}
	}
	return domain.PairingKeyPair{Secret: sec, Public: pub}, nil
}

func decodeEd25519Private(b64 string) (domain.Ed25519Private, error) {
	b, err := crypto.B64Decode(b64)
	if err != nil {
		return domain.Ed25519Private{}, fmt.Errorf("decoding %s: %w", keyEdPriv, err)
	}
	// The fixed-size array owns the key from here on.
	defer crypto.Wipe(b)
	return domain.Ed25519PrivateFromBytes(b)
}

func decodeEd25519Public(b64 string) (domain.Ed25519Public, error) {
	b, err := crypto.B64Decode(b64)
	if err != nil {
		return domain.Ed25519Public{}, fmt.Errorf("decoding %s: %w", keyEdPub, err)
	}
	return domain.Ed25519PublicFromBytes(b)
}

func decodeX25519Secret(b64 string) (domain.X25519Secret, error) {
	b, err := crypto.B64Decode(b64)
	if err != nil {
		return domain.X25519Secret{}, fmt.Errorf("decoding %s: %w", keyXSecret, err)
	}
	defer crypto.Wipe(b)
	return domain.X25519SecretFromBytes(b)
}

func decodeX25519Public(b64 string) (domain.X25519Public, error) {
	b, err := crypto.B64Decode(b64)
	if err != nil {
		return domain.X25519Public{}, fmt.Errorf("decoding %s: %w", keyXPublic, err)
	}
	return domain.X25519PublicFromBytes(b)
}

// Compile-time assertion that KeyringStore implements domain.Keyring.
var _ domain.Keyring = (*KeyringStore)(nil)
