package domain

import "fmt"

// ------------- Ed25519 (identity / signing) -------------

type Ed25519Private [64]byte
type Ed25519Public [32]byte

func (k Ed25519Private) Slice() []byte { return k[:] }
func (k Ed25519Public) Slice() []byte  { return k[:] }

func Ed25519PrivateFromBytes(b []byte) (Ed25519Private, error) {
	var out Ed25519Private
	if len(b) != 64 {
		return out, fmt.Errorf("Ed25519 private: want 64 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func Ed25519PublicFromBytes(b []byte) (Ed25519Public, error) {
	var out Ed25519Public
	if len(b) != 32 {
		return out, fmt.Errorf("Ed25519 public: want 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

// ------------- X25519 (pairing / box) -------------

type X25519Secret [32]byte
type X25519Public [32]byte

func (k X25519Secret) Slice() []byte { return k[:] }
func (k X25519Public) Slice() []byte { return k[:] }

func X25519SecretFromBytes(b []byte) (X25519Secret, error) {
	var out X25519Secret
	if len(b) != 32 {
		return out, fmt.Errorf("X25519 secret: want 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func X25519PublicFromBytes(b []byte) (X25519Public, error) {
	var out X25519Public
	if len(b) != 32 {
		return out, fmt.Errorf("X25519 public: want 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

// IdentityKeyPair is the device's long-lived Ed25519 signing pair. It is
// created once per install and never rotated automatically.
type IdentityKeyPair struct {
	Private Ed25519Private
	Public  Ed25519Public
}

// PairingKeyPair is the X25519 pair used only to decrypt pairing payloads
// addressed to this device. Regenerated only if missing from storage.
type PairingKeyPair struct {
	Secret X25519Secret
	Public X25519Public
}
