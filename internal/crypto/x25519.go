package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/curve25519"

	"pairauth/internal/domain"
)

// GenerateX25519 returns a fresh Curve25519 key pair for the pairing box.
// The secret is clamped per RFC 7748.
func GenerateX25519() (secret domain.X25519Secret, pub domain.X25519Public, err error) {
	if _, err = rand.Read(secret[:]); err != nil {
		return
	}
	clamp(&secret)
	pb, err := curve25519.X25519(secret.Slice(), curve25519.Basepoint)
	if err != nil {
		return
	}
	copy(pub[:], pb)
	return
}

func clamp(k *domain.X25519Secret) {
	kb := k[:]
	kb[0] &= 248
	kb[31] &= 127
	kb[31] |= 64
}
