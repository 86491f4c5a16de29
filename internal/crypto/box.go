package crypto

import (
	"golang.org/x/crypto/nacl/box"

	"pairauth/internal/domain"
)

// OpenBox decrypts a pairing envelope sealed to our X25519 public key.
// Returns domain.ErrDecryptionFailed when authentication fails; the payload
// must not be trusted in any part.
func OpenBox(ciphertext, nonce []byte, serverPub domain.X25519Public, secret domain.X25519Secret) ([]byte, error) {
	if len(nonce) != 24 {
		return nil, domain.ErrDecryptionFailed
	}
	var n [24]byte
	copy(n[:], nonce)
	peer := [32]byte(serverPub)
	own := [32]byte(secret)
	out, ok := box.Open(nil, ciphertext, &n, &peer, &own)
	if !ok {
		return nil, domain.ErrDecryptionFailed
	}
	return out, nil
}
