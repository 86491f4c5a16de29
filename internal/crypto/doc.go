// Package crypto exposes the minimal primitives used by pairauth.
//
// Contents
//
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - X25519 key generation for the pairing box pair (GenerateX25519)
//   - Authenticated decryption of pairing envelopes (OpenBox)
//   - Base64 helpers for wire and storage encoding (B64, B64Decode)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// All functions use fixed-size array types defined in internal/domain so an
// Ed25519 key cannot be passed where an X25519 key is expected.
package crypto
