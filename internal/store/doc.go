// Package store persists key material and session tokens on disk.
//
// Everything lives in a single flat key-value file of string values
// (state.json under the config dir). Writes go through a temp file and an
// atomic rename, and multi-key updates land in one commit so a key pair is
// persisted both-or-neither.
//
// Key layout:
//
//	access_token, refresh_token, expires_at        session tokens
//	ed25519_private_key, ed25519_public_key        identity pair (base64)
//	x25519_secret, x25519_public                   pairing pair (base64)
package store
