// Package commands defines the pairauth CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - register     Request an email verification code
//   - verify       Redeem the code and log this device in
//   - status       Show session state, expiry and token claims
//   - pair         Scan a QR payload and pair this device
//   - logout       Revoke and clear the local session
//   - fingerprint  Print the identity public key fingerprint
//
// # Implementation
//
// The root command builds a dependency graph (kv store, API client, auth and
// pairing services) before any subcommand runs, so handlers share one app
// context. The base URL comes from --base-url or PAIRAUTH_BASE_URL.
package commands
