// Package api provides the JSON/HTTP client for the auth and pairing
// backend.
//
// Supported operations:
//   - Registering an email + device public key (send verification code).
//   - Redeeming a verification code with a signed challenge for tokens.
//   - Best-effort refresh-token revocation (form encoded, response ignored).
//   - Scanning a pairing session, bearer-authenticated.
//   - Approving a pairing user code with a device signature.
//
// All requests accept a context for cancellation and deadlines. Non-2xx
// statuses come back as *domain.RequestError carrying the protocol stage, the
// HTTP status, and the verbatim body text for user-facing alerts.
package api
