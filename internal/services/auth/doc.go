// Package auth implements the authentication session: email registration,
// code verification, token access with lazy expiry, and sign-out.
//
// The session is an explicit state machine (logged-out, awaiting-verification,
// logged-in) over injected keyring, token store and API client dependencies.
// State changes are pushed to subscribers rather than held in ambient global
// state.
package auth
