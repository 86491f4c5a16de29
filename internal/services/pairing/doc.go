// Package pairing implements QR-based device pairing: a second device scans
// a code shown by an already-authenticated session and approves it by
// signature, without the identity private key ever leaving this device.
//
// The flow is a state machine: idle -> scanning -> {awaiting-approval ->
// approving -> paired} | paired | failed. Duplicate scans inside a short
// window are dropped before any network call, and late responses for a
// superseded attempt are discarded. There is no automatic retry; each attempt
// requires fresh user awareness.
package pairing
