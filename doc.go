// Package goCred implements the server-side credential rotation protocol for
// identity systems that delegate password storage and verification to a remote
// credential backend: verify the old credential, provision a new one, retire the
// old one(s), and persist the updated credential metadata — without ever leaving
// a user with zero usable credentials or two conflicting current ones.
//
// The package is designed for request-scoped server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goCred is the public surface. It exposes [Engine], [Builder], [Config], the
// [CredentialService] and [ProfileStore] boundaries, and value types
// (CredentialRecord, RotationResult, MetricsSnapshot, etc.). The credential backend
// owns the actual secret material; goCred only ever holds credential ids and salts.
//
// # What this package must NOT do
//
//   - Persist or log plaintext passwords, or embed them in credential records.
//   - Reorder a user's stored credential set as a side effect of a failed or
//     partial rotation.
//   - Interpret a credential-backend outage as "no match" during verification;
//     outages propagate so a reset path is never granted by accident.
//
// # Consistency contract
//
// Rotate provisions the new credential before touching the old ones, so a failure
// at any phase leaves the user with at least one working credential. A revocation
// failure after provisioning is a success for the user and is surfaced through
// RotationResult and the audit stream. A persistence failure after provisioning is
// returned as ErrPersistenceDiverged and must be treated as an operator-attention
// condition.
package goCred
