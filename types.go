package goCred

import (
	"context"
	"time"
)

// CredentialRecord is the local metadata for one password credential registered
// with the credential backend. It never carries the plaintext secret; the backend
// owns the secret material and the record references it by ID.
//
// UserIDHint caches which identity key last authenticated this credential. It is
// an optimization written back by the matcher, not an authoritative field.
type CredentialRecord struct {
	ID          string
	Salt        string
	SourceLabel string
	CreatedAt   time.Time
	UserIDHint  string
}

// CredentialSet is the ordered sequence of credential records belonging to one
// user. Insertion order is significant: the matcher and revocation both iterate
// it in order, and a failed or partial rotation never reorders it.
type CredentialSet struct {
	Records []CredentialRecord
}

// Len describes the len operation and its observable behavior.
//
// Len may return an error when input validation, dependency calls, or security checks fail.
// Len does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *CredentialSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Clone describes the clone operation and its observable behavior.
//
// Clone may return an error when input validation, dependency calls, or security checks fail.
// Clone does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *CredentialSet) Clone() *CredentialSet {
	if s == nil {
		return &CredentialSet{}
	}
	out := &CredentialSet{Records: make([]CredentialRecord, len(s.Records))}
	copy(out.Records, s.Records)
	return out
}

// IDs describes the ids operation and its observable behavior.
//
// IDs may return an error when input validation, dependency calls, or security checks fail.
// IDs does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *CredentialSet) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.Records))
	for i := range s.Records {
		ids = append(ids, s.Records[i].ID)
	}
	return ids
}

// Subject identifies the user whose credentials are being rotated. UserID is the
// canonical identity key at the credential backend; Aliases are legacy identity
// keys (historically email addresses) still addressing older credentials, tried
// in the given order during matching.
type Subject struct {
	UserID  string
	Aliases []string
}

// RotationPath reports which protocol variant a rotation took.
type RotationPath uint8

const (
	// PathChange is an exported constant or variable used by the rotation engine.
	PathChange RotationPath = iota
	// PathReset is an exported constant or variable used by the rotation engine.
	PathReset
)

// String describes the string operation and its observable behavior.
//
// String may return an error when input validation, dependency calls, or security checks fail.
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p RotationPath) String() string {
	switch p {
	case PathChange:
		return "change"
	case PathReset:
		return "reset"
	default:
		return "unknown"
	}
}

// RotationResult is returned by [Engine.Rotate] on success. RevocationFailed set
// with a nil error means the new credential is live and authentication works, but
// retiring the old credential at the backend failed — an accepted, observable
// risk, not a user-facing failure.
type RotationResult struct {
	Credential       CredentialRecord
	Path             RotationPath
	RevokedIDs       []string
	RevocationFailed bool
}

// PasswordFactor is the wire shape for authenticate/add calls against the
// credential backend. Plaintext is consumed by the client implementation to
// derive the transported key material; it is never stored.
type PasswordFactor struct {
	CredentialID string
	Plaintext    string
	Salt         string
}

// RevokeFactor is the wire shape for revocation calls against the credential
// backend.
type RevokeFactor struct {
	CredentialID string
	Reason       string
	Reference    string
}

// CredentialService is the boundary to the external credential backend. It is
// the system of record for secret material; implementations must distinguish a
// plain authentication mismatch (false, nil) from backend failures.
//
// Implementations: [HTTPCredentialService] for the real RPC backend,
// [MemoryCredentialService] as an injectable test double.
type CredentialService interface {
	Authenticate(ctx context.Context, identityKey string, factor PasswordFactor) (bool, error)
	AddCredentials(ctx context.Context, identityKey string, factor PasswordFactor) (bool, error)
	RevokeCredentials(ctx context.Context, identityKey string, factors []RevokeFactor) error
}

// ProfileStore persists a user's credential metadata set. The engine owns the
// record-level decisions; the store owns durability only.
type ProfileStore interface {
	LoadCredentials(ctx context.Context, userID string) (*CredentialSet, error)
	SaveCredentials(ctx context.Context, userID string, set *CredentialSet) error
}
