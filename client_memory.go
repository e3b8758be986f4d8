package goCred

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"

	"github.com/MrEthical07/goCred/password"
)

type memoryFactor struct {
	credentialID string
	salt         string
	derivedKey   string
}

// MemoryCredentialService is an in-process [CredentialService] for tests and
// local development. It mimics the real backend's contract: derived keys are
// stored per identity key, an unknown identity key is [ErrIdentityUnknown], and
// a wrong password is a (false, nil) mismatch, never an error.
//
// The injectable error fields and call counters make failure-path behavior of
// the engine testable without a network.
type MemoryCredentialService struct {
	mu          sync.Mutex
	deriver     *password.Deriver
	credentials map[string][]memoryFactor

	// AuthenticateErr, AddErr and RevokeErr, when set, are returned verbatim
	// by the corresponding call before any state is touched.
	AuthenticateErr error
	AddErr          error
	RevokeErr       error

	// FailAdd makes AddCredentials report (false, nil), the backend's
	// "request accepted but not applied" outcome.
	FailAdd bool

	authenticateCalls int
	addCalls          int
	revokeCalls       int
	lastRevokeKey     string
	lastRevoked       []RevokeFactor
}

// NewMemoryCredentialService describes the newmemorycredentialservice operation and its observable behavior.
//
// NewMemoryCredentialService may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryCredentialService does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryCredentialService(deriver *password.Deriver) (*MemoryCredentialService, error) {
	if deriver == nil {
		return nil, errors.New("factor deriver required")
	}

	return &MemoryCredentialService{
		deriver:     deriver,
		credentials: make(map[string][]memoryFactor),
	}, nil
}

// Authenticate describes the authenticate operation and its observable behavior.
//
// Authenticate may return an error when input validation, dependency calls, or security checks fail.
// Authenticate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryCredentialService) Authenticate(_ context.Context, identityKey string, factor PasswordFactor) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authenticateCalls++

	if s.AuthenticateErr != nil {
		return false, s.AuthenticateErr
	}

	stored, ok := s.credentials[identityKey]
	if !ok {
		return false, ErrIdentityUnknown
	}

	for i := range stored {
		if stored[i].credentialID != factor.CredentialID {
			continue
		}

		derived, err := s.deriver.Derive(factor.Plaintext, stored[i].salt)
		if err != nil {
			return false, nil
		}
		match := subtle.ConstantTimeCompare([]byte(derived), []byte(stored[i].derivedKey)) == 1
		return match, nil
	}

	return false, nil
}

// AddCredentials describes the addcredentials operation and its observable behavior.
//
// AddCredentials may return an error when input validation, dependency calls, or security checks fail.
// AddCredentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryCredentialService) AddCredentials(_ context.Context, identityKey string, factor PasswordFactor) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.addCalls++

	if s.AddErr != nil {
		return false, s.AddErr
	}
	if s.FailAdd {
		return false, nil
	}

	derived, err := s.deriver.Derive(factor.Plaintext, factor.Salt)
	if err != nil {
		return false, err
	}

	s.credentials[identityKey] = append(s.credentials[identityKey], memoryFactor{
		credentialID: factor.CredentialID,
		salt:         factor.Salt,
		derivedKey:   derived,
	})

	return true, nil
}

// RevokeCredentials describes the revokecredentials operation and its observable behavior.
//
// RevokeCredentials may return an error when input validation, dependency calls, or security checks fail.
// RevokeCredentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryCredentialService) RevokeCredentials(_ context.Context, identityKey string, factors []RevokeFactor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revokeCalls++
	s.lastRevokeKey = identityKey
	s.lastRevoked = append([]RevokeFactor(nil), factors...)

	if s.RevokeErr != nil {
		return s.RevokeErr
	}

	stored, ok := s.credentials[identityKey]
	if !ok {
		return ErrIdentityUnknown
	}

	for _, f := range factors {
		kept := stored[:0]
		for i := range stored {
			if stored[i].credentialID != f.CredentialID {
				kept = append(kept, stored[i])
			}
		}
		stored = kept
	}
	s.credentials[identityKey] = stored

	return nil
}

// CredentialIDs returns the ids currently registered under identityKey, in
// insertion order.
func (s *MemoryCredentialService) CredentialIDs(identityKey string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.credentials[identityKey]
	ids := make([]string, 0, len(stored))
	for i := range stored {
		ids = append(ids, stored[i].credentialID)
	}
	return ids
}

// AuthenticateCalls describes the authenticatecalls operation and its observable behavior.
//
// AuthenticateCalls may return an error when input validation, dependency calls, or security checks fail.
// AuthenticateCalls does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryCredentialService) AuthenticateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticateCalls
}

// AddCalls describes the addcalls operation and its observable behavior.
//
// AddCalls may return an error when input validation, dependency calls, or security checks fail.
// AddCalls does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryCredentialService) AddCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCalls
}

// RevokeCalls describes the revokecalls operation and its observable behavior.
//
// RevokeCalls may return an error when input validation, dependency calls, or security checks fail.
// RevokeCalls does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *MemoryCredentialService) RevokeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revokeCalls
}

// LastRevocation returns the identity key and factors of the most recent revoke
// call, or ("", nil) if none happened.
func (s *MemoryCredentialService) LastRevocation() (string, []RevokeFactor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRevokeKey, append([]RevokeFactor(nil), s.lastRevoked...)
}
