package goCred

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type matchAttempt struct {
	identityKey  string
	credentialID string
}

// scriptedCredentialService answers Authenticate from a script keyed by
// (identity key, credential id) and records the exact attempt order.
type scriptedCredentialService struct {
	attempts []matchAttempt
	respond  func(identityKey, credentialID string) (bool, error)
}

func (s *scriptedCredentialService) Authenticate(_ context.Context, identityKey string, factor PasswordFactor) (bool, error) {
	s.attempts = append(s.attempts, matchAttempt{identityKey, factor.CredentialID})
	return s.respond(identityKey, factor.CredentialID)
}

func (s *scriptedCredentialService) AddCredentials(context.Context, string, PasswordFactor) (bool, error) {
	return true, nil
}

func (s *scriptedCredentialService) RevokeCredentials(context.Context, string, []RevokeFactor) error {
	return nil
}

func newMatchEngine(t *testing.T, svc CredentialService) *Engine {
	t.Helper()
	return newRotationEngine(t, svc, newMockProfileStore(), newTestDeriver(t))
}

func TestVerifyPasswordFallbackOrder(t *testing.T) {
	svc := &scriptedCredentialService{
		respond: func(identityKey, _ string) (bool, error) {
			// Only the legacy alias still knows this credential.
			if identityKey == "old@example.org" {
				return true, nil
			}
			return false, ErrIdentityUnknown
		},
	}

	engine := newMatchEngine(t, svc)

	set := &CredentialSet{Records: []CredentialRecord{
		{ID: "c1", UserIDHint: "hint@example.org"},
	}}

	matched, err := engine.VerifyPassword(context.Background(), Subject{
		UserID:  "u1",
		Aliases: []string{"old@example.org"},
	}, "secret", set)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if matched == nil || matched.ID != "c1" {
		t.Fatalf("expected c1 to match, got %+v", matched)
	}

	want := []matchAttempt{
		{"hint@example.org", "c1"},
		{"u1", "c1"},
		{"old@example.org", "c1"},
	}
	if fmt.Sprint(svc.attempts) != fmt.Sprint(want) {
		t.Fatalf("unexpected attempt order:\n got %v\nwant %v", svc.attempts, want)
	}

	if set.Records[0].UserIDHint != "old@example.org" {
		t.Fatalf("expected hint updated to working key, got %q", set.Records[0].UserIDHint)
	}
}

func TestVerifyPasswordTriesRecordsInStoredOrder(t *testing.T) {
	svc := &scriptedCredentialService{
		respond: func(_, credentialID string) (bool, error) {
			return credentialID == "c2", nil
		},
	}

	engine := newMatchEngine(t, svc)

	set := &CredentialSet{Records: []CredentialRecord{
		{ID: "c1"},
		{ID: "c2"},
		{ID: "c3"},
	}}

	matched, err := engine.VerifyPassword(context.Background(), Subject{UserID: "u1"}, "secret", set)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if matched == nil || matched.ID != "c2" {
		t.Fatalf("expected c2 to match, got %+v", matched)
	}

	want := []matchAttempt{
		{"u1", "c1"},
		{"u1", "c2"},
	}
	if fmt.Sprint(svc.attempts) != fmt.Sprint(want) {
		t.Fatalf("unexpected attempt order:\n got %v\nwant %v", svc.attempts, want)
	}

	// Matching never reorders the stored set.
	if set.Records[0].ID != "c1" || set.Records[1].ID != "c2" || set.Records[2].ID != "c3" {
		t.Fatalf("expected stored order untouched, got %v", set.IDs())
	}
}

func TestVerifyPasswordDedupesCandidateKeys(t *testing.T) {
	svc := &scriptedCredentialService{
		respond: func(string, string) (bool, error) {
			return false, nil
		},
	}

	engine := newMatchEngine(t, svc)

	set := &CredentialSet{Records: []CredentialRecord{
		{ID: "c1", UserIDHint: "u1"},
	}}

	matched, err := engine.VerifyPassword(context.Background(), Subject{
		UserID:  "u1",
		Aliases: []string{"u1", "old@example.org"},
	}, "secret", set)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if matched != nil {
		t.Fatalf("expected no match, got %+v", matched)
	}

	want := []matchAttempt{
		{"u1", "c1"},
		{"old@example.org", "c1"},
	}
	if fmt.Sprint(svc.attempts) != fmt.Sprint(want) {
		t.Fatalf("expected deduped candidates:\n got %v\nwant %v", svc.attempts, want)
	}
}

func TestVerifyPasswordBackendErrorAborts(t *testing.T) {
	backendDown := fmt.Errorf("%w: connection refused", ErrCredentialServiceUnavailable)

	svc := &scriptedCredentialService{
		respond: func(string, string) (bool, error) {
			return false, backendDown
		},
	}

	engine := newMatchEngine(t, svc)

	set := &CredentialSet{Records: []CredentialRecord{
		{ID: "c1"},
		{ID: "c2"},
	}}

	_, err := engine.VerifyPassword(context.Background(), Subject{UserID: "u1"}, "secret", set)
	if !errors.Is(err, ErrCredentialServiceUnavailable) {
		t.Fatalf("expected ErrCredentialServiceUnavailable, got %v", err)
	}

	// An outage must abort immediately, not degrade into a reset.
	if len(svc.attempts) != 1 {
		t.Fatalf("expected a single attempt before aborting, got %d", len(svc.attempts))
	}
}

func TestVerifyPasswordNoMatchIsNotAnError(t *testing.T) {
	svc := &scriptedCredentialService{
		respond: func(string, string) (bool, error) {
			return false, nil
		},
	}

	engine := newMatchEngine(t, svc)

	set := &CredentialSet{Records: []CredentialRecord{{ID: "c1"}}}

	matched, err := engine.VerifyPassword(context.Background(), Subject{UserID: "u1"}, "secret", set)
	if err != nil {
		t.Fatalf("expected clean no-match, got %v", err)
	}
	if matched != nil {
		t.Fatalf("expected nil record, got %+v", matched)
	}
}
