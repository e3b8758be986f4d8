package goCred

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// VerifyPassword checks plaintext against the user's credential set, record by
// record in stored order. For each record it tries the backend under every
// candidate identity key in fallback order: the record's cached hint first,
// then the canonical user id, then each alias. Older credentials may only be
// registered under a legacy key, so a miss on one key is not a miss overall.
//
// An identity key the backend does not know ([ErrIdentityUnknown]) moves on to
// the next candidate; any other backend error aborts the whole match, because
// treating an outage as "no match" would silently flip a change into a reset.
//
// On success the matched record's UserIDHint is updated in place to the key
// that worked, and the record is returned. A clean exhaustion returns
// (nil, nil).
func (e *Engine) VerifyPassword(ctx context.Context, subject Subject, plaintext string, set *CredentialSet) (*CredentialRecord, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if subject.UserID == "" {
		return nil, ErrSubjectInvalid
	}

	for i := range set.Records {
		rec := &set.Records[i]

		for _, key := range candidateKeys(rec.UserIDHint, subject) {
			ok, err := e.credentialService.Authenticate(ctx, key, PasswordFactor{
				CredentialID: rec.ID,
				Plaintext:    plaintext,
				Salt:         rec.Salt,
			})
			if errors.Is(err, ErrIdentityUnknown) {
				e.logger.Debug("identity key unknown, trying next candidate",
					zap.String("user_id", subject.UserID),
					zap.String("credential_id", rec.ID),
				)
				continue
			}
			if err != nil {
				return nil, err
			}
			if ok {
				rec.UserIDHint = key
				return rec, nil
			}
		}
	}

	return nil, nil
}

func candidateKeys(hint string, subject Subject) []string {
	keys := make([]string, 0, 2+len(subject.Aliases))
	seen := make(map[string]struct{}, 2+len(subject.Aliases))

	add := func(key string) {
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	add(hint)
	add(subject.UserID)
	for _, alias := range subject.Aliases {
		add(alias)
	}

	return keys
}
