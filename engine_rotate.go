package goCred

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Rotate replaces the user's password. With a non-empty oldPassword and an
// existing credential set it runs the change path: the old password must match
// one stored credential, which is then revoked after the new one is live. With
// an empty oldPassword, or no stored credentials, it runs the reset path and
// revokes every stored credential.
//
// The protocol order is fixed: verify old, provision new, revoke old, persist.
// The new credential is only added after the old password verified, and old
// credentials are only revoked after the new one is live at the backend, so at
// every intermediate point the user still has at least one working credential.
//
// A failed backend revocation on the change path is not a user-facing failure:
// the result carries RevocationFailed and the error is nil. A failed local
// persist after the backend accepted the new credential returns
// [ErrPersistenceDiverged] joined with the cause.
func (e *Engine) Rotate(ctx context.Context, subject Subject, oldPassword, newPassword string) (*RotationResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if subject.UserID == "" {
		return nil, ErrSubjectInvalid
	}
	if newPassword == "" {
		return nil, ErrPasswordPolicy
	}

	if e.guard != nil {
		if err := e.guard.Acquire(ctx, subject.UserID); err != nil {
			e.metricInc(MetricRotationBlocked)
			e.emitAudit(ctx, auditEventRotationBlocked, false, subject.UserID, "", err, nil)
			return nil, err
		}
		defer e.guard.Release(ctx, subject.UserID)
	}

	set, err := e.profileStore.LoadCredentials(ctx, subject.UserID)
	if err != nil {
		e.metricInc(MetricRotationFailure)
		e.emitAudit(ctx, auditEventRotationFailure, false, subject.UserID, "", err, nil)
		return nil, err
	}

	path := PathReset
	var matched *CredentialRecord
	if oldPassword != "" && set.Len() > 0 {
		path = PathChange

		matched, err = e.VerifyPassword(ctx, subject, oldPassword, set)
		if err != nil {
			e.metricInc(MetricRotationFailure)
			e.emitAudit(ctx, auditEventRotationFailure, false, subject.UserID, "", err, nil)
			return nil, err
		}
		if matched == nil {
			e.metricInc(MetricRotationInvalidOld)
			e.emitAudit(ctx, auditEventRotationInvalidOld, false, subject.UserID, "", ErrOldPasswordIncorrect, nil)
			return nil, ErrOldPasswordIncorrect
		}
	}

	newRecord, err := e.provision(ctx, subject, newPassword)
	if err != nil {
		e.metricInc(MetricProvisioningFailure)
		e.emitAudit(ctx, auditEventProvisioningFailure, false, subject.UserID, "", err, nil)
		return nil, err
	}

	reference := referenceFromContext(ctx)
	if reference == "" {
		reference = e.config.Rotation.Reference
	}

	result := RotationResult{
		Credential: newRecord,
		Path:       path,
	}

	if path == PathChange {
		revokeErr := e.credentialService.RevokeCredentials(ctx, matched.UserIDHint, []RevokeFactor{{
			CredentialID: matched.ID,
			Reason:       e.config.Rotation.ChangeReason,
			Reference:    reference,
		}})
		if revokeErr != nil {
			// The new credential is live; losing the revocation must not
			// fail the rotation or leave the retired record in the set.
			result.RevocationFailed = true
			e.metricInc(MetricRevocationPartial)
			e.emitAudit(ctx, auditEventRevocationPartial, false, subject.UserID, matched.ID, revokeErr, nil)
			e.logger.Warn("revoking old credential failed",
				zap.String("user_id", subject.UserID),
				zap.String("credential_id", matched.ID),
				zap.Error(revokeErr),
			)
		} else {
			result.RevokedIDs = []string{matched.ID}
		}

		removeRecord(set, matched.ID)
	} else if set.Len() > 0 {
		result.RevokedIDs, result.RevocationFailed = e.revokeAll(ctx, subject, set, reference)
		e.metricInc(MetricResetRevokeAll)
		e.emitAudit(ctx, auditEventResetRevokeAll, !result.RevocationFailed, subject.UserID, "", nil, func() map[string]string {
			return map[string]string{
				"revoked_count": strconv.Itoa(len(result.RevokedIDs)),
			}
		})

		set.Records = set.Records[:0]
	}

	set.Records = append(set.Records, newRecord)
	if err := e.profileStore.SaveCredentials(ctx, subject.UserID, set); err != nil {
		e.metricInc(MetricPersistenceDivergence)
		e.emitAudit(ctx, auditEventPersistenceDiverged, false, subject.UserID, newRecord.ID, ErrPersistenceDiverged, nil)
		return nil, errors.Join(ErrPersistenceDiverged, err)
	}

	e.metricInc(MetricRotationSuccess)
	e.emitAudit(ctx, auditEventRotationSuccess, true, subject.UserID, newRecord.ID, nil, func() map[string]string {
		return map[string]string{
			"path":          path.String(),
			"revoked_count": strconv.Itoa(len(result.RevokedIDs)),
		}
	})
	e.logger.Info("password rotated",
		zap.String("user_id", subject.UserID),
		zap.String("path", path.String()),
		zap.Int("revoked", len(result.RevokedIDs)),
		zap.Bool("revocation_failed", result.RevocationFailed),
	)

	return &result, nil
}

// ProvisionCredential registers a brand-new credential for the subject without
// touching existing ones. It is the administrative bootstrap path, used when an
// account is created with a known initial password.
func (e *Engine) ProvisionCredential(ctx context.Context, subject Subject, newPassword string) (*CredentialRecord, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if subject.UserID == "" {
		return nil, ErrSubjectInvalid
	}
	if newPassword == "" {
		return nil, ErrPasswordPolicy
	}

	set, err := e.profileStore.LoadCredentials(ctx, subject.UserID)
	if err != nil {
		e.emitAudit(ctx, auditEventProvisionFailure, false, subject.UserID, "", err, nil)
		return nil, err
	}

	record, err := e.provision(ctx, subject, newPassword)
	if err != nil {
		e.metricInc(MetricProvisioningFailure)
		e.emitAudit(ctx, auditEventProvisionFailure, false, subject.UserID, "", err, nil)
		return nil, err
	}

	set.Records = append(set.Records, record)
	if err := e.profileStore.SaveCredentials(ctx, subject.UserID, set); err != nil {
		e.metricInc(MetricPersistenceDivergence)
		e.emitAudit(ctx, auditEventPersistenceDiverged, false, subject.UserID, record.ID, ErrPersistenceDiverged, nil)
		return nil, errors.Join(ErrPersistenceDiverged, err)
	}

	e.metricInc(MetricProvisionSuccess)
	e.emitAudit(ctx, auditEventProvisionSuccess, true, subject.UserID, record.ID, nil, nil)

	return &record, nil
}

// provision registers newPassword at the backend under the canonical user id
// and returns the local record for it. The record's UserIDHint stays empty:
// hints are earned by matching, not assigned at creation.
func (e *Engine) provision(ctx context.Context, subject Subject, newPassword string) (CredentialRecord, error) {
	salt, err := e.deriver.NewSalt()
	if err != nil {
		return CredentialRecord{}, fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}

	record := CredentialRecord{
		ID:          uuid.NewString(),
		Salt:        salt,
		SourceLabel: e.config.Rotation.SourceLabel,
		CreatedAt:   time.Now().UTC(),
	}

	ok, err := e.credentialService.AddCredentials(ctx, subject.UserID, PasswordFactor{
		CredentialID: record.ID,
		Plaintext:    newPassword,
		Salt:         salt,
	})
	if err != nil {
		return CredentialRecord{}, fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}
	if !ok {
		return CredentialRecord{}, ErrProvisioningFailed
	}

	return record, nil
}

// revokeAll retires every record in the set with a single batched revoke call
// keyed by the canonical user id, best effort. The old secret is unknown on the
// reset path, so all prior credentials go at once; a failed batch is logged and
// reported but never blocks the rotation.
func (e *Engine) revokeAll(ctx context.Context, subject Subject, set *CredentialSet, reference string) (revoked []string, failed bool) {
	factors := make([]RevokeFactor, 0, set.Len())
	for i := range set.Records {
		factors = append(factors, RevokeFactor{
			CredentialID: set.Records[i].ID,
			Reason:       e.config.Rotation.ResetReason,
			Reference:    reference,
		})
	}

	if err := e.credentialService.RevokeCredentials(ctx, subject.UserID, factors); err != nil {
		e.logger.Warn("revoking credentials during reset failed",
			zap.String("user_id", subject.UserID),
			zap.Int("credentials", len(factors)),
			zap.Error(err),
		)
		return nil, true
	}

	return set.IDs(), false
}

func removeRecord(set *CredentialSet, id string) {
	kept := set.Records[:0]
	for i := range set.Records {
		if set.Records[i].ID != id {
			kept = append(kept, set.Records[i])
		}
	}
	set.Records = kept
}
