package goCred

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventRotationSuccess     = "rotation_success"
	auditEventRotationInvalidOld  = "rotation_invalid_old"
	auditEventRotationFailure     = "rotation_failure"
	auditEventRotationBlocked     = "rotation_blocked"
	auditEventProvisioningFailure = "rotation_provisioning_failure"
	auditEventRevocationPartial   = "rotation_revocation_partial"
	auditEventResetRevokeAll      = "rotation_reset_revoke_all"
	auditEventPersistenceDiverged = "rotation_persistence_diverged"
	auditEventProvisionSuccess    = "provision_success"
	auditEventProvisionFailure    = "provision_failure"
)

// AuditErrorCode defines a public type used by goCred APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrOldPasswordIncorrect AuditErrorCode = "old_password_incorrect"
	auditErrProvisioningFailed   AuditErrorCode = "provisioning_failed"
	auditErrPersistenceDiverged  AuditErrorCode = "persistence_diverged"
	auditErrServiceUnavailable   AuditErrorCode = "credential_service_unavailable"
	auditErrIdentityUnknown      AuditErrorCode = "identity_unknown"
	auditErrProfileUnavailable   AuditErrorCode = "profile_store_unavailable"
	auditErrRotationInProgress   AuditErrorCode = "rotation_in_progress"
	auditErrGuardUnavailable     AuditErrorCode = "rotation_guard_unavailable"
	auditErrSubjectInvalid       AuditErrorCode = "subject_invalid"
	auditErrPasswordPolicy       AuditErrorCode = "password_policy"
	auditErrInternal             AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	credentialID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:    time.Now().UTC(),
		EventType:    eventType,
		UserID:       userID,
		CredentialID: credentialID,
		IP:           clientIPFromContext(ctx),
		Success:      success,
		Metadata:     metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrOldPasswordIncorrect):
		return auditErrOldPasswordIncorrect
	case errors.Is(err, ErrProvisioningFailed):
		return auditErrProvisioningFailed
	case errors.Is(err, ErrPersistenceDiverged):
		return auditErrPersistenceDiverged
	case errors.Is(err, ErrIdentityUnknown):
		return auditErrIdentityUnknown
	case errors.Is(err, ErrCredentialServiceUnavailable):
		return auditErrServiceUnavailable
	case errors.Is(err, ErrProfileStoreUnavailable):
		return auditErrProfileUnavailable
	case errors.Is(err, ErrRotationInProgress):
		return auditErrRotationInProgress
	case errors.Is(err, ErrRotationGuardUnavailable):
		return auditErrGuardUnavailable
	case errors.Is(err, ErrSubjectInvalid):
		return auditErrSubjectInvalid
	case errors.Is(err, ErrPasswordPolicy):
		return auditErrPasswordPolicy
	default:
		return auditErrInternal
	}
}
