package goCred

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the rotation engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrSubjectInvalid is an exported constant or variable used by the rotation engine.
	ErrSubjectInvalid = errors.New("subject missing canonical user id")
	// ErrPasswordPolicy is an exported constant or variable used by the rotation engine.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrOldPasswordIncorrect is an exported constant or variable used by the rotation engine.
	ErrOldPasswordIncorrect = errors.New("old password incorrect")
	// ErrProvisioningFailed is an exported constant or variable used by the rotation engine.
	ErrProvisioningFailed = errors.New("credential provisioning failed")
	// ErrPersistenceDiverged is an exported constant or variable used by the rotation engine.
	ErrPersistenceDiverged = errors.New("new credential live at backend but not persisted locally")
	// ErrCredentialServiceUnavailable is an exported constant or variable used by the rotation engine.
	ErrCredentialServiceUnavailable = errors.New("credential service unavailable")
	// ErrIdentityUnknown is an exported constant or variable used by the rotation engine.
	ErrIdentityUnknown = errors.New("identity key unknown to credential service")
	// ErrProfileStoreUnavailable is an exported constant or variable used by the rotation engine.
	ErrProfileStoreUnavailable = errors.New("profile store unavailable")
	// ErrRotationInProgress is an exported constant or variable used by the rotation engine.
	ErrRotationInProgress = errors.New("rotation already in progress for user")
	// ErrRotationGuardUnavailable is an exported constant or variable used by the rotation engine.
	ErrRotationGuardUnavailable = errors.New("rotation guard backend unavailable")
)
