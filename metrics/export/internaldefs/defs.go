package internaldefs

import (
	goCred "github.com/MrEthical07/goCred"
)

// CounterDef defines a public type used by goCred APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goCred.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the rotation engine.
var CounterDefs = []CounterDef{
	{ID: goCred.MetricRotationSuccess, Name: "gocred_rotation_success_total", Help: "Successful credential rotations."},
	{ID: goCred.MetricRotationInvalidOld, Name: "gocred_rotation_invalid_old_total", Help: "Rotation attempts rejected for an incorrect old password."},
	{ID: goCred.MetricRotationFailure, Name: "gocred_rotation_failure_total", Help: "Rotation attempts aborted by backend or store failures."},
	{ID: goCred.MetricRotationBlocked, Name: "gocred_rotation_blocked_total", Help: "Rotation attempts blocked by the per-user guard."},
	{ID: goCred.MetricProvisioningFailure, Name: "gocred_provisioning_failure_total", Help: "Failed new-credential provisioning calls."},
	{ID: goCred.MetricRevocationPartial, Name: "gocred_revocation_partial_total", Help: "Rotations that succeeded with a failed old-credential revocation."},
	{ID: goCred.MetricResetRevokeAll, Name: "gocred_reset_revoke_all_total", Help: "Reset-path revoke-all operations."},
	{ID: goCred.MetricPersistenceDivergence, Name: "gocred_persistence_divergence_total", Help: "Rotations with the new credential live but not persisted locally."},
	{ID: goCred.MetricProvisionSuccess, Name: "gocred_provision_success_total", Help: "Successful standalone credential provisions."},
}

// AuditDroppedName is an exported constant or variable used by the rotation engine.
const AuditDroppedName = "gocred_audit_dropped_total"

// AuditDroppedHelp is an exported constant or variable used by the rotation engine.
const AuditDroppedHelp = "Dropped audit events due to pipeline backpressure."
