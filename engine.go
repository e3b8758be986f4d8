package goCred

import (
	"github.com/MrEthical07/goCred/password"
	"go.uber.org/zap"
)

// Engine coordinates the password-rotation protocol: matching the old password
// against the credential backend, provisioning a replacement, retiring old
// credentials and persisting the updated metadata set.
//
// Construct it through [New] and [Builder.Build]. An Engine is safe for
// concurrent use; its dependencies are fixed after Build.
type Engine struct {
	config            Config
	credentialService CredentialService
	profileStore      ProfileStore
	guard             *rotationGuard
	deriver           *password.Deriver
	audit             *auditPipeline
	metrics           *Metrics
	logger            *zap.Logger
}

func (e *Engine) ready() bool {
	return e != nil && e.credentialService != nil && e.profileStore != nil && e.deriver != nil
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}

// SuggestPassword returns a freshly generated password of the configured
// suggested length, suitable to offer the user during a reset flow.
func (e *Engine) SuggestPassword() (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}
	return password.Generate(e.config.Generator.SuggestedLength)
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the audit
// buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Close drains and stops the audit pipeline. It does not close injected
// dependencies such as the Redis client.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}
