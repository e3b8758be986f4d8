package goCred

import (
	"errors"
	"time"
)

// Config defines a public type used by goCred APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	CredentialService CredentialServiceConfig
	Factor            FactorConfig
	Generator         GeneratorConfig
	Rotation          RotationConfig
	Profile           ProfileConfig
	Audit             AuditConfig
	Metrics           MetricsConfig
}

/*
====================================
CREDENTIAL SERVICE CONFIG
====================================
*/

// CredentialServiceConfig defines a public type used by goCred APIs.
//
// CredentialServiceConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CredentialServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

/*
====================================
FACTOR CONFIG
====================================
*/

// FactorConfig holds the Argon2 parameters used to derive the transported key
// material from a plaintext password and a per-credential salt.
type FactorConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
GENERATOR CONFIG
====================================
*/

// GeneratorConfig defines a public type used by goCred APIs.
//
// GeneratorConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GeneratorConfig struct {
	SuggestedLength int
}

/*
====================================
ROTATION CONFIG
====================================
*/

// RotationConfig defines a public type used by goCred APIs.
//
// RotationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RotationConfig struct {
	SourceLabel  string
	ChangeReason string
	ResetReason  string
	Reference    string

	// SerializePerUser enables the Redis-backed per-user guard enforcing
	// at-most-one in-flight rotation. Without it, serialization is the
	// caller's responsibility.
	SerializePerUser bool
	GuardTTL         time.Duration
}

/*
====================================
PROFILE CONFIG
====================================
*/

// ProfileConfig defines a public type used by goCred APIs.
//
// ProfileConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ProfileConfig struct {
	RedisPrefix string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by goCred APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goCred APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		CredentialService: CredentialServiceConfig{
			Timeout: 5 * time.Second,
		},
		Factor: FactorConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Generator: GeneratorConfig{
			SuggestedLength: 12,
		},
		Rotation: RotationConfig{
			SourceLabel:  "dashboard",
			ChangeReason: "changing password",
			ResetReason:  "reset password",
			Reference:    "dashboard",
			GuardTTL:     30 * time.Second,
		},
		Profile: ProfileConfig{
			RedisPrefix: "acs",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All sections are value types without reference fields.
	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.CredentialService.Timeout <= 0 {
		return errors.New("credential service timeout must be > 0")
	}
	if cfg.Generator.SuggestedLength < 1 {
		return errors.New("suggested password length must be >= 1")
	}
	if cfg.Rotation.SerializePerUser && cfg.Rotation.GuardTTL <= 0 {
		return errors.New("rotation guard ttl must be > 0 when serialization is enabled")
	}
	if cfg.Profile.RedisPrefix == "" {
		return errors.New("profile redis prefix must not be empty")
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize < 0 {
		return errors.New("audit buffer size must be >= 0")
	}
	return nil
}
