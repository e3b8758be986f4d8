package goCred

import (
	"errors"

	"github.com/MrEthical07/goCred/password"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Builder defines a public type used by goCred APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config            Config
	redis             *redis.Client
	credentialService CredentialService
	profileStore      ProfileStore
	auditSink         AuditSink
	logger            *zap.Logger
	built             bool
}

// New starts a [Builder] seeded with the default configuration. Call the WithX
// methods to override pieces, then Build exactly once.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithCredentialService injects a [CredentialService], replacing the default
// HTTP client built from Config.CredentialService.BaseURL.
func (b *Builder) WithCredentialService(service CredentialService) *Builder {
	b.credentialService = service
	return b
}

// WithProfileStore injects a [ProfileStore], replacing the default Redis-backed
// store.
func (b *Builder) WithProfileStore(store ProfileStore) *Builder {
	b.profileStore = store
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger may return an error when input validation, dependency calls, or security checks fail.
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, assembles defaults for any dependency not
// injected, and returns a ready [Engine]. A Builder must not be reused after a
// successful Build.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	deriver, err := password.NewDeriver(password.Config{
		Memory:      b.config.Factor.Memory,
		Time:        b.config.Factor.Time,
		Parallelism: b.config.Factor.Parallelism,
		SaltLength:  b.config.Factor.SaltLength,
		KeyLength:   b.config.Factor.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	service := b.credentialService
	if service == nil {
		if b.config.CredentialService.BaseURL == "" {
			return nil, errors.New("credential service required: set BaseURL or inject one")
		}
		service, err = NewHTTPCredentialService(b.config.CredentialService, deriver, logger)
		if err != nil {
			return nil, err
		}
	}

	store := b.profileStore
	if store == nil {
		if b.redis == nil {
			return nil, errors.New("profile store required: provide a redis client or inject one")
		}
		store, err = NewRedisProfileStore(b.redis, b.config.Profile)
		if err != nil {
			return nil, err
		}
	}

	var guard *rotationGuard
	if b.config.Rotation.SerializePerUser {
		if b.redis == nil {
			return nil, errors.New("per-user serialization requires a redis client")
		}
		guard = newRotationGuard(b.redis, b.config.Rotation.GuardTTL)
	}

	b.built = true

	return &Engine{
		config:            b.config,
		credentialService: service,
		profileStore:      store,
		guard:             guard,
		deriver:           deriver,
		audit:             newAuditPipeline(b.config.Audit, b.auditSink),
		metrics:           NewMetrics(b.config.Metrics),
		logger:            logger,
	}, nil
}
