package goCred

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := validateConfig(defaultConfig()); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	base := defaultConfig()

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "zero timeout",
			mutate: func(c *Config) { c.CredentialService.Timeout = 0 },
			want:   "timeout",
		},
		{
			name:   "zero suggested length",
			mutate: func(c *Config) { c.Generator.SuggestedLength = 0 },
			want:   "length",
		},
		{
			name: "serialization without ttl",
			mutate: func(c *Config) {
				c.Rotation.SerializePerUser = true
				c.Rotation.GuardTTL = 0
			},
			want: "guard ttl",
		},
		{
			name:   "empty redis prefix",
			mutate: func(c *Config) { c.Profile.RedisPrefix = "" },
			want:   "prefix",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)

			err := validateConfig(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBuilderWithInjectedDependencies(t *testing.T) {
	deriver := newTestDeriver(t)
	svc, err := NewMemoryCredentialService(deriver)
	if err != nil {
		t.Fatalf("NewMemoryCredentialService failed: %v", err)
	}

	engine, err := New().
		WithCredentialService(svc).
		WithProfileStore(newMockProfileStore()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if !engine.ready() {
		t.Fatal("expected a ready engine")
	}
}

func TestBuilderRejectsReuse(t *testing.T) {
	deriver := newTestDeriver(t)
	svc, err := NewMemoryCredentialService(deriver)
	if err != nil {
		t.Fatalf("NewMemoryCredentialService failed: %v", err)
	}

	b := New().
		WithCredentialService(svc).
		WithProfileStore(newMockProfileStore())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuilderRequiresCredentialService(t *testing.T) {
	_, err := New().
		WithProfileStore(newMockProfileStore()).
		Build()
	if err == nil {
		t.Fatal("expected Build to fail without a credential service")
	}
}

func TestBuilderRequiresProfileStore(t *testing.T) {
	deriver := newTestDeriver(t)
	svc, err := NewMemoryCredentialService(deriver)
	if err != nil {
		t.Fatalf("NewMemoryCredentialService failed: %v", err)
	}

	_, err = New().
		WithCredentialService(svc).
		Build()
	if err == nil {
		t.Fatal("expected Build to fail without a profile store")
	}
}

func TestBuilderSerializationRequiresRedis(t *testing.T) {
	deriver := newTestDeriver(t)
	svc, err := NewMemoryCredentialService(deriver)
	if err != nil {
		t.Fatalf("NewMemoryCredentialService failed: %v", err)
	}

	cfg := defaultConfig()
	cfg.Rotation.SerializePerUser = true

	_, err = New().
		WithConfig(cfg).
		WithCredentialService(svc).
		WithProfileStore(newMockProfileStore()).
		Build()
	if err == nil {
		t.Fatal("expected Build to fail when serialization is enabled without redis")
	}
}

func TestBuilderDefaultsFromRedis(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := defaultConfig()
	cfg.CredentialService.BaseURL = "http://127.0.0.1:9"
	cfg.Rotation.SerializePerUser = true
	cfg.Rotation.GuardTTL = 15 * time.Second

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, ok := engine.credentialService.(*HTTPCredentialService); !ok {
		t.Fatalf("expected default HTTP credential service, got %T", engine.credentialService)
	}
	if _, ok := engine.profileStore.(*RedisProfileStore); !ok {
		t.Fatalf("expected default redis profile store, got %T", engine.profileStore)
	}
	if engine.guard == nil {
		t.Fatal("expected rotation guard when serialization is enabled")
	}
}
