package password

import "testing"

func newDeriver(t *testing.T) *Deriver {
	t.Helper()

	d, err := NewDeriver(Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("NewDeriver failed: %v", err)
	}
	return d
}

func TestDeriveIsDeterministicPerSalt(t *testing.T) {
	d := newDeriver(t)

	salt, err := d.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt failed: %v", err)
	}

	first, err := d.Derive("secret-password", salt)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	second, err := d.Derive("secret-password", salt)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	if first != second {
		t.Fatal("expected identical keys for the same plaintext and salt")
	}

	other, err := d.Derive("different-password", salt)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if other == first {
		t.Fatal("expected different plaintexts to derive different keys")
	}
}

func TestDeriveVariesAcrossSalts(t *testing.T) {
	d := newDeriver(t)

	saltA, err := d.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt failed: %v", err)
	}
	saltB, err := d.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt failed: %v", err)
	}
	if saltA == saltB {
		t.Fatal("expected distinct salts")
	}

	keyA, err := d.Derive("secret-password", saltA)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	keyB, err := d.Derive("secret-password", saltB)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	if keyA == keyB {
		t.Fatal("expected different salts to derive different keys")
	}
}

func TestDeriveRejectsBadInput(t *testing.T) {
	d := newDeriver(t)

	salt, err := d.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt failed: %v", err)
	}

	if _, err := d.Derive("", salt); err == nil {
		t.Fatal("expected empty plaintext to be rejected")
	}
	if _, err := d.Derive("secret", "!!not-base64!!"); err == nil {
		t.Fatal("expected invalid salt encoding to be rejected")
	}
	if _, err := d.Derive("secret", "c2hvcnQ"); err == nil {
		t.Fatal("expected short salt to be rejected")
	}
}

func TestNewDeriverValidatesConfig(t *testing.T) {
	base := Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"low memory", func(c *Config) { c.Memory = 1024 }},
		{"zero time", func(c *Config) { c.Time = 0 }},
		{"zero parallelism", func(c *Config) { c.Parallelism = 0 }},
		{"short salt", func(c *Config) { c.SaltLength = 8 }},
		{"short key", func(c *Config) { c.KeyLength = 8 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if _, err := NewDeriver(cfg); err == nil {
				t.Fatal("expected config to be rejected")
			}
		})
	}
}
