package password

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
)

// Config defines a public type used by goCred APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Deriver turns a plaintext password plus a per-credential salt into the key
// material sent to the credential backend. The backend never sees the plaintext;
// it stores and compares derived keys only.
type Deriver struct {
	config Config
}

// NewDeriver describes the newderiver operation and its observable behavior.
//
// NewDeriver may return an error when input validation, dependency calls, or security checks fail.
// NewDeriver does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewDeriver(cfg Config) (*Deriver, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &Deriver{config: cfg}, nil
}

// NewSalt describes the newsalt operation and its observable behavior.
//
// NewSalt may return an error when input validation, dependency calls, or security checks fail.
// NewSalt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (d *Deriver) NewSalt() (string, error) {
	salt := make([]byte, d.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(salt), nil
}

// Derive computes the transported key for plaintext under salt. The same
// plaintext and salt always derive the same key; the derivation parameters are
// fixed at construction so records created under one configuration keep
// verifying against it.
func (d *Deriver) Derive(plaintext, salt string) (string, error) {
	if plaintext == "" {
		return "", errors.New("plaintext must not be empty")
	}

	rawSalt, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return "", errors.New("invalid salt encoding")
	}
	if uint32(len(rawSalt)) < minSaltLength {
		return "", errors.New("invalid salt length")
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		rawSalt,
		d.config.Time,
		d.config.Memory,
		d.config.Parallelism,
		d.config.KeyLength,
	)

	return base64.RawStdEncoding.EncodeToString(key), nil
}

func validateConfig(cfg Config) error {
	if cfg.Memory < minMemoryKB {
		return errors.New("factor memory must be >= 8192 KB")
	}
	if cfg.Time < minTimeCost {
		return errors.New("factor time must be >= 1")
	}
	if cfg.Parallelism < minParallelism {
		return errors.New("factor parallelism must be >= 1")
	}
	if cfg.SaltLength < minSaltLength {
		return errors.New("factor salt length must be >= 16")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("factor key length must be >= 16")
	}

	return nil
}
