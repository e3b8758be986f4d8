package goCred

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

const profileCodecVersion byte = 1

// RedisProfileStore persists credential metadata sets in Redis under one key per
// user, using a compact versioned binary codec. It implements [ProfileStore].
type RedisProfileStore struct {
	redis  *redis.Client
	prefix string
}

// NewRedisProfileStore describes the newredisprofilestore operation and its observable behavior.
//
// NewRedisProfileStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisProfileStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisProfileStore(client *redis.Client, cfg ProfileConfig) (*RedisProfileStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if cfg.RedisPrefix == "" {
		return nil, errors.New("profile redis prefix must not be empty")
	}

	return &RedisProfileStore{
		redis:  client,
		prefix: cfg.RedisPrefix,
	}, nil
}

func (s *RedisProfileStore) key(userID string) string {
	return s.prefix + ":" + userID
}

// LoadCredentials describes the loadcredentials operation and its observable behavior.
//
// LoadCredentials may return an error when input validation, dependency calls, or security checks fail.
// LoadCredentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisProfileStore) LoadCredentials(ctx context.Context, userID string) (*CredentialSet, error) {
	if userID == "" {
		return nil, ErrSubjectInvalid
	}

	data, err := s.redis.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &CredentialSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileStoreUnavailable, err)
	}

	set, err := decodeCredentialSet(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileStoreUnavailable, err)
	}

	return set, nil
}

// SaveCredentials describes the savecredentials operation and its observable behavior.
//
// SaveCredentials may return an error when input validation, dependency calls, or security checks fail.
// SaveCredentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisProfileStore) SaveCredentials(ctx context.Context, userID string, set *CredentialSet) error {
	if userID == "" {
		return ErrSubjectInvalid
	}

	data, err := encodeCredentialSet(set)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProfileStoreUnavailable, err)
	}

	if err := s.redis.Set(ctx, s.key(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrProfileStoreUnavailable, err)
	}

	return nil
}

func encodeCredentialSet(set *CredentialSet) ([]byte, error) {
	n := set.Len()
	if n > int(^uint16(0)) {
		return nil, errors.New("credential set too large to encode")
	}

	var buf bytes.Buffer
	buf.WriteByte(profileCodecVersion)

	var count [2]byte
	binary.BigEndian.PutUint16(count[:], uint16(n))
	buf.Write(count[:])

	for i := 0; i < n; i++ {
		rec := &set.Records[i]
		if err := writeString(&buf, rec.ID); err != nil {
			return nil, err
		}
		if err := writeString(&buf, rec.Salt); err != nil {
			return nil, err
		}
		if err := writeString(&buf, rec.SourceLabel); err != nil {
			return nil, err
		}
		if err := writeString(&buf, rec.UserIDHint); err != nil {
			return nil, err
		}

		var created [8]byte
		binary.BigEndian.PutUint64(created[:], uint64(rec.CreatedAt.Unix()))
		buf.Write(created[:])
	}

	return buf.Bytes(), nil
}

func decodeCredentialSet(data []byte) (*CredentialSet, error) {
	r := bytes.NewReader(data)

	version, err := r.ReadByte()
	if err != nil {
		return nil, errors.New("credential set payload truncated")
	}
	if version != profileCodecVersion {
		return nil, fmt.Errorf("unsupported credential set codec version %d", version)
	}

	var count [2]byte
	if _, err := io.ReadFull(r, count[:]); err != nil {
		return nil, errors.New("credential set payload truncated")
	}
	n := int(binary.BigEndian.Uint16(count[:]))

	set := &CredentialSet{Records: make([]CredentialRecord, 0, n)}
	for i := 0; i < n; i++ {
		var rec CredentialRecord
		if rec.ID, err = readString(r); err != nil {
			return nil, err
		}
		if rec.Salt, err = readString(r); err != nil {
			return nil, err
		}
		if rec.SourceLabel, err = readString(r); err != nil {
			return nil, err
		}
		if rec.UserIDHint, err = readString(r); err != nil {
			return nil, err
		}

		var created [8]byte
		if _, err := io.ReadFull(r, created[:]); err != nil {
			return nil, errors.New("credential set payload truncated")
		}
		rec.CreatedAt = time.Unix(int64(binary.BigEndian.Uint64(created[:])), 0).UTC()

		set.Records = append(set.Records, rec)
	}

	return set, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > int(^uint16(0)) {
		return errors.New("credential field too long to encode")
	}

	var length [2]byte
	binary.BigEndian.PutUint16(length[:], uint16(len(s)))
	buf.Write(length[:])
	buf.WriteString(s)
	return nil
}

func readString(r *bytes.Reader) (string, error) {
	var length [2]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return "", errors.New("credential set payload truncated")
	}
	n := int(binary.BigEndian.Uint16(length[:]))

	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return "", errors.New("credential set payload truncated")
	}
	return string(out), nil
}
