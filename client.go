package goCred

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/MrEthical07/goCred/password"
	"go.uber.org/zap"
)

type wireFactor struct {
	Type         string `json:"type"`
	CredentialID string `json:"credential_id"`
	DerivedKey   string `json:"derived_key"`
}

type authRequest struct {
	Version     int          `json:"version"`
	IdentityKey string       `json:"identity_key"`
	Factors     []wireFactor `json:"factors"`
}

type authResponse struct {
	Authenticated bool `json:"authenticated"`
}

type addResponse struct {
	Success bool `json:"success"`
}

type revokeWireFactor struct {
	CredentialID string `json:"credential_id"`
	Reason       string `json:"reason"`
	Reference    string `json:"reference"`
}

type revokeRequest struct {
	Version     int                `json:"version"`
	IdentityKey string             `json:"identity_key"`
	Factors     []revokeWireFactor `json:"factors"`
}

// HTTPCredentialService is the real RPC client for the credential backend. It
// derives the transported key material locally, so the plaintext password never
// appears in a request body, and it classifies backend responses for the
// matcher: 404 means the identity key is unknown ([ErrIdentityUnknown]), any
// transport or protocol failure is [ErrCredentialServiceUnavailable].
//
// All calls run under the configured bounded timeout in addition to ctx.
type HTTPCredentialService struct {
	baseURL string
	client  *http.Client
	deriver *password.Deriver
	logger  *zap.Logger
}

// NewHTTPCredentialService describes the newhttpcredentialservice operation and its observable behavior.
//
// NewHTTPCredentialService may return an error when input validation, dependency calls, or security checks fail.
// NewHTTPCredentialService does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewHTTPCredentialService(cfg CredentialServiceConfig, deriver *password.Deriver, logger *zap.Logger) (*HTTPCredentialService, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("credential service base url required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("credential service timeout must be > 0")
	}
	if deriver == nil {
		return nil, errors.New("factor deriver required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPCredentialService{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		deriver: deriver,
		logger:  logger,
	}, nil
}

// Authenticate describes the authenticate operation and its observable behavior.
//
// Authenticate may return an error when input validation, dependency calls, or security checks fail.
// Authenticate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *HTTPCredentialService) Authenticate(ctx context.Context, identityKey string, factor PasswordFactor) (bool, error) {
	derived, err := s.deriver.Derive(factor.Plaintext, factor.Salt)
	if err != nil {
		return false, fmt.Errorf("derive factor for credential %s: %w", factor.CredentialID, err)
	}

	req := authRequest{
		Version:     1,
		IdentityKey: identityKey,
		Factors: []wireFactor{{
			Type:         "password",
			CredentialID: factor.CredentialID,
			DerivedKey:   derived,
		}},
	}

	var resp authResponse
	if err := s.post(ctx, "/authenticate", req, &resp); err != nil {
		return false, err
	}

	return resp.Authenticated, nil
}

// AddCredentials describes the addcredentials operation and its observable behavior.
//
// AddCredentials may return an error when input validation, dependency calls, or security checks fail.
// AddCredentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *HTTPCredentialService) AddCredentials(ctx context.Context, identityKey string, factor PasswordFactor) (bool, error) {
	derived, err := s.deriver.Derive(factor.Plaintext, factor.Salt)
	if err != nil {
		return false, fmt.Errorf("derive factor for credential %s: %w", factor.CredentialID, err)
	}

	req := authRequest{
		Version:     1,
		IdentityKey: identityKey,
		Factors: []wireFactor{{
			Type:         "password",
			CredentialID: factor.CredentialID,
			DerivedKey:   derived,
		}},
	}

	var resp addResponse
	if err := s.post(ctx, "/add_creds", req, &resp); err != nil {
		return false, err
	}

	return resp.Success, nil
}

// RevokeCredentials describes the revokecredentials operation and its observable behavior.
//
// RevokeCredentials may return an error when input validation, dependency calls, or security checks fail.
// RevokeCredentials does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *HTTPCredentialService) RevokeCredentials(ctx context.Context, identityKey string, factors []RevokeFactor) error {
	if len(factors) == 0 {
		return nil
	}

	req := revokeRequest{
		Version:     1,
		IdentityKey: identityKey,
	}
	for _, f := range factors {
		req.Factors = append(req.Factors, revokeWireFactor{
			CredentialID: f.CredentialID,
			Reason:       f.Reason,
			Reference:    f.Reference,
		})
	}

	return s.post(ctx, "/revoke_creds", req, nil)
}

func (s *HTTPCredentialService) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(httpReq)
	if err != nil {
		s.logger.Debug("credential service call failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrCredentialServiceUnavailable, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return ErrIdentityUnknown
	case res.StatusCode != http.StatusOK:
		s.logger.Debug("credential service call rejected",
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
		)
		return fmt.Errorf("%w: unexpected status %d", ErrCredentialServiceUnavailable, res.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrCredentialServiceUnavailable, err)
	}

	return nil
}
