// Package auth provides the Valkey-backed caller-identity store. Clients
// exchange credentials for an opaque bearer token; every subsequent request
// presents the token and resolves to a models.Caller. The content handlers
// only ever see the resolved caller, so the provider stays swappable.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pagecms/internal/models"
)

const (
	// DefaultTTL is how long a token lives in Valkey before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces token keys in Valkey to avoid collisions.
	keyPrefix = "token:"

	// tokenLength is the byte length of the random token (32 bytes = 64 hex chars).
	tokenLength = 32
)

// TokenStore manages bearer-token lifecycle in Valkey.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore creates a token store backed by the given Valkey client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{
		client: client,
		ttl:    DefaultTTL,
	}
}

// Issue generates a new token for the caller and stores it with the
// configured TTL. Returns the opaque token string.
func (s *TokenStore) Issue(ctx context.Context, caller *models.Caller) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("token issue: %w", err)
	}

	payload, err := json.Marshal(caller)
	if err != nil {
		return "", fmt.Errorf("token marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("token store: %w", err)
	}

	return token, nil
}

// Resolve looks a token up and returns the caller it identifies. Returns
// nil for unknown or expired tokens; that is not an error, the request just
// proceeds anonymously.
func (s *TokenStore) Resolve(ctx context.Context, token string) (*models.Caller, error) {
	if token == "" {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("token get: %w", err)
	}

	var caller models.Caller
	if err := json.Unmarshal(payload, &caller); err != nil {
		return nil, fmt.Errorf("token unmarshal: %w", err)
	}

	return &caller, nil
}

// Revoke deletes a token, ending the session it represents.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("token revoke: %w", err)
	}
	return nil
}

// generateToken creates a cryptographically random bearer token.
func generateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
