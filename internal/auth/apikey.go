// Package auth implements the API key scheme used by the capture clients.
//
// A key has the structured form "<user_id>:<token>": the user_id part is
// the owner's UUID and scopes every request, the token part is an opaque
// random string with a minimum length. Keys are not verified against a
// credential store; possession of a well-formed key is the trust boundary.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// APIKey is a parsed client credential.
type APIKey struct {
	UserID string
	Token  string
}

// ParseAPIKey validates the "<user_id>:<token>" format. minTokenLength
// guards against trivially short tokens.
func ParseAPIKey(raw string, minTokenLength int) (*APIKey, error) {
	userID, token, ok := strings.Cut(raw, ":")
	if !ok {
		return nil, fmt.Errorf("invalid API key format, expected user_id:token")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user id in API key: %w", err)
	}
	if len(token) < minTokenLength {
		return nil, fmt.Errorf("API key token too short")
	}
	return &APIKey{UserID: userID, Token: token}, nil
}

// GenerateAPIKey mints a new key for the given user with a random
// 32-byte token.
func GenerateAPIKey(userID string) (string, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return "", fmt.Errorf("invalid user id: %w", err)
	}
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return userID + ":" + hex.EncodeToString(bytes), nil
}
