package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const sessionTokenLength = 32 // 256 bits

// GenerateSessionToken returns a fresh random opaque session token.
// Tokens are advisory: they are handed to the client on successful
// login but not persisted or validated server-side yet.
//
// TODO: persist issued tokens once /api/auth/verify grows real
// validation.
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, sessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
