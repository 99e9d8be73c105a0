package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

// Password hash schemes. SchemeSHA256 is the legacy unsalted digest the
// existing client fleet was provisioned with; it stays supported for
// interop but is a known weakness. SchemeBcrypt is the scheme new
// deployments should configure.
const (
	SchemeSHA256 = "sha256"
	SchemeBcrypt = "bcrypt"
)

// HashPassword hashes a password under the given scheme.
func HashPassword(password, scheme string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	switch scheme {
	case SchemeSHA256:
		return HashPasswordSHA256(password), nil
	case SchemeBcrypt:
		hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return string(hashedBytes), nil
	default:
		return "", fmt.Errorf("unknown password scheme: %s", scheme)
	}
}

// HashPasswordSHA256 returns the legacy hex SHA-256 digest of password.
func HashPasswordSHA256(password string) string {
	digest := sha256.Sum256([]byte(password))
	return hex.EncodeToString(digest[:])
}

// ComparePassword verifies password against a stored hash, dispatching
// on the stored format so sha256 and bcrypt rows coexist in one table.
func ComparePassword(storedHash, password string) error {
	if strings.HasPrefix(storedHash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password))
	}

	digest := HashPasswordSHA256(password)
	if subtle.ConstantTimeCompare([]byte(storedHash), []byte(digest)) != 1 {
		return fmt.Errorf("password mismatch")
	}
	return nil
}
