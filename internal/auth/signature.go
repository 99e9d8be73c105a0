package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier validates that a request payload was produced by a
// holder of the shared API secret.
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// LoginPayload builds the canonical signed payload for a login request.
// Clients sign exactly these bytes: the three fields joined by literal
// colons, password in plaintext. Both sides must agree on this framing,
// so it never changes shape.
func LoginPayload(username, password, hwid string) []byte {
	return []byte(username + ":" + password + ":" + hwid)
}

// Verify checks a hex-encoded HMAC-SHA256 signature over payload.
// Comparison is constant-time.
func (v *SignatureVerifier) Verify(payload []byte, signature string) bool {
	return hmac.Equal([]byte(v.Sign(payload)), []byte(signature))
}

// Sign computes the hex-encoded HMAC-SHA256 of payload under the shared
// secret. Exposed for clients and tests.
func (v *SignatureVerifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
