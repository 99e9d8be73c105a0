package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_SHA256IsDeterministic(t *testing.T) {
	h1, err := HashPassword("pw1", SchemeSHA256)
	require.NoError(t, err)
	h2, err := HashPassword("pw1", SchemeSHA256)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64) // hex SHA-256
}

func TestHashPassword_SHA256KnownDigest(t *testing.T) {
	// Interop check against the documented legacy algorithm.
	assert.Equal(t,
		"5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		HashPasswordSHA256("password"))
}

func TestHashPassword_BcryptVerifies(t *testing.T) {
	h, err := HashPassword("pw1", SchemeBcrypt)
	require.NoError(t, err)

	assert.True(t, len(h) > 50)
	assert.NoError(t, ComparePassword(h, "pw1"))
	assert.Error(t, ComparePassword(h, "pw2"))
}

func TestHashPassword_EmptyRejected(t *testing.T) {
	_, err := HashPassword("", SchemeSHA256)
	assert.Error(t, err)
}

func TestHashPassword_UnknownScheme(t *testing.T) {
	_, err := HashPassword("pw1", "md5")
	assert.Error(t, err)
}

func TestComparePassword_DispatchesOnStoredFormat(t *testing.T) {
	sha := HashPasswordSHA256("pw1")
	assert.NoError(t, ComparePassword(sha, "pw1"))
	assert.Error(t, ComparePassword(sha, "pw2"))

	bc, err := HashPassword("pw1", SchemeBcrypt)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(bc, "pw1"))
}
