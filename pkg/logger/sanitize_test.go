package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "******", MaskSecret("abc123"))
	assert.Equal(t, "", MaskSecret(""))
}

func TestSanitizeQueryString(t *testing.T) {
	assert.True(t, SanitizeQueryString("password=hunter2"))
	assert.True(t, SanitizeQueryString("HWID=abc"))
	assert.True(t, SanitizeQueryString("signature=deadbeef"))
	assert.False(t, SanitizeQueryString("page=2&limit=10"))
	assert.False(t, SanitizeQueryString(""))
}

func TestRedactedAttr(t *testing.T) {
	attr := RedactedAttr("username", "alice", "production")
	assert.Equal(t, "[REDACTED]", attr.Value.String())

	attr = RedactedAttr("username", "alice", "development")
	assert.Equal(t, "alice", attr.Value.String())
}
