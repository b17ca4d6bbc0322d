package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAPIKey(t *testing.T) {
	a := GenerateAPIKey()
	b := GenerateAPIKey()

	assert.True(t, strings.HasPrefix(a, "sk_live_"))
	assert.Len(t, a, len("sk_live_")+64)
	assert.NotEqual(t, a, b)
}

func TestHashAPIKey_Deterministic(t *testing.T) {
	key := GenerateAPIKey()
	assert.Equal(t, HashAPIKey(key), HashAPIKey(key))
	assert.Len(t, HashAPIKey(key), 64)
	assert.NotEqual(t, HashAPIKey(key), HashAPIKey(key+"x"))
}

func TestAPIKeyPrefix(t *testing.T) {
	key := "sk_live_0123456789abcdef"
	assert.Equal(t, "sk_live_01234567", APIKeyPrefix(key))
	assert.Equal(t, "short", APIKeyPrefix("short"))
}
