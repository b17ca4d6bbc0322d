package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateAPIKey returns a raw API key of the form sk_live_<64 hex chars>.
// The raw key is shown to the caller exactly once; only its hash is stored.
func GenerateAPIKey() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return "sk_live_" + hex.EncodeToString(buf)
}

// HashAPIKey is a deterministic one-way hash so keys can be looked up by
// hash. A salted scheme would break lookup, which is why bcrypt is not used.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// APIKeyPrefix keeps the first characters of a raw key for identification in
// listings without storing anything that can be replayed.
func APIKeyPrefix(rawKey string) string {
	if len(rawKey) <= 16 {
		return rawKey
	}
	return rawKey[:16]
}
