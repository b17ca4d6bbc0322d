package service

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewReference generates a unique ledger reference with the given prefix,
// e.g. "txn_1f0e...". 32 hex chars of entropy, matching the provider's
// reference length limits.
func NewReference(prefix string) string {
	u := uuid.New()
	return prefix + "_" + hex.EncodeToString(u[:])
}
