package auth

import (
	"errors"
	"fmt"
	"strings"
)

type Permission string

const (
	PermDeposit  Permission = "deposit"
	PermTransfer Permission = "transfer"
	PermRead     Permission = "read"
)

var ErrUnknownPermission = errors.New("unknown permission")

type PermissionSet map[Permission]bool

func (s PermissionSet) Has(p Permission) bool {
	return s[p]
}

// Encode renders the set as a stable comma-separated string for storage.
func (s PermissionSet) Encode() string {
	var parts []string
	for _, p := range []Permission{PermDeposit, PermTransfer, PermRead} {
		if s[p] {
			parts = append(parts, string(p))
		}
	}
	return strings.Join(parts, ",")
}

// FullPermissions is what a session principal holds.
func FullPermissions() PermissionSet {
	return PermissionSet{PermDeposit: true, PermTransfer: true, PermRead: true}
}

// ParsePermissions validates and normalizes a list of permission names.
func ParsePermissions(names []string) (PermissionSet, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one permission required", ErrUnknownPermission)
	}
	set := PermissionSet{}
	for _, n := range names {
		switch p := Permission(strings.ToLower(strings.TrimSpace(n))); p {
		case PermDeposit, PermTransfer, PermRead:
			set[p] = true
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownPermission, n)
		}
	}
	return set, nil
}

// DecodePermissions parses the stored comma-separated form. Unknown entries
// are dropped rather than rejected since the row was validated at write time.
func DecodePermissions(encoded string) PermissionSet {
	set := PermissionSet{}
	for _, n := range strings.Split(encoded, ",") {
		switch p := Permission(n); p {
		case PermDeposit, PermTransfer, PermRead:
			set[p] = true
		}
	}
	return set
}
