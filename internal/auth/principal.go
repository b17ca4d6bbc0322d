package auth

type PrincipalSource string

const (
	SourceSession PrincipalSource = "session"
	SourceAPIKey  PrincipalSource = "api_key"
)

// Principal is the resolved identity behind a request: either a session token
// holder (full permissions) or an API key holder (the permissions granted at
// issuance). Ledger operations check the set, never the source.
type Principal struct {
	UserID      uint
	Source      PrincipalSource
	APIKeyID    uint // zero for session principals
	Permissions PermissionSet
}

func SessionPrincipal(userID uint) Principal {
	return Principal{UserID: userID, Source: SourceSession, Permissions: FullPermissions()}
}

func APIKeyPrincipal(userID, keyID uint, perms PermissionSet) Principal {
	return Principal{UserID: userID, Source: SourceAPIKey, APIKeyID: keyID, Permissions: perms}
}
