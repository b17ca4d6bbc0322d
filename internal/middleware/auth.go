package middleware

import (
	"net/http"
	"strings"

	"github.com/Solomon-Dzokoto/hng-wallet/config"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/auth"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/service"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries a raw service key; it is distinct from the session
// bearer header so both authentication modes coexist on the same routes.
const APIKeyHeader = "X-API-Key"

const principalKey = "principal"

// Authenticate resolves the request principal from either a session bearer
// token or an API key. Session principals get the full permission set; API
// key principals get what was granted at issuance.
func Authenticate(cfg *config.JWTConfig, keys *service.APIKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
				return
			}
			claims, err := auth.ParseAccessToken(cfg, parts[1])
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
				return
			}
			c.Set(principalKey, auth.SessionPrincipal(claims.UserID))
			c.Next()
			return
		}
		if rawKey := c.GetHeader(APIKeyHeader); rawKey != "" {
			p, err := keys.Resolve(rawKey)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
				return
			}
			c.Set(principalKey, p)
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authentication credentials"})
	}
}

// RequirePermission gates a route on one ledger permission.
func RequirePermission(perm auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !p.Permissions.Has(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing required permission: " + string(perm)})
			return
		}
		c.Next()
	}
}

// RequireSession restricts a route to session principals; key lifecycle
// endpoints cannot be driven by an API key.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if p.Source != auth.SourceSession {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "session token required"})
			return
		}
		c.Next()
	}
}

func principal(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// GetPrincipal returns the resolved principal (must be used after Authenticate).
func GetPrincipal(c *gin.Context) auth.Principal {
	p, _ := principal(c)
	return p
}
