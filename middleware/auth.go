package middleware

import (
	"net/http"
	"strings"

	"github.com/bazaarhub-dev/marketplace-api/auth"
	"github.com/bazaarhub-dev/marketplace-api/config"
	"github.com/bazaarhub-dev/marketplace-api/models"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// RequireAuth decodes the bearer token and stores the caller identity in the
// gin context. Handlers downstream trust it and never re-validate credentials.
func RequireAuth(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		identity, err := auth.ParseToken(cfg, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextRole, identity.Role)

		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set. Must run
// after RequireAuth.
func RequireRoles(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CallerRole(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this operation"})
		c.Abort()
	}
}

func CallerID(c *gin.Context) (string, bool) {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}

func CallerRole(c *gin.Context) (models.Role, bool) {
	val, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := val.(models.Role)
	return role, ok
}
