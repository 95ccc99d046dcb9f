package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/doctors-portal/server/internal/models"
	"github.com/doctors-portal/server/internal/token"
)

// EmailKey is the gin context key under which Authenticate stores the
// caller's email for downstream handlers.
const EmailKey = "email"

// RoleLookup resolves the stored role for an email. A user that does not
// exist is reported as ("", nil).
type RoleLookup func(ctx context.Context, email string) (string, error)

// Authenticate requires a valid bearer token. A missing Authorization header
// is a 401; a present but invalid or expired token is a 403.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized access"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := token.Verify(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		c.Set(EmailKey, claims.Email)
		c.Next()
	}
}

// AdminOnly requires that the authenticated caller's user record carries the
// admin role. It must be chained after Authenticate. A caller whose email has
// no user record at all is denied, not crashed on.
func AdminOnly(lookup RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(EmailKey)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		role, err := lookup(c.Request.Context(), email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "failed to resolve user role"})
			return
		}
		if role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
			return
		}

		c.Next()
	}
}
