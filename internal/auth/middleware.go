package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookstore/pkg/models"
)

const CtxUserIDKey = "user_id"
const CtxRoleKey = "role"

// RequireJWT rejects requests without a valid bearer token and stows the
// token's user id and role in the gin context for downstream handlers.
func RequireJWT(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")
		claims, err := ParseJWT(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after RequireJWT. A valid token with the wrong role
// is a distinct forbidden condition, not an authentication failure.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRoleKey) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access required"})
			return
		}
		c.Next()
	}
}
