package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jhunter5/Backend/internal/auth"
)

const (
	// ContextKeyAuthID holds the bearer token subject in the Gin context.
	ContextKeyAuthID = "authID"
	// ContextKeyRoles holds the bearer token roles in the Gin context.
	ContextKeyRoles = "roles"
)

// AuthMiddleware validates the bearer token signed with jwtSecret.
// An empty secret rejects every request.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSecret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication is not configured"})
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := auth.ValidateJWT(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextKeyAuthID, claims.Subject)
		c.Set(ContextKeyRoles, claims.Roles)
		c.Next()
	}
}

// RequireRole rejects requests whose token lacks role. AuthMiddleware must run first.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := c.GetStringSlice(ContextKeyRoles)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": role + " role required"})
	}
}
