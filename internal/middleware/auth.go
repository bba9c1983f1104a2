package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"restaurant_service/internal/auth"
	"restaurant_service/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey = "userId"
	RoleKey   = "role"
	ClaimsKey = "claims"
)

// Authenticator resolves a bearer token to its claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// Auth requires a valid bearer token and, when roles are given, one of
// those roles.
func Auth(authn Authenticator, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			unauthorized(c, "Not authenticated")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))

		claims, err := authn.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			var se *services.Error
			if errors.As(err, &se) {
				unauthorized(c, se.Detail)
				return
			}
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			return
		}
		userID, _ := claims.UserID()

		c.Set(UserIDKey, userID)
		c.Set(RoleKey, claims.Role)
		c.Set(ClaimsKey, claims)

		if len(requiredRoles) > 0 && !hasRole(claims.Role, requiredRoles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Not enough permissions"})
			return
		}
		c.Next()
	}
}

// RequireRoles is for route groups already behind Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasRole(c.GetString(RoleKey), roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Not enough permissions"})
			return
		}
		c.Next()
	}
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// QueryToken moves a ?token= query parameter into the Authorization header.
// Browsers cannot set headers on a WebSocket handshake.
func QueryToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if t := c.Query("token"); t != "" {
				c.Request.Header.Set("Authorization", "Bearer "+t)
			}
		}
		c.Next()
	}
}
