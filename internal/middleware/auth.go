package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"txunajob/internal/domain"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/jwt"
	"txunajob/internal/pkg/response"
)

// Context keys set by the auth middleware.
const (
	ContextAccountID = "account_id"
	ContextRole      = "role"
)

// JWTAuth requires a valid bearer token and stores the actor in the context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}

		tokenStr, ok := bearerToken(h)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// OptionalJWTAuth identifies the actor when a valid token is present and
// lets anonymous requests through untouched.
func OptionalJWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := jwtService.ValidateToken(tokenStr); err == nil {
				c.Set(ContextAccountID, claims.AccountID)
				c.Set(ContextRole, claims.Role)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// CurrentActor returns the authenticated actor, or nil for anonymous calls.
func CurrentActor(c *gin.Context) *access.Actor {
	id := c.GetInt64(ContextAccountID)
	if id <= 0 {
		return nil
	}
	return &access.Actor{ID: id, Role: domain.Role(c.GetString(ContextRole))}
}
