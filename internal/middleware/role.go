package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"txunajob/internal/domain"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/response"
)

// RequireRole ensures that the authenticated account has exactly the given role
func RequireRole(required domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := access.Authorize(CurrentActor(c), required, nil)
		if !decision.Allowed {
			Deny(c, decision)
			return
		}
		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

// Deny writes the response for a refused authorization and aborts.
func Deny(c *gin.Context, d access.Decision) {
	switch d.Reason {
	case access.ReasonUnauthenticated:
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
	case access.ReasonNotOwner:
		response.Error(c, http.StatusForbidden, "NOT_OWNER", "You don't own this resource")
	case access.ReasonRegistrationKey:
		response.Error(c, http.StatusForbidden, "INVALID_REGISTRATION_KEY", "Admin registration is not permitted")
	default:
		response.Error(c, http.StatusForbidden, "ROLE_MISMATCH", "Access denied: insufficient permissions")
	}
	c.Abort()
}
