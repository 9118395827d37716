package rbac

import (
	"net/http"

	"jwt-auth/internal/auth"
	"jwt-auth/internal/roles"
	"jwt-auth/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequireAnyRole allows access if the caller holds any of the provided roles.
// Must run after auth.RequireBearerToken.
// Rules:
// - no claims in context is 401
// - claims without a listed role is 403
// - no role bypasses the check
func RequireAnyRole(allowed ...roles.Role) gin.HandlerFunc {
	for _, r := range allowed {
		if !r.Valid() {
			panic("rbac: unknown role " + string(r))
		}
	}

	return func(c *gin.Context) {
		claims, err := auth.ClaimsFrom(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !Authorize(claims, allowed...) {
			logger.FromGin(c).Info("access denied", "user_id", claims.Subject, "required", allowed)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
