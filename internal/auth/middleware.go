package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"jwt-auth/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RevocationChecker is consulted after a token passes signature and expiry checks.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RequireBearerToken verifies the bearer token and injects its claims into the request context.
// It does not perform role checks; those belong to internal/rbac.
// revoked may be nil.
func RequireBearerToken(m *Manager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c.GetHeader(authorizationHeader))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := m.Validate(tok, time.Now())
		if err != nil {
			logger.FromGin(c).Debug("bearer token rejected", "reason", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.FromGin(c).Error("revocation check failed", "err", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "token check unavailable"})
				return
			}
			if isRevoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
		}

		ctx := WithClaims(c.Request.Context(), claims)
		c.Request = c.Request.WithContext(ctx)

		// Also store on gin context for handler convenience.
		c.Set("user_id", claims.Subject)
		c.Set("username", claims.Name)

		c.Next()
	}
}

// bearerToken extracts the credential from an Authorization header.
// The scheme name is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	raw := strings.TrimSpace(header)
	if len(raw) < len(bearerPrefix) || !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	tok := strings.TrimSpace(raw[len(bearerPrefix):])
	return tok, tok != ""
}
