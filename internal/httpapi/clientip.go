package httpapi

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// TrustProxies restricts which peers may set X-Forwarded-For and X-Real-IP.
// With no proxies, c.ClientIP() is the connection's remote address, so the
// login throttle and audit records cannot be steered by request headers.
func TrustProxies(r *gin.Engine, proxies []string) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	return nil
}
