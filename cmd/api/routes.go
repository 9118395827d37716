package main

import (
	"log/slog"

	"jwt-auth/internal/httpapi"
	"jwt-auth/pkg/logger"

	"github.com/gin-gonic/gin"
)

// newRouter builds the engine with the shared middleware stack.
// Routes themselves live in internal/httpapi.
func newRouter(log *slog.Logger, trustedProxies []string, deps httpapi.Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := httpapi.TrustProxies(r, trustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	httpapi.RegisterRoutes(r, deps)
	return r, nil
}
