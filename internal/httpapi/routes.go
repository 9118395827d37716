package httpapi

import (
	"net/http"
	"time"

	"jwt-auth/internal/accounts"
	"jwt-auth/internal/auth"
	"jwt-auth/internal/rbac"
	"jwt-auth/internal/roles"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps carries what the routes need. Revocations and Redis are optional.
type Deps struct {
	Accounts    *accounts.Service
	Tokens      *auth.Manager
	Revocations auth.RevocationChecker
	Redis       redis.Scripter

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// RegisterRoutes wires HTTP routes to handlers.
// Keep this file free of business logic.
func RegisterRoutes(r *gin.Engine, d Deps) {
	h := Handlers{Accounts: d.Accounts}
	bearer := auth.RequireBearerToken(d.Tokens, d.Revocations)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/seed-roles", h.SeedRoles)
		authGroup.POST("/register", h.Register)

		login := []gin.HandlerFunc{}
		if d.Redis != nil && d.LoginRateLimit > 0 {
			login = append(login, LoginThrottle(d.Redis, d.LoginRateLimit, d.LoginRateWindow))
		}
		authGroup.POST("/login", append(login, h.Login)...)

		authGroup.POST("/make-admin", bearer, rbac.RequireAnyRole(roles.Owner), h.MakeAdmin)
		authGroup.POST("/make-owner", bearer, rbac.RequireAnyRole(roles.Owner), h.MakeOwner)
		authGroup.POST("/logout", bearer, h.Logout)
	}

	api.GET("/me", bearer, h.Me)

	forecast := api.Group("/forecast")
	{
		forecast.GET("/public", Forecast)
		forecast.GET("/user", bearer, rbac.RequireAnyRole(roles.User), Forecast)
		forecast.GET("/admin", bearer, rbac.RequireAnyRole(roles.Admin), Forecast)
		forecast.GET("/owner", bearer, rbac.RequireAnyRole(roles.Owner), Forecast)
	}
}
