package httpapi

import (
	"errors"
	"net/http"

	"jwt-auth/internal/accounts"
	"jwt-auth/internal/auth"
	"jwt-auth/internal/roles"
	"jwt-auth/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: bind input, call accounts.Service, map errors to status codes.
type Handlers struct {
	Accounts *accounts.Service
}

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updatePermissionsRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h Handlers) SeedRoles(c *gin.Context) {
	ctx := accounts.WithClientIP(c.Request.Context(), c.ClientIP())
	res, err := h.Accounts.SeedRoles(ctx)
	if err != nil {
		logger.FromGin(c).Error("seed roles failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "role seeding failed"})
		return
	}
	if res == roles.AlreadySeeded {
		c.JSON(http.StatusOK, gin.H{"message": "Seeding roles is already done"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role seeding done successfully"})
}

func (h Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username, email, password required"})
		return
	}

	ctx := accounts.WithClientIP(c.Request.Context(), c.ClientIP())
	_, err := h.Accounts.Register(ctx, accounts.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		var uerr *accounts.UserCreationError
		switch {
		case errors.Is(err, accounts.ErrDuplicateUsername):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		case errors.As(err, &uerr):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": uerr.Error(), "reasons": uerr.Reasons})
		default:
			logger.FromGin(c).Error("register failed", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User created successfully"})
}

func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username, password required"})
		return
	}

	tok, err := h.Accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		logger.FromGin(c).Error("login failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, tok)
}

func (h Handlers) MakeAdmin(c *gin.Context) {
	h.grant(c, roles.Admin, "User is now an admin")
}

func (h Handlers) MakeOwner(c *gin.Context) {
	h.grant(c, roles.Owner, "User is now an owner")
}

func (h Handlers) grant(c *gin.Context, role roles.Role, okMessage string) {
	actor, err := auth.ClaimsFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req updatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}

	ctx := accounts.WithClientIP(c.Request.Context(), c.ClientIP())
	if err := h.Accounts.GrantRole(ctx, actor, req.Username, role); err != nil {
		switch {
		case errors.Is(err, accounts.ErrInsufficientRole):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		case errors.Is(err, accounts.ErrUserNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			logger.FromGin(c).Error("grant role failed", "err", err, "role", role)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "role update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": okMessage})
}

func (h Handlers) Logout(c *gin.Context) {
	claims, err := auth.ClaimsFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.Accounts.Logout(c.Request.Context(), claims); err != nil {
		if errors.Is(err, accounts.ErrRevocationDisabled) {
			c.AbortWithStatusJSON(http.StatusNotImplemented, gin.H{"error": "logout not available"})
			return
		}
		logger.FromGin(c).Error("logout failed", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me echoes the identity carried by the bearer token. It does not hit the store.
func (h Handlers) Me(c *gin.Context) {
	claims, err := auth.ClaimsFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	resp := gin.H{
		"user_id":    claims.Subject,
		"username":   claims.Name,
		"first_name": claims.FirstName,
		"last_name":  claims.LastName,
		"roles":      claims.Roles,
	}
	if claims.ExpiresAt != nil {
		resp["expires_at"] = claims.ExpiresAt.Time
	}
	c.JSON(http.StatusOK, resp)
}
