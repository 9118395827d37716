package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"jwt-auth/internal/roles"
)

// User is the identity record owned by the store.
// PasswordHash never leaves this package's implementations in responses.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store owns credential persistence, password verification and role storage.
//
// Implementations must be safe for concurrent use; callers issue one logical
// operation at a time and never compose transactions across calls.
type Store interface {
	// FindUserByName returns ErrNotFound when no user matches (case-insensitive).
	FindUserByName(ctx context.Context, username string) (User, error)
	VerifyPassword(ctx context.Context, u User, plaintext string) (bool, error)
	// CreateUser returns ErrDuplicate or a *ValidationError listing every failed rule.
	CreateUser(ctx context.Context, u User, plaintext string) (User, error)
	GetRoles(ctx context.Context, u User) ([]roles.Role, error)
	// AddRole is additive and idempotent. The role must have been seeded.
	AddRole(ctx context.Context, u User, r roles.Role) error
	RoleExists(ctx context.Context, r roles.Role) (bool, error)
	CreateRole(ctx context.Context, r roles.Role) error
}

var (
	ErrNotFound     = errors.New("identity: not found")
	ErrDuplicate    = errors.New("identity: already exists")
	ErrRoleNotFound = errors.New("identity: role not seeded")
)

// ValidationError aggregates every reason a user record was refused.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "identity: invalid user: " + strings.Join(e.Reasons, "; ")
}

// NormalizeUsername is the key used for uniqueness and lookups.
func NormalizeUsername(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
