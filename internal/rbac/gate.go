package rbac

import (
	"jwt-auth/internal/auth"
	"jwt-auth/internal/roles"
)

// Authorize reports whether the claims hold any of the required roles.
// There is no hierarchy: OWNER does not imply ADMIN or USER.
func Authorize(c auth.Claims, required ...roles.Role) bool {
	for _, r := range required {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}
