package auth

import (
	"errors"
	"sort"

	"jwt-auth/internal/identity"
	"jwt-auth/internal/roles"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the only token payload shape this service issues.
//
// Identity lives in the registered claims (sub = user id, jti = token id)
// plus Name/FirstName/LastName. Roles are carried in their own claim so the
// authorization gate never mistakes an identity value for a privilege.
type Claims struct {
	jwt.RegisteredClaims

	Name      string       `json:"name"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Roles     []roles.Role `json:"roles"`
}

var ErrMissingClaim = errors.New("auth: required claim missing")

// BuildClaims assembles the session claims for a verified user.
// Every call generates a fresh token id.
func BuildClaims(u identity.User, held []roles.Role) (Claims, error) {
	if u.ID == "" || u.Username == "" {
		return Claims{}, ErrMissingClaim
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: u.ID,
			ID:      uuid.NewString(),
		},
		Name:      u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     normalizeRoles(held),
	}, nil
}

// HasRole reports whether r is among the role claims.
func (c Claims) HasRole(r roles.Role) bool {
	return roles.Contains(c.Roles, r)
}

// normalizeRoles drops duplicates and sorts, so equal role sets encode identically.
func normalizeRoles(in []roles.Role) []roles.Role {
	out := make([]roles.Role, 0, len(in))
	seen := make(map[roles.Role]struct{}, len(in))
	for _, r := range in {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
