package rbac

import (
	"testing"

	"jwt-auth/internal/auth"
	"jwt-auth/internal/identity"
	"jwt-auth/internal/roles"
)

func TestAuthorize(t *testing.T) {
	u := identity.User{ID: "u", Username: "alice"}
	cases := []struct {
		name     string
		held     []roles.Role
		required []roles.Role
		want     bool
	}{
		{"held role", []roles.Role{roles.User}, []roles.Role{roles.User}, true},
		{"absent role", []roles.Role{roles.User}, []roles.Role{roles.Admin}, false},
		{"zero roles", nil, []roles.Role{roles.User}, false},
		{"any of", []roles.Role{roles.Admin}, []roles.Role{roles.Owner, roles.Admin}, true},
		{"owner is not admin", []roles.Role{roles.Owner}, []roles.Role{roles.Admin}, false},
		{"nothing required", []roles.Role{roles.Owner}, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := auth.BuildClaims(u, tc.held)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if got := Authorize(c, tc.required...); got != tc.want {
				t.Fatalf("Authorize(%v, %v) = %v, want %v", tc.held, tc.required, got, tc.want)
			}
		})
	}
}
