package roles

import (
	"errors"
	"fmt"
)

// Role is a closed set of privilege tiers. Keep the values stable; they are
// written into issued tokens and into the identity store.
type Role string

const (
	User  Role = "USER"
	Admin Role = "ADMIN"
	Owner Role = "OWNER"
)

var ErrUnknownRole = errors.New("unknown role")

// All returns every role the registry seeds.
func All() []Role {
	return []Role{User, Admin, Owner}
}

func (r Role) Valid() bool {
	switch r {
	case User, Admin, Owner:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Parse maps a wire name to a Role. Matching is exact.
func Parse(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Contains reports whether want is present in held.
func Contains(held []Role, want Role) bool {
	for _, r := range held {
		if r == want {
			return true
		}
	}
	return false
}
