package accounts

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInsufficientRole   = errors.New("insufficient role")
	ErrInvalidRole        = errors.New("invalid role")
	ErrRevocationDisabled = errors.New("token revocation is not configured")
)

// UserCreationError carries every reason the identity store refused a new user.
type UserCreationError struct {
	Reasons []string
}

func (e *UserCreationError) Error() string {
	var b strings.Builder
	b.WriteString("user creation failed because:")
	for _, r := range e.Reasons {
		b.WriteString(" # ")
		b.WriteString(r)
	}
	return b.String()
}
