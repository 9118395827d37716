package identity

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past this length.
const maxPasswordBytes = 72

// PasswordPolicy mirrors the defaults of common identity frameworks.
type PasswordPolicy struct {
	MinLength       int
	RequireDigit    bool
	RequireLower    bool
	RequireUpper    bool
	RequireNonAlnum bool
}

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:       6,
		RequireDigit:    true,
		RequireLower:    true,
		RequireUpper:    true,
		RequireNonAlnum: true,
	}
}

// Check returns every rule the password breaks, in a fixed order.
func (p PasswordPolicy) Check(password string) []string {
	var reasons []string
	if len([]rune(password)) < p.MinLength {
		reasons = append(reasons, fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength))
	}

	var digit, lower, upper, other bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			other = true
		}
	}
	if p.RequireNonAlnum && !other {
		reasons = append(reasons, "Passwords must have at least one non alphanumeric character.")
	}
	if p.RequireDigit && !digit {
		reasons = append(reasons, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLower && !lower {
		reasons = append(reasons, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUpper && !upper {
		reasons = append(reasons, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	return reasons
}

// validateNewUser collects profile and password problems into one error.
func validateNewUser(u User, plaintext string, policy PasswordPolicy) error {
	var reasons []string
	if strings.TrimSpace(u.Username) == "" {
		reasons = append(reasons, "Username is required.")
	}
	if email := strings.TrimSpace(u.Email); email == "" {
		reasons = append(reasons, "Email is required.")
	} else if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		reasons = append(reasons, fmt.Sprintf("Email '%s' is invalid.", email))
	}
	reasons = append(reasons, policy.Check(plaintext)...)
	if len(plaintext) > maxPasswordBytes {
		reasons = append(reasons, fmt.Sprintf("Passwords must be at most %d bytes.", maxPasswordBytes))
	}
	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

// Hasher wraps bcrypt with a configurable cost.
type Hasher struct {
	Cost int
}

func DefaultHasher() Hasher {
	return Hasher{Cost: bcrypt.DefaultCost}
}

func (h Hasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Compare reports false on mismatch and an error only for corrupt hashes.
func (h Hasher) Compare(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
