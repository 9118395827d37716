package auth

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"jwt-auth/internal/config"
	"jwt-auth/internal/identity"
	"jwt-auth/internal/roles"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		JWTSecret:   testSecret,
		JWTIssuer:   "issuer",
		JWTAudience: "aud",
		TokenTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func testClaims(t *testing.T, held ...roles.Role) Claims {
	t.Helper()
	c, err := BuildClaims(identity.User{ID: "user-1", Username: "alice", FirstName: "Alice", LastName: "Liddell"}, held)
	if err != nil {
		t.Fatalf("build claims: %v", err)
	}
	return c
}

func TestIssueAndValidate_RoundTrip(t *testing.T) {
	m := newTestManager(t)
	in := testClaims(t, roles.User, roles.Admin)

	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, in)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if strings.Count(tok.Value, ".") != 2 {
		t.Fatalf("expected three segments, got %q", tok.Value)
	}
	if !tok.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry now+1h, got %s", tok.ExpiresAt)
	}
	if tok.ID != in.ID {
		t.Fatalf("token id must match jti claim")
	}

	out, err := m.Validate(tok.Value, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Subject != "user-1" || out.Name != "alice" || out.FirstName != "Alice" || out.LastName != "Liddell" || out.ID != in.ID {
		t.Fatalf("identity claims not preserved: %+v", out)
	}
	if !reflect.DeepEqual(out.Roles, in.Roles) {
		t.Fatalf("roles not preserved: got %v want %v", out.Roles, in.Roles)
	}
	if out.Issuer != "issuer" || !reflect.DeepEqual([]string(out.Audience), []string{"aud"}) {
		t.Fatalf("unexpected iss/aud: %q %v", out.Issuer, out.Audience)
	}
}

func TestIssue_HeaderDeclaresHS256(t *testing.T) {
	m := newTestManager(t)
	tok, err := m.Issue(time.Now(), testClaims(t))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(tok.Value, &Claims{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Header["alg"] != "HS256" {
		t.Fatalf("expected HS256, got %v", parsed.Header["alg"])
	}
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	m := newTestManager(t)
	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, testClaims(t, roles.User))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.Validate(tok.Value, now.Add(time.Hour-time.Second)); err != nil {
		t.Fatalf("expected valid one second before expiry, got %v", err)
	}
	if _, err := m.Validate(tok.Value, now.Add(time.Hour)); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at expiry, got %v", err)
	}
	if _, err := m.Validate(tok.Value, now.Add(time.Hour+time.Second)); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired after expiry, got %v", err)
	}
}

func TestValidate_AnyAlteredByteFailsSignature(t *testing.T) {
	m := newTestManager(t)
	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, testClaims(t, roles.Owner))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for i := 0; i < len(tok.Value); i++ {
		if tok.Value[i] == '.' {
			continue
		}
		b := []byte(tok.Value)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		if _, err := m.Validate(string(b), now); !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("byte %d altered: expected ErrSignatureInvalid, got %v", i, err)
		}
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()
	tok, err := m.Issue(now, testClaims(t))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := []byte("ffffffffffffffffffffffffffffffff")
	if _, err := Validate(tok.Value, other, "issuer", "aud", now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestValidate_IssuerAndAudienceMismatch(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	secret := []byte(testSecret)
	tok, err := Issue(now, testClaims(t), secret, "issuer", "aud", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Validate(tok.Value, secret, "other-issuer", "aud", now); !errors.Is(err, ErrIssuerMismatch) {
		t.Fatalf("expected ErrIssuerMismatch, got %v", err)
	}
	if _, err := Validate(tok.Value, secret, "issuer", "other-aud", now); !errors.Is(err, ErrAudienceMismatch) {
		t.Fatalf("expected ErrAudienceMismatch, got %v", err)
	}
}

func TestValidate_RejectsMalformedAndForeignAlgorithms(t *testing.T) {
	m := newTestManager(t)
	now := time.Now()

	if _, err := m.Validate("not-a-token", now); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, testClaims(t)).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.Validate(none, now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected alg=none rejected, got %v", err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, testClaims(t)).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign hs512: %v", err)
	}
	if _, err := m.Validate(hs512, now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected HS512 rejected, got %v", err)
	}
}

func TestValidate_RejectsUnknownRoleClaim(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	c := testClaims(t)
	c.Roles = []roles.Role{"ROOT"}
	c.Issuer = "issuer"
	c.Audience = jwt.ClaimStrings{"aud"}
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := newTestManager(t).Validate(raw, now); !errors.Is(err, ErrInvalidClaims) {
		t.Fatalf("expected ErrInvalidClaims, got %v", err)
	}
}

func TestNewManager_RejectsShortSecret(t *testing.T) {
	if _, err := NewManager(config.AuthConfig{JWTSecret: "secret"}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if _, err := Issue(time.Now(), testClaims(t), []byte("short"), "", "", time.Hour); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration from Issue, got %v", err)
	}
}

func TestNewManager_DefaultsTTLToOneHour(t *testing.T) {
	m, err := NewManager(config.AuthConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	if m.TTL() != time.Hour {
		t.Fatalf("expected 1h, got %s", m.TTL())
	}
}
