package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"jwt-auth/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrConfiguration    = errors.New("auth: invalid token configuration")
	ErrMalformedToken   = errors.New("auth: malformed token")
	ErrSignatureInvalid = errors.New("auth: signature invalid")
	ErrTokenExpired     = errors.New("auth: token expired")
	ErrIssuerMismatch   = errors.New("auth: issuer mismatch")
	ErrAudienceMismatch = errors.New("auth: audience mismatch")
	ErrInvalidClaims    = errors.New("auth: invalid claims")
)

// Token is a signed bearer token plus the metadata callers need without re-parsing it.
type Token struct {
	Value     string    `json:"token"`
	ID        string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if err := checkSecret([]byte(cfg.JWTSecret)); err != nil {
		return nil, err
	}
	ttl := cfg.TokenTTL
	if ttl == 0 {
		ttl = config.DefaultTokenTTL
	}
	if ttl < 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", ErrConfiguration)
	}

	return &Manager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      ttl,
	}, nil
}

func (m *Manager) TTL() time.Duration { return m.ttl }

/* ===================== ISSUE ===================== */

func (m *Manager) Issue(now time.Time, c Claims) (Token, error) {
	return Issue(now, c, m.secret, m.issuer, m.audience, m.ttl)
}

// Issue signs c with HS256. Expiry is now+ttl; iss and aud are stamped from
// the arguments (aud is omitted when empty).
func Issue(now time.Time, c Claims, secret []byte, issuer, audience string, ttl time.Duration) (Token, error) {
	if err := checkSecret(secret); err != nil {
		return Token{}, err
	}
	if ttl <= 0 {
		return Token{}, fmt.Errorf("%w: ttl must be positive", ErrConfiguration)
	}
	if c.Subject == "" || c.ID == "" || c.Name == "" {
		return Token{}, ErrMissingClaim
	}

	exp := now.Add(ttl)
	c.Issuer = issuer
	c.Audience = audienceOrNil(audience)
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(exp)
	if c.Roles == nil {
		c.Roles = normalizeRoles(nil)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ID: c.ID, ExpiresAt: c.ExpiresAt.Time}, nil
}

/* ===================== VALIDATE ===================== */

func (m *Manager) Validate(tokenString string, now time.Time) (Claims, error) {
	return Validate(tokenString, m.secret, m.issuer, m.audience, now)
}

// Validate checks the signature first, then issuer, audience and expiry.
// There is no leeway: a token is valid only while now < exp.
func Validate(tokenString string, secret []byte, issuer, audience string, now time.Time) (Claims, error) {
	if err := verifySignature(tokenString, secret); err != nil {
		return Claims{}, err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if claims.Subject == "" || claims.ID == "" || claims.Name == "" {
		return Claims{}, fmt.Errorf("%w: identity claims missing", ErrInvalidClaims)
	}
	for _, r := range claims.Roles {
		if !r.Valid() {
			return Claims{}, fmt.Errorf("%w: unknown role %q", ErrInvalidClaims, r)
		}
	}
	return claims, nil
}

// verifySignature recomputes the MAC over header.payload before anything in
// the token is decoded, so any altered byte reports ErrSignatureInvalid.
func verifySignature(tokenString string, secret []byte) error {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return ErrMalformedToken
	}
	sig, err := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	if err != nil {
		return ErrSignatureInvalid
	}
	// Verify uses hmac.Equal, a constant-time comparison.
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, secret); err != nil {
		return ErrSignatureInvalid
	}
	return nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuerMismatch
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudienceMismatch
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
}

func checkSecret(secret []byte) error {
	if len(secret) < config.MinSecretBytes {
		return fmt.Errorf("%w: secret must be at least %d bytes", ErrConfiguration, config.MinSecretBytes)
	}
	return nil
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
