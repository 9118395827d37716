package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_RejectsShortSecret(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "local", Port: 8080},
		DB:   DBConfig{Driver: "memory"},
		Auth: AuthConfig{JWTSecret: "short"},
	}
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected error for short secret")
	}
	if !strings.Contains(err.Error(), "at least 32 bytes") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "production", Port: 8080},
		DB:   DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "auth"},
		Auth: AuthConfig{JWTSecret: testSecret, JWTIssuer: "iss", JWTAudience: "aud"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_ProductionRejectsMemoryStore(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "production", Port: 8080},
		DB:   DBConfig{Driver: "memory"},
		Auth: AuthConfig{JWTSecret: testSecret, JWTIssuer: "iss", JWTAudience: "aud"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for memory store in production")
	}
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "auth"},
		Redis: RedisConfig{Host: "localhost"},
		Auth:  AuthConfig{JWTSecret: testSecret},
		Login: LoginConfig{RateLimit: 5},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.Driver != "postgres" {
		t.Fatalf("expected postgres driver default, got %q", c.DB.Driver)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Auth.TokenTTL != time.Hour {
		t.Fatalf("expected 1h ttl default, got %s", c.Auth.TokenTTL)
	}
	if c.Redis.Port != 6379 {
		t.Fatalf("expected redis port default, got %d", c.Redis.Port)
	}
	if c.Login.RateWindow != time.Minute {
		t.Fatalf("expected 1m rate window default, got %s", c.Login.RateWindow)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("AUTH_BOOTSTRAP_OWNER", "root")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTPAddr() != ":9000" {
		t.Fatalf("unexpected addr %q", c.HTTPAddr())
	}
	if c.Auth.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected ttl %s", c.Auth.TokenTTL)
	}
	if c.Auth.BootstrapOwner != "root" {
		t.Fatalf("unexpected bootstrap owner %q", c.Auth.BootstrapOwner)
	}
	if c.RedisEnabled() {
		t.Fatalf("redis should be disabled without REDIS_HOST")
	}
}

func TestLoad_ReportsBadDuration(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_TTL", "soon")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_TTL") {
		t.Fatalf("expected JWT_TTL error, got %v", err)
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,192.0.2.1 ")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.App.TrustedProxies) != 2 || c.App.TrustedProxies[0] != "10.0.0.0/8" || c.App.TrustedProxies[1] != "192.0.2.1" {
		t.Fatalf("unexpected trusted proxies %q", c.App.TrustedProxies)
	}
}

func TestValidate_TrustsNoProxyByDefault(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "local", Port: 8080},
		DB:   DBConfig{Driver: "memory"},
		Auth: AuthConfig{JWTSecret: testSecret},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(c.App.TrustedProxies) != 0 {
		t.Fatalf("expected no trusted proxies, got %q", c.App.TrustedProxies)
	}
}

func TestValidate_RejectsBadTrustedProxy(t *testing.T) {
	c := Config{
		App:  AppConfig{Env: "local", Port: 8080, TrustedProxies: []string{"10.0.0.0/8", "proxy.local"}},
		DB:   DBConfig{Driver: "memory"},
		Auth: AuthConfig{JWTSecret: testSecret},
	}
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), `TRUSTED_PROXIES entry must be an IP or CIDR, got "proxy.local"`) {
		t.Fatalf("expected TRUSTED_PROXIES error, got %v", err)
	}
}

func TestValidate_RejectsSubSecondRateWindow(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Driver: "memory"},
		Auth:  AuthConfig{JWTSecret: testSecret},
		Login: LoginConfig{RateLimit: 5, RateWindow: 500 * time.Millisecond},
	}
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), "LOGIN_RATE_WINDOW must be at least 1s") {
		t.Fatalf("expected LOGIN_RATE_WINDOW error, got %v", err)
	}
}
