package accounts

import (
	"context"
	"time"

	"jwt-auth/internal/audit"
	"jwt-auth/internal/auth"
	"jwt-auth/internal/identity"
	"jwt-auth/internal/roles"
	"jwt-auth/pkg/logger"
)

// Revoker withdraws a token id until its expiry.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// Service orchestrates authentication, registration and role administration
// on top of the identity store. It holds no per-request state.
type Service struct {
	store          identity.Store
	tokens         *auth.Manager
	seeder         *roles.Seeder
	audit          *audit.Service
	revoker        Revoker
	bootstrapOwner string
	clock          func() time.Time
}

type Option func(*Service)

// WithAudit enables best-effort audit records.
func WithAudit(a *audit.Service) Option {
	return func(s *Service) { s.audit = a }
}

func WithRevoker(r Revoker) Option {
	return func(s *Service) { s.revoker = r }
}

// WithBootstrapOwner grants OWNER to username when it registers.
func WithBootstrapOwner(username string) Option {
	return func(s *Service) { s.bootstrapOwner = username }
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func NewService(store identity.Store, tokens *auth.Manager, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tokens: tokens,
		seeder: roles.NewSeeder(store),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedRoles ensures the fixed role set exists.
func (s *Service) SeedRoles(ctx context.Context) (roles.SeedResult, error) {
	res, err := s.seeder.SeedRoles(ctx)
	if err != nil {
		return 0, err
	}
	if res == roles.Seeded {
		logger.From(ctx).Info("roles seeded")
		s.recordAudit(ctx, func(a *audit.Service) error {
			return a.LogRolesSeeded(ctx, ClientIPFromContext(ctx))
		})
	}
	return res, nil
}

func (s *Service) recordAudit(ctx context.Context, fn func(a *audit.Service) error) {
	if s.audit == nil {
		return
	}
	if err := fn(s.audit); err != nil {
		logger.From(ctx).Warn("audit append failed", "err", err)
	}
}
