package accounts

import (
	"context"
	"errors"
	"fmt"

	"jwt-auth/internal/audit"
	"jwt-auth/internal/auth"
	"jwt-auth/internal/identity"
	"jwt-auth/internal/rbac"
	"jwt-auth/internal/roles"
	"jwt-auth/pkg/logger"
)

// GrantRole adds role to the named user. Existing roles are kept.
// Only an OWNER may grant roles.
func (s *Service) GrantRole(ctx context.Context, actor auth.Claims, username string, role roles.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if !rbac.Authorize(actor, roles.Owner) {
		return ErrInsufficientRole
	}

	u, err := s.store.FindUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if err := s.store.AddRole(ctx, u, role); err != nil {
		return fmt.Errorf("add role: %w", err)
	}

	logger.From(ctx).Info("role granted", "actor_id", actor.Subject, "user_id", u.ID, "role", role)
	s.recordAudit(ctx, func(a *audit.Service) error {
		return a.LogRoleGranted(ctx, actor.Subject, actor.Name, ClientIPFromContext(ctx), u.Username, role.String())
	})
	return nil
}
