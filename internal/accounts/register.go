package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jwt-auth/internal/audit"
	"jwt-auth/internal/identity"
	"jwt-auth/internal/roles"
	"jwt-auth/pkg/logger"
)

type RegisterRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a user and grants the default USER role.
// A taken username fails with ErrDuplicateUsername before any create call.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (identity.User, error) {
	log := logger.From(ctx).With("flow", "register")
	req.Username = strings.TrimSpace(req.Username)

	_, err := s.store.FindUserByName(ctx, req.Username)
	switch {
	case err == nil:
		return identity.User{}, ErrDuplicateUsername
	case !errors.Is(err, identity.ErrNotFound):
		return identity.User{}, fmt.Errorf("find user: %w", err)
	}

	u, err := s.store.CreateUser(ctx, identity.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, req.Password)
	if err != nil {
		var verr *identity.ValidationError
		switch {
		case errors.Is(err, identity.ErrDuplicate):
			return identity.User{}, ErrDuplicateUsername
		case errors.As(err, &verr):
			return identity.User{}, &UserCreationError{Reasons: verr.Reasons}
		default:
			return identity.User{}, fmt.Errorf("create user: %w", err)
		}
	}

	if err := s.store.AddRole(ctx, u, roles.User); err != nil {
		return identity.User{}, fmt.Errorf("assign default role: %w", err)
	}
	if s.bootstrapOwner != "" && identity.NormalizeUsername(u.Username) == identity.NormalizeUsername(s.bootstrapOwner) {
		if err := s.store.AddRole(ctx, u, roles.Owner); err != nil {
			return identity.User{}, fmt.Errorf("assign bootstrap owner role: %w", err)
		}
		log.Warn("bootstrap owner registered", "user_id", u.ID)
	}

	log.Info("user registered", "user_id", u.ID)
	s.recordAudit(ctx, func(a *audit.Service) error {
		return a.LogUserRegistered(ctx, ClientIPFromContext(ctx), u.Username)
	})
	return u, nil
}
