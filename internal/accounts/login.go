package accounts

import (
	"context"
	"errors"
	"fmt"

	"jwt-auth/internal/auth"
	"jwt-auth/internal/identity"
	"jwt-auth/pkg/logger"
)

type loginState int

const (
	stateReceived loginState = iota
	stateCredentialChecked
	stateRolesLoaded
	stateClaimsBuilt
	stateTokenIssued
)

func (s loginState) String() string {
	switch s {
	case stateReceived:
		return "received"
	case stateCredentialChecked:
		return "credential_checked"
	case stateRolesLoaded:
		return "roles_loaded"
	case stateClaimsBuilt:
		return "claims_built"
	case stateTokenIssued:
		return "token_issued"
	default:
		return "unknown"
	}
}

// Login checks credentials and issues a bearer token carrying the user's roles.
//
// Received -> CredentialChecked -> RolesLoaded -> ClaimsBuilt -> TokenIssued.
// Any checkpoint may reject. An unknown username and a wrong password both
// return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (auth.Token, error) {
	log := logger.From(ctx).With("flow", "login")
	state := stateReceived

	reject := func(reason string, err error) (auth.Token, error) {
		log.Info("login rejected", "state", state.String(), "reason", reason)
		return auth.Token{}, err
	}

	u, err := s.store.FindUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return reject("credentials", ErrInvalidCredentials)
		}
		return reject("store", fmt.Errorf("find user: %w", err))
	}
	ok, err := s.store.VerifyPassword(ctx, u, password)
	if err != nil {
		return reject("store", fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return reject("credentials", ErrInvalidCredentials)
	}
	state = stateCredentialChecked
	log.Debug("login transition", "state", state.String(), "user_id", u.ID)

	held, err := s.store.GetRoles(ctx, u)
	if err != nil {
		return reject("store", fmt.Errorf("load roles: %w", err))
	}
	state = stateRolesLoaded
	log.Debug("login transition", "state", state.String(), "roles", held)

	claims, err := auth.BuildClaims(u, held)
	if err != nil {
		return reject("claims", err)
	}
	state = stateClaimsBuilt
	log.Debug("login transition", "state", state.String())

	tok, err := s.tokens.Issue(s.clock(), claims)
	if err != nil {
		return reject("issue", err)
	}
	state = stateTokenIssued
	log.Info("login succeeded", "state", state.String(), "user_id", u.ID, "jti", tok.ID)
	return tok, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, claims auth.Claims) error {
	if s.revoker == nil {
		return ErrRevocationDisabled
	}
	if claims.ExpiresAt == nil {
		return fmt.Errorf("%w: exp", auth.ErrMissingClaim)
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	logger.From(ctx).Info("token revoked", "user_id", claims.Subject, "jti", claims.ID)
	return nil
}
