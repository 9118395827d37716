package roles

import (
	"context"
	"errors"
	"fmt"
)

// Store is the subset of the identity store the registry needs.
type Store interface {
	RoleExists(ctx context.Context, r Role) (bool, error)
	CreateRole(ctx context.Context, r Role) error
}

type SeedResult int

const (
	Seeded SeedResult = iota + 1
	AlreadySeeded
)

func (r SeedResult) String() string {
	switch r {
	case Seeded:
		return "seeded"
	case AlreadySeeded:
		return "already_seeded"
	default:
		return "unknown"
	}
}

type Seeder struct {
	store Store
}

func NewSeeder(store Store) *Seeder {
	return &Seeder{store: store}
}

// SeedRoles makes sure every role in All exists exactly once.
// When all of them already exist no create call is issued.
func (s *Seeder) SeedRoles(ctx context.Context) (SeedResult, error) {
	if s.store == nil {
		return 0, errors.New("roles: store not configured")
	}

	var missing []Role
	for _, r := range All() {
		ok, err := s.store.RoleExists(ctx, r)
		if err != nil {
			return 0, fmt.Errorf("check role %s: %w", r, err)
		}
		if !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		return AlreadySeeded, nil
	}

	for _, r := range missing {
		if err := s.store.CreateRole(ctx, r); err != nil {
			return 0, fmt.Errorf("create role %s: %w", r, err)
		}
	}
	return Seeded, nil
}
