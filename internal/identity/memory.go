package identity

import (
	"context"
	"sort"
	"sync"
	"time"

	"jwt-auth/internal/roles"

	"github.com/google/uuid"
)

// MemoryStore keeps identities in process memory.
// Useful for tests and local runs; data is lost on restart.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]User // keyed by normalized username
	roles     map[roles.Role]struct{}
	userRoles map[string]map[roles.Role]struct{} // keyed by user id

	policy PasswordPolicy
	hasher Hasher
	clock  func() time.Time
}

func NewMemoryStore(policy PasswordPolicy, hasher Hasher) *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]User),
		roles:     make(map[roles.Role]struct{}),
		userRoles: make(map[string]map[roles.Role]struct{}),
		policy:    policy,
		hasher:    hasher,
		clock:     time.Now,
	}
}

func (s *MemoryStore) FindUserByName(ctx context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[NormalizeUsername(username)]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) VerifyPassword(ctx context.Context, u User, plaintext string) (bool, error) {
	s.mu.RLock()
	stored, ok := s.users[NormalizeUsername(u.Username)]
	s.mu.RUnlock()
	if !ok || stored.ID != u.ID {
		return false, nil
	}
	return s.hasher.Compare(stored.PasswordHash, plaintext)
}

func (s *MemoryStore) CreateUser(ctx context.Context, u User, plaintext string) (User, error) {
	if err := validateNewUser(u, plaintext, s.policy); err != nil {
		return User{}, err
	}
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := NormalizeUsername(u.Username)
	if _, exists := s.users[key]; exists {
		return User{}, ErrDuplicate
	}
	u.ID = uuid.NewString()
	u.PasswordHash = hash
	u.CreatedAt = s.clock().UTC()
	s.users[key] = u
	return u, nil
}

func (s *MemoryStore) GetRoles(ctx context.Context, u User) ([]roles.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	held := s.userRoles[u.ID]
	out := make([]roles.Role, 0, len(held))
	for r := range held {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *MemoryStore) AddRole(ctx context.Context, u User, r roles.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[r]; !ok {
		return ErrRoleNotFound
	}
	if _, ok := s.users[NormalizeUsername(u.Username)]; !ok {
		return ErrNotFound
	}
	held, ok := s.userRoles[u.ID]
	if !ok {
		held = make(map[roles.Role]struct{})
		s.userRoles[u.ID] = held
	}
	held[r] = struct{}{}
	return nil
}

func (s *MemoryStore) RoleExists(ctx context.Context, r roles.Role) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.roles[r]
	return ok, nil
}

func (s *MemoryStore) CreateRole(ctx context.Context, r roles.Role) error {
	if !r.Valid() {
		return roles.ErrUnknownRole
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[r]; ok {
		return ErrDuplicate
	}
	s.roles[r] = struct{}{}
	return nil
}
