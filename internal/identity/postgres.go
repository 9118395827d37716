package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jwt-auth/internal/roles"
	"jwt-auth/pkg/utils"

	"github.com/google/uuid"
)

// NOTE: This store assumes the schema in internal/migrations:
// - users (normalized_username is UNIQUE)
// - roles (name is UNIQUE)
// - user_roles (PRIMARY KEY user_id, role_id)

// PostgresStore implements Store on top of database/sql with the pgx driver.
type PostgresStore struct {
	db     *sql.DB
	policy PasswordPolicy
	hasher Hasher
	clock  func() time.Time
}

func NewPostgresStore(db *sql.DB, policy PasswordPolicy, hasher Hasher) *PostgresStore {
	return &PostgresStore{db: db, policy: policy, hasher: hasher, clock: time.Now}
}

func (s *PostgresStore) FindUserByName(ctx context.Context, username string) (User, error) {
	const q = `
SELECT id, username, email, first_name, last_name, password_hash, created_at
FROM users
WHERE normalized_username = $1
`
	var u User
	if err := s.db.QueryRowContext(ctx, q, NormalizeUsername(username)).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// VerifyPassword compares against the hash loaded by FindUserByName.
func (s *PostgresStore) VerifyPassword(ctx context.Context, u User, plaintext string) (bool, error) {
	if u.PasswordHash == "" {
		return false, nil
	}
	return s.hasher.Compare(u.PasswordHash, plaintext)
}

func (s *PostgresStore) CreateUser(ctx context.Context, u User, plaintext string) (User, error) {
	if err := validateNewUser(u, plaintext, s.policy); err != nil {
		return User{}, err
	}
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return User{}, err
	}

	u.ID = uuid.NewString()
	u.PasswordHash = hash
	u.CreatedAt = s.clock().UTC()

	const q = `
INSERT INTO users (
  id, username, normalized_username, email, first_name, last_name, password_hash, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8
)
`
	if _, err := s.db.ExecContext(ctx, q,
		u.ID,
		u.Username,
		NormalizeUsername(u.Username),
		u.Email,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		u.CreatedAt,
	); err != nil {
		if utils.IsUniqueViolation(err) {
			return User{}, ErrDuplicate
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetRoles(ctx context.Context, u User) ([]roles.Role, error) {
	const q = `
SELECT r.name
FROM user_roles ur
JOIN roles r ON r.id = ur.role_id
WHERE ur.user_id = $1
ORDER BY r.name
`
	rows, err := s.db.QueryContext(ctx, q, u.ID)
	if err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	defer rows.Close()

	var out []roles.Role
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		r, err := roles.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) AddRole(ctx context.Context, u User, r roles.Role) error {
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx utils.DBTX) error {
		roleID, err := findRoleID(ctx, tx, r)
		if err != nil {
			return err
		}
		const q = `
INSERT INTO user_roles (user_id, role_id)
VALUES ($1,$2)
ON CONFLICT DO NOTHING
`
		if _, err := tx.ExecContext(ctx, q, u.ID, roleID); err != nil {
			return fmt.Errorf("add role: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) RoleExists(ctx context.Context, r roles.Role) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, string(r)).Scan(&ok); err != nil {
		return false, fmt.Errorf("role exists: %w", err)
	}
	return ok, nil
}

func (s *PostgresStore) CreateRole(ctx context.Context, r roles.Role) error {
	if !r.Valid() {
		return roles.ErrUnknownRole
	}
	const q = `
INSERT INTO roles (id, name, created_at)
VALUES ($1,$2,$3)
`
	if _, err := s.db.ExecContext(ctx, q, uuid.NewString(), string(r), s.clock().UTC()); err != nil {
		if utils.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

func findRoleID(ctx context.Context, db utils.DBTX, r roles.Role) (string, error) {
	const q = `SELECT id FROM roles WHERE name = $1`
	var id string
	if err := db.QueryRowContext(ctx, q, string(r)).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrRoleNotFound
		}
		return "", fmt.Errorf("find role: %w", err)
	}
	return id, nil
}
