package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - Secrets (passwords, tokens) are never recorded.
// - Audit is best-effort; callers do not fail a flow on audit errors.
type Event struct {
	ID   string    `json:"id" db:"id"`
	Type EventType `json:"type" db:"type"`

	// ActorUserID is the authenticated caller, empty for anonymous flows.
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorName   string `json:"actor_name,omitempty" db:"actor_name"`

	TargetUsername string `json:"target_username,omitempty" db:"target_username"`
	Role           string `json:"role,omitempty" db:"role"`

	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`
	Message   string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeRoleGranted    EventType = "role_granted"
	EventTypeRolesSeeded    EventType = "roles_seeded"
	EventTypeUserRegistered EventType = "user_registered"
)
