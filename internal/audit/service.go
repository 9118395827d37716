package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It is append-only: there are no Update/Delete methods.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records internal audit information. Records are not exposed to end users.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s == nil || s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogRoleGranted records a role grant performed by an administrator.
func (s *Service) LogRoleGranted(ctx context.Context, actorUserID, actorName, ip, targetUsername, role string) error {
	return s.Append(ctx, Event{
		Type:           EventTypeRoleGranted,
		ActorUserID:    actorUserID,
		ActorName:      actorName,
		IPAddress:      ip,
		TargetUsername: targetUsername,
		Role:           role,
		Message:        "role granted",
	})
}

// LogRolesSeeded records that missing roles were created.
func (s *Service) LogRolesSeeded(ctx context.Context, ip string) error {
	return s.Append(ctx, Event{
		Type:      EventTypeRolesSeeded,
		IPAddress: ip,
		Message:   "roles seeded",
	})
}

// LogUserRegistered records a successful self-registration.
func (s *Service) LogUserRegistered(ctx context.Context, ip, username string) error {
	return s.Append(ctx, Event{
		Type:           EventTypeUserRegistered,
		IPAddress:      ip,
		TargetUsername: username,
		Message:        "user registered",
	})
}
