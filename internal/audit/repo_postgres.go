package audit

import (
	"context"
	"fmt"

	"jwt-auth/pkg/utils"
)

// PostgresRepo appends events to the audit_events table (INSERT only).
type PostgresRepo struct {
	db utils.DBTX
}

func NewPostgresRepo(db utils.DBTX) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_events (
  id, type, actor_user_id, actor_name, target_username, role, ip_address, message, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
)
`
	if _, err := r.db.ExecContext(ctx, q,
		e.ID,
		string(e.Type),
		e.ActorUserID,
		e.ActorName,
		e.TargetUsername,
		e.Role,
		e.IPAddress,
		e.Message,
		e.CreatedAt,
	); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
