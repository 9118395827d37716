package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestService_AppendRequiresType(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if err := svc.Append(context.Background(), Event{Message: "x"}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestService_NilServiceReportsMisconfiguration(t *testing.T) {
	var svc *Service
	if err := svc.LogRolesSeeded(context.Background(), "1.2.3.4"); err == nil {
		t.Fatalf("expected error from nil service")
	}
}

func TestService_LogRoleGranted(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.LogRoleGranted(context.Background(), "u-1", "root", "1.2.3.4", "alice", "ADMIN"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	e := evs[0]
	if e.Type != EventTypeRoleGranted || e.TargetUsername != "alice" || e.Role != "ADMIN" || e.ActorName != "root" {
		t.Fatalf("unexpected event %+v", e)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled")
	}
}

func TestMemoryRepo_OrdersAndFilters(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()

	_ = repo.Append(ctx, Event{Type: EventTypeRoleGranted, TargetUsername: "alice", Role: "OWNER", CreatedAt: base.Add(2 * time.Second)})
	_ = repo.Append(ctx, Event{Type: EventTypeUserRegistered, TargetUsername: "alice", CreatedAt: base})
	_ = repo.Append(ctx, Event{Type: EventTypeRoleGranted, TargetUsername: "bob", Role: "ADMIN", CreatedAt: base.Add(time.Second)})
	_ = repo.Append(ctx, Event{Type: EventTypeRoleGranted, TargetUsername: "alice", Role: "ADMIN", CreatedAt: base.Add(time.Second)})

	all := repo.Events()
	if len(all) != 4 || all[0].Type != EventTypeUserRegistered || all[3].Role != "OWNER" {
		t.Fatalf("expected events oldest first, got %+v", all)
	}
	if all[1].TargetUsername != "bob" || all[2].TargetUsername != "alice" {
		t.Fatalf("equal timestamps must keep append order, got %+v", all[1:3])
	}

	if got := repo.EventsOfType(EventTypeRoleGranted); len(got) != 3 {
		t.Fatalf("expected 3 grants, got %d", len(got))
	}
	grants := repo.GrantsFor("alice")
	if len(grants) != 2 || grants[0].Role != "ADMIN" || grants[1].Role != "OWNER" {
		t.Fatalf("unexpected grants for alice: %+v", grants)
	}
	if got := repo.GrantsFor("carol"); len(got) != 0 {
		t.Fatalf("expected no grants for carol, got %+v", got)
	}
}

func TestPostgresRepo_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs(sqlmock.AnyArg(), "user_registered", "", "", "alice", "", "1.2.3.4", "user registered", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := NewService(NewPostgresRepo(db))
	if err := svc.LogUserRegistered(context.Background(), "1.2.3.4", "alice"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
