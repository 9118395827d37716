package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
)

func TestFS_ContainsMigrations(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(names) < 2 {
		t.Fatalf("expected embedded migrations, got %v", names)
	}
}

func TestUp_RunsFromRootDir(t *testing.T) {
	orig := upContext
	defer func() { upContext = orig }()

	var gotDir string
	upContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	if err := Up(context.Background(), nil); err != nil {
		t.Fatalf("up: %v", err)
	}
	if gotDir != "." {
		t.Fatalf("expected dir '.', got %q", gotDir)
	}
}

func TestUp_PropagatesError(t *testing.T) {
	orig := upContext
	defer func() { upContext = orig }()

	boom := errors.New("boom")
	upContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return boom
	}
	if err := Up(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
