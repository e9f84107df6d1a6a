package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vecindario/vecindario-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}
}

// seedResident inserts a resident for use in other tests.
func seedResident(t *testing.T, s *Store, email string) *domain.Resident {
	t.Helper()
	now := time.Now()
	r := &domain.Resident{
		FirstName:    "María",
		LastName:     "García",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateResident(context.Background(), r); err != nil {
		t.Fatalf("seed resident: %v", err)
	}
	return r
}

// seedAssociation inserts an association for use in other tests.
func seedAssociation(t *testing.T, s *Store, name string) *domain.RegistryAssociation {
	t.Helper()
	now := time.Now()
	a := &domain.RegistryAssociation{
		Name:      name,
		City:      "Madrid",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateAssociation(context.Background(), a); err != nil {
		t.Fatalf("seed association: %v", err)
	}
	return a
}

// seedUnit inserts a unit for use in other tests.
func seedUnit(t *testing.T, s *Store, associationID int64, number string) *domain.Unit {
	t.Helper()
	now := time.Now()
	u := &domain.Unit{
		AssociationID: associationID,
		Number:        number,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.CreateUnit(context.Background(), u); err != nil {
		t.Fatalf("seed unit: %v", err)
	}
	return u
}
