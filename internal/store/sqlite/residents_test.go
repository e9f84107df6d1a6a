package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/store"
)

func TestCreateResident_AssignsID(t *testing.T) {
	s := newTestStore(t)

	r := seedResident(t, s, "maria@example.com")
	if r.ID == 0 {
		t.Fatal("expected generated ID")
	}

	got, err := s.GetResident(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("get resident: %v", err)
	}
	if got.Email != "maria@example.com" {
		t.Errorf("email = %q", got.Email)
	}
	if got.PasswordHash != r.PasswordHash {
		t.Error("password hash not preserved")
	}
}

func TestCreateResident_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	seedResident(t, s, "maria@example.com")

	now := time.Now()
	dup := &domain.Resident{
		FirstName: "María",
		LastName:  "García",
		Email:     "MARIA@example.com", // same address, different casing
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.CreateResident(context.Background(), dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetResidentByEmail_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)

	r := seedResident(t, s, "Maria.Garcia@Example.com")

	got, err := s.GetResidentByEmail(context.Background(), "maria.garcia@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != r.ID {
		t.Errorf("got ID %d, want %d", got.ID, r.ID)
	}
}

func TestGetResident_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetResident(context.Background(), 999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateResident(t *testing.T) {
	s := newTestStore(t)

	r := seedResident(t, s, "maria@example.com")
	r.LastName = "García López"
	r.UpdatedAt = time.Now()

	if err := s.UpdateResident(context.Background(), r); err != nil {
		t.Fatalf("update resident: %v", err)
	}

	got, err := s.GetResident(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("get resident: %v", err)
	}
	if got.LastName != "García López" {
		t.Errorf("last name = %q", got.LastName)
	}
}

func TestListResidents(t *testing.T) {
	s := newTestStore(t)

	seedResident(t, s, "a@example.com")
	seedResident(t, s, "b@example.com")

	residents, err := s.ListResidents(context.Background())
	if err != nil {
		t.Fatalf("list residents: %v", err)
	}
	if len(residents) != 2 {
		t.Errorf("got %d residents, want 2", len(residents))
	}
}
