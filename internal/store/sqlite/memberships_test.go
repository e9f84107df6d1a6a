package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/store"
)

func TestAssignUnit_CreatesBothMemberships(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := seedResident(t, s, "maria@example.com")
	a := seedAssociation(t, s, "Residencial Los Pinos")
	u := seedUnit(t, s, a.ID, "3B")

	m, err := s.AssignUnit(ctx, r.ID, u.ID, domain.RoleOwner)
	if err != nil {
		t.Fatalf("assign unit: %v", err)
	}
	if m.Role != domain.RoleOwner {
		t.Errorf("role = %q", m.Role)
	}

	ams, err := s.ListAssociationMemberships(ctx, r.ID)
	if err != nil {
		t.Fatalf("list association memberships: %v", err)
	}
	if len(ams) != 1 || ams[0].AssociationID != a.ID {
		t.Fatalf("expected one association membership for %d, got %+v", a.ID, ams)
	}
}

func TestAssignUnit_ReassignUpdatesRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := seedResident(t, s, "maria@example.com")
	a := seedAssociation(t, s, "Residencial Los Pinos")
	u := seedUnit(t, s, a.ID, "3B")

	first, err := s.AssignUnit(ctx, r.ID, u.ID, domain.RoleResident)
	if err != nil {
		t.Fatalf("first assign: %v", err)
	}

	second, err := s.AssignUnit(ctx, r.ID, u.ID, domain.RoleOwner)
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected membership %d to be reused, got %d", first.ID, second.ID)
	}
	if second.Role != domain.RoleOwner {
		t.Errorf("role = %q, want owner", second.Role)
	}

	ms, err := s.ListUnitMemberships(ctx, r.ID)
	if err != nil {
		t.Fatalf("list memberships: %v", err)
	}
	if len(ms) != 1 {
		t.Fatalf("expected one membership, got %d", len(ms))
	}
}

func TestAssignUnit_NoDuplicateAssociationMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := seedResident(t, s, "maria@example.com")
	a := seedAssociation(t, s, "Residencial Los Pinos")
	u1 := seedUnit(t, s, a.ID, "3B")
	u2 := seedUnit(t, s, a.ID, "4A")

	if _, err := s.AssignUnit(ctx, r.ID, u1.ID, domain.RoleOwner); err != nil {
		t.Fatalf("assign u1: %v", err)
	}
	if _, err := s.AssignUnit(ctx, r.ID, u2.ID, domain.RoleResident); err != nil {
		t.Fatalf("assign u2: %v", err)
	}

	ams, err := s.ListAssociationMemberships(ctx, r.ID)
	if err != nil {
		t.Fatalf("list association memberships: %v", err)
	}
	if len(ams) != 1 {
		t.Fatalf("expected one association membership, got %d", len(ams))
	}
}

func TestAssignUnit_MissingParties(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := seedResident(t, s, "maria@example.com")
	a := seedAssociation(t, s, "Residencial Los Pinos")
	u := seedUnit(t, s, a.ID, "3B")

	if _, err := s.AssignUnit(ctx, 999, u.ID, domain.RoleOwner); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing resident: expected ErrNotFound, got %v", err)
	}
	if _, err := s.AssignUnit(ctx, r.ID, 999, domain.RoleOwner); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing unit: expected ErrNotFound, got %v", err)
	}

	// Nothing should have been written.
	ms, err := s.ListUnitMemberships(ctx, r.ID)
	if err != nil {
		t.Fatalf("list memberships: %v", err)
	}
	if len(ms) != 0 {
		t.Errorf("expected no memberships, got %d", len(ms))
	}
}

func TestRemoveUnit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := seedResident(t, s, "maria@example.com")
	a := seedAssociation(t, s, "Residencial Los Pinos")
	u := seedUnit(t, s, a.ID, "3B")

	if _, err := s.AssignUnit(ctx, r.ID, u.ID, domain.RoleOwner); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := s.RemoveUnit(ctx, r.ID, u.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// Removing again reports the missing assignment.
	if err := s.RemoveUnit(ctx, r.ID, u.ID); !errors.Is(err, store.ErrNotAssigned) {
		t.Errorf("expected ErrNotAssigned, got %v", err)
	}

	// The association membership survives removal.
	ams, err := s.ListAssociationMemberships(ctx, r.ID)
	if err != nil {
		t.Fatalf("list association memberships: %v", err)
	}
	if len(ams) != 1 {
		t.Errorf("association membership should remain, got %d", len(ams))
	}
}

func TestRemoveUnit_NeverAssigned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := seedResident(t, s, "maria@example.com")
	a := seedAssociation(t, s, "Residencial Los Pinos")
	u := seedUnit(t, s, a.ID, "3B")

	if err := s.RemoveUnit(ctx, r.ID, u.ID); !errors.Is(err, store.ErrNotAssigned) {
		t.Fatalf("expected ErrNotAssigned, got %v", err)
	}
}

func TestListUnitResidents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r1 := seedResident(t, s, "maria@example.com")
	r2 := seedResident(t, s, "juan@example.com")
	a := seedAssociation(t, s, "Residencial Los Pinos")
	u := seedUnit(t, s, a.ID, "3B")

	if _, err := s.AssignUnit(ctx, r1.ID, u.ID, domain.RoleOwner); err != nil {
		t.Fatalf("assign r1: %v", err)
	}
	if _, err := s.AssignUnit(ctx, r2.ID, u.ID, domain.RoleResident); err != nil {
		t.Fatalf("assign r2: %v", err)
	}

	ms, err := s.ListUnitResidents(ctx, u.ID)
	if err != nil {
		t.Fatalf("list unit residents: %v", err)
	}
	if len(ms) != 2 {
		t.Errorf("got %d memberships, want 2", len(ms))
	}
}
