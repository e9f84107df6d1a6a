package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vecindario/vecindario-server/internal/domain"
	domainerrors "github.com/vecindario/vecindario-server/internal/errors"
	"github.com/vecindario/vecindario-server/internal/service"
)

type membershipEnv struct {
	*testEnv
	memberships *service.MembershipService
	registrySvc *service.RegistryService
}

func newMembershipEnv(t *testing.T) *membershipEnv {
	t.Helper()
	env := newTestEnv(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &membershipEnv{
		testEnv:     env,
		memberships: service.NewMembershipService(env.registry, logger),
		registrySvc: service.NewRegistryService(env.registry, logger),
	}
}

func (e *membershipEnv) seedUnit(t *testing.T) *domain.Unit {
	t.Helper()
	ctx := context.Background()
	assoc, err := e.registrySvc.CreateAssociation(ctx, service.CreateAssociationRequest{
		Name: "Comunidad El Roble",
		City: "Valencia",
	})
	require.NoError(t, err)
	unit, err := e.registrySvc.CreateUnit(ctx, service.CreateUnitRequest{
		AssociationID: assoc.ID,
		Number:        "3B",
		Floor:         "3",
	})
	require.NoError(t, err)
	return unit
}

func TestAssignUnit_CreatesAssociationMembership(t *testing.T) {
	env := newMembershipEnv(t)
	ctx := context.Background()

	resident := env.seedResident(t, "Jorge", "Blanco", "jorge@example.com", "hunter2hunter2")
	unit := env.seedUnit(t)

	membership, err := env.memberships.AssignUnit(ctx, service.AssignUnitRequest{
		ResidentID: resident.ID,
		UnitID:     unit.ID,
		Role:       "owner",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, membership.Role)

	assocs, err := env.memberships.ListAssociations(ctx, resident.ID)
	require.NoError(t, err)
	require.Len(t, assocs, 1)
	assert.Equal(t, unit.AssociationID, assocs[0].AssociationID)
}

func TestAssignUnit_RejectsUnknownRole(t *testing.T) {
	env := newMembershipEnv(t)

	resident := env.seedResident(t, "Sara", "Mendez", "sara@example.com", "hunter2hunter2")
	unit := env.seedUnit(t)

	_, err := env.memberships.AssignUnit(context.Background(), service.AssignUnitRequest{
		ResidentID: resident.ID,
		UnitID:     unit.ID,
		Role:       "landlord",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestAssignUnit_MissingResident(t *testing.T) {
	env := newMembershipEnv(t)
	unit := env.seedUnit(t)

	_, err := env.memberships.AssignUnit(context.Background(), service.AssignUnitRequest{
		ResidentID: 999,
		UnitID:     unit.ID,
		Role:       "resident",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestRemoveUnit_KeepsAssociationMembership(t *testing.T) {
	env := newMembershipEnv(t)
	ctx := context.Background()

	resident := env.seedResident(t, "Nuria", "Campos", "nuria@example.com", "hunter2hunter2")
	unit := env.seedUnit(t)

	_, err := env.memberships.AssignUnit(ctx, service.AssignUnitRequest{
		ResidentID: resident.ID,
		UnitID:     unit.ID,
		Role:       "resident",
	})
	require.NoError(t, err)
	require.NoError(t, env.memberships.RemoveUnit(ctx, resident.ID, unit.ID))

	units, err := env.memberships.ListForResident(ctx, resident.ID)
	require.NoError(t, err)
	assert.Empty(t, units)

	assocs, err := env.memberships.ListAssociations(ctx, resident.ID)
	require.NoError(t, err)
	assert.Len(t, assocs, 1)
}

func TestRemoveUnit_NotAssigned(t *testing.T) {
	env := newMembershipEnv(t)

	resident := env.seedResident(t, "Ivan", "Ortega", "ivan@example.com", "hunter2hunter2")
	unit := env.seedUnit(t)

	err := env.memberships.RemoveUnit(context.Background(), resident.ID, unit.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotAssigned))
}
