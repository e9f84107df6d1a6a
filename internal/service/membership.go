package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vecindario/vecindario-server/internal/domain"
	domainerrors "github.com/vecindario/vecindario-server/internal/errors"
	"github.com/vecindario/vecindario-server/internal/store"
	"github.com/vecindario/vecindario-server/internal/store/sqlite"
)

// MembershipService keeps unit and association memberships consistent.
// Assigning a resident to a unit also enrolls them in the unit's
// association; removing them from a unit never touches the association
// membership.
type MembershipService struct {
	registry *sqlite.Store
	logger   *slog.Logger
}

// NewMembershipService creates a new membership service.
func NewMembershipService(registry *sqlite.Store, logger *slog.Logger) *MembershipService {
	return &MembershipService{registry: registry, logger: logger}
}

// AssignUnitRequest assigns a resident to a unit with a role.
type AssignUnitRequest struct {
	ResidentID int64  `json:"resident_id" validate:"required"`
	UnitID     int64  `json:"unit_id" validate:"required"`
	Role       string `json:"role" validate:"required,oneof=owner resident"`
}

// AssignUnit assigns the resident to the unit, upserting the role if the
// membership already exists, and enrolls them in the unit's association.
func (s *MembershipService) AssignUnit(ctx context.Context, req AssignUnitRequest) (*domain.UnitMembership, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	membership, err := s.registry.AssignUnit(ctx, req.ResidentID, req.UnitID, domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			var storeErr *store.Error
			if errors.As(err, &storeErr) {
				return nil, domainerrors.NotFound(storeErr.Message)
			}
			return nil, domainerrors.NotFound("resident or unit not found")
		}
		return nil, fmt.Errorf("assign unit: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("resident assigned to unit",
			"resident_id", req.ResidentID,
			"unit_id", req.UnitID,
			"role", req.Role,
		)
	}
	return membership, nil
}

// RemoveUnit removes the resident's unit membership. The association
// membership stays in place.
func (s *MembershipService) RemoveUnit(ctx context.Context, residentID, unitID int64) error {
	if err := s.registry.RemoveUnit(ctx, residentID, unitID); err != nil {
		if errors.Is(err, store.ErrNotAssigned) {
			return domainerrors.NotAssigned(fmt.Sprintf(
				"resident %d is not assigned to unit %d", residentID, unitID))
		}
		return fmt.Errorf("remove unit: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("resident removed from unit", "resident_id", residentID, "unit_id", unitID)
	}
	return nil
}

// ListForResident returns the resident's unit memberships.
func (s *MembershipService) ListForResident(ctx context.Context, residentID int64) ([]*domain.UnitMembership, error) {
	if _, err := s.registry.GetResident(ctx, residentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("resident %d not found", residentID)
		}
		return nil, fmt.Errorf("get resident: %w", err)
	}
	memberships, err := s.registry.ListUnitMemberships(ctx, residentID)
	if err != nil {
		return nil, fmt.Errorf("list unit memberships: %w", err)
	}
	return memberships, nil
}

// ListForUnit returns all memberships of a unit.
func (s *MembershipService) ListForUnit(ctx context.Context, unitID int64) ([]*domain.UnitMembership, error) {
	if _, err := s.registry.GetUnit(ctx, unitID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("unit %d not found", unitID)
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	memberships, err := s.registry.ListUnitResidents(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("list unit residents: %w", err)
	}
	return memberships, nil
}

// ListAssociations returns the resident's association memberships.
func (s *MembershipService) ListAssociations(ctx context.Context, residentID int64) ([]*domain.AssociationMembership, error) {
	memberships, err := s.registry.ListAssociationMemberships(ctx, residentID)
	if err != nil {
		return nil, fmt.Errorf("list association memberships: %w", err)
	}
	return memberships, nil
}
