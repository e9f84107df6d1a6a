package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vecindario/vecindario-server/internal/auth"
	"github.com/vecindario/vecindario-server/internal/domain"
	domainerrors "github.com/vecindario/vecindario-server/internal/errors"
	"github.com/vecindario/vecindario-server/internal/normalize"
	"github.com/vecindario/vecindario-server/internal/store"
	"github.com/vecindario/vecindario-server/internal/store/sqlite"
)

// RegistryService manages registry-side residents, associations, and
// units.
type RegistryService struct {
	registry *sqlite.Store
	logger   *slog.Logger
}

// NewRegistryService creates a new registry service.
func NewRegistryService(registry *sqlite.Store, logger *slog.Logger) *RegistryService {
	return &RegistryService{registry: registry, logger: logger}
}

// CreateResidentRequest creates a registry resident.
type CreateResidentRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// CreateAssociationRequest creates a registry association.
type CreateAssociationRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"max=300"`
	City    string `json:"city" validate:"max=100"`
}

// CreateUnitRequest creates a unit inside an association.
type CreateUnitRequest struct {
	AssociationID int64  `json:"association_id" validate:"required"`
	Number        string `json:"number" validate:"required,min=1,max=50"`
	Floor         string `json:"floor" validate:"max=20"`
}

// CreateResident stores a new resident with a hashed password.
func (s *RegistryService) CreateResident(ctx context.Context, req CreateResidentRequest) (*domain.Resident, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	resident := &domain.Resident{
		FirstName:    normalize.Name(req.FirstName),
		LastName:     normalize.Name(req.LastName),
		Email:        normalize.Email(req.Email),
		PasswordHash: hash,
	}
	if err := s.registry.CreateResident(ctx, resident); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a resident with this email already exists")
		}
		return nil, fmt.Errorf("create resident: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("resident created", "resident_id", resident.ID)
	}
	return resident, nil
}

// GetResident retrieves a resident by ID.
func (s *RegistryService) GetResident(ctx context.Context, residentID int64) (*domain.Resident, error) {
	resident, err := s.registry.GetResident(ctx, residentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("resident %d not found", residentID)
		}
		return nil, fmt.Errorf("get resident: %w", err)
	}
	return resident, nil
}

// ListResidents returns all residents.
func (s *RegistryService) ListResidents(ctx context.Context) ([]*domain.Resident, error) {
	residents, err := s.registry.ListResidents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list residents: %w", err)
	}
	return residents, nil
}

// CreateAssociation stores a new registry association.
func (s *RegistryService) CreateAssociation(ctx context.Context, req CreateAssociationRequest) (*domain.RegistryAssociation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	assoc := &domain.RegistryAssociation{
		Name:    normalize.Name(req.Name),
		Address: req.Address,
		City:    req.City,
	}
	if err := s.registry.CreateAssociation(ctx, assoc); err != nil {
		return nil, fmt.Errorf("create association: %w", err)
	}
	return assoc, nil
}

// GetAssociation retrieves a registry association by ID.
func (s *RegistryService) GetAssociation(ctx context.Context, associationID int64) (*domain.RegistryAssociation, error) {
	assoc, err := s.registry.GetAssociation(ctx, associationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("association %d not found", associationID)
		}
		return nil, fmt.Errorf("get association: %w", err)
	}
	return assoc, nil
}

// ListAssociations returns all registry associations.
func (s *RegistryService) ListAssociations(ctx context.Context) ([]*domain.RegistryAssociation, error) {
	assocs, err := s.registry.ListAssociations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	return assocs, nil
}

// CreateUnit stores a new unit. The association must exist.
func (s *RegistryService) CreateUnit(ctx context.Context, req CreateUnitRequest) (*domain.Unit, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	unit := &domain.Unit{
		AssociationID: req.AssociationID,
		Number:        req.Number,
		Floor:         req.Floor,
	}
	if err := s.registry.CreateUnit(ctx, unit); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("association %d not found", req.AssociationID)
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("a unit with this number already exists in the association")
		}
		return nil, fmt.Errorf("create unit: %w", err)
	}
	return unit, nil
}

// GetUnit retrieves a unit by ID.
func (s *RegistryService) GetUnit(ctx context.Context, unitID int64) (*domain.Unit, error) {
	unit, err := s.registry.GetUnit(ctx, unitID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("unit %d not found", unitID)
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return unit, nil
}

// ListUnits returns the units of an association.
func (s *RegistryService) ListUnits(ctx context.Context, associationID int64) ([]*domain.Unit, error) {
	units, err := s.registry.ListUnitsByAssociation(ctx, associationID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}
