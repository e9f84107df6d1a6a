package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vecindario/vecindario-server/internal/domain"
	domainerrors "github.com/vecindario/vecindario-server/internal/errors"
	"github.com/vecindario/vecindario-server/internal/id"
	"github.com/vecindario/vecindario-server/internal/normalize"
	"github.com/vecindario/vecindario-server/internal/store"
)

// AmenityService manages directory associations and their amenities.
type AmenityService struct {
	directory *store.Store
	logger    *slog.Logger
}

// NewAmenityService creates a new amenity service.
func NewAmenityService(directory *store.Store, logger *slog.Logger) *AmenityService {
	return &AmenityService{directory: directory, logger: logger}
}

// CreateDirectoryAssociationRequest creates a directory association.
type CreateDirectoryAssociationRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address" validate:"max=300"`
	City    string `json:"city" validate:"max=100"`
}

// CreateAmenityRequest creates an amenity inside a directory association.
type CreateAmenityRequest struct {
	AssociationID string `json:"association_id" validate:"required"`
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Description   string `json:"description" validate:"max=500"`
	Bookable      bool   `json:"bookable"`
	OpeningTime   string `json:"opening_time"`
	ClosingTime   string `json:"closing_time"`
}

// UpdateAmenityRequest updates an amenity. Nil fields stay unchanged.
type UpdateAmenityRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Bookable    *bool   `json:"bookable,omitempty"`
	OpeningTime *string `json:"opening_time,omitempty"`
	ClosingTime *string `json:"closing_time,omitempty"`
}

// CreateAssociation stores a new directory association.
func (s *AmenityService) CreateAssociation(ctx context.Context, req CreateDirectoryAssociationRequest) (*domain.Association, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	assoc := &domain.Association{
		Name:    normalize.Name(req.Name),
		Address: req.Address,
		City:    req.City,
	}
	var err error
	assoc.ID, err = id.NewObjectID()
	if err != nil {
		return nil, fmt.Errorf("generate association ID: %w", err)
	}
	assoc.InitTimestamps()

	if err := s.directory.Associations.Create(ctx, assoc.ID, assoc); err != nil {
		return nil, fmt.Errorf("create association: %w", err)
	}
	return assoc, nil
}

// GetAssociation retrieves a directory association by ID.
func (s *AmenityService) GetAssociation(ctx context.Context, associationID string) (*domain.Association, error) {
	assoc, err := s.directory.Associations.Get(ctx, associationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("association %s not found", associationID)
		}
		return nil, fmt.Errorf("get association: %w", err)
	}
	return assoc, nil
}

// ListAssociations returns all directory associations.
func (s *AmenityService) ListAssociations(ctx context.Context) ([]*domain.Association, error) {
	var assocs []*domain.Association
	for a, err := range s.directory.Associations.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list associations: %w", err)
		}
		assocs = append(assocs, a)
	}
	return assocs, nil
}

// CreateAmenity stores an amenity under an existing association. Opening
// hours are optional; when set they must be well formed, with opening
// strictly before closing.
func (s *AmenityService) CreateAmenity(ctx context.Context, req CreateAmenityRequest) (*domain.Amenity, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if err := validateHours(req.OpeningTime, req.ClosingTime); err != nil {
		return nil, err
	}
	if _, err := s.GetAssociation(ctx, req.AssociationID); err != nil {
		return nil, err
	}

	amenity := &domain.Amenity{
		AssociationID: req.AssociationID,
		Name:          normalize.Name(req.Name),
		Description:   req.Description,
		Bookable:      req.Bookable,
		OpeningTime:   req.OpeningTime,
		ClosingTime:   req.ClosingTime,
	}
	var err error
	amenity.ID, err = id.NewObjectID()
	if err != nil {
		return nil, fmt.Errorf("generate amenity ID: %w", err)
	}
	amenity.InitTimestamps()

	if err := s.directory.Amenities.Create(ctx, amenity.ID, amenity); err != nil {
		return nil, fmt.Errorf("create amenity: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("amenity created", "amenity_id", amenity.ID, "association_id", amenity.AssociationID)
	}
	return amenity, nil
}

// GetAmenity retrieves an amenity by ID.
func (s *AmenityService) GetAmenity(ctx context.Context, amenityID string) (*domain.Amenity, error) {
	amenity, err := s.directory.Amenities.Get(ctx, amenityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("amenity %s not found", amenityID)
		}
		return nil, fmt.Errorf("get amenity: %w", err)
	}
	return amenity, nil
}

// UpdateAmenity applies changes to an amenity.
func (s *AmenityService) UpdateAmenity(ctx context.Context, amenityID string, req UpdateAmenityRequest) (*domain.Amenity, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	amenity, err := s.GetAmenity(ctx, amenityID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		amenity.Name = normalize.Name(*req.Name)
	}
	if req.Description != nil {
		amenity.Description = *req.Description
	}
	if req.Bookable != nil {
		amenity.Bookable = *req.Bookable
	}
	if req.OpeningTime != nil {
		amenity.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		amenity.ClosingTime = *req.ClosingTime
	}
	if err := validateHours(amenity.OpeningTime, amenity.ClosingTime); err != nil {
		return nil, err
	}
	amenity.Touch()

	if err := s.directory.Amenities.Update(ctx, amenity.ID, amenity); err != nil {
		return nil, fmt.Errorf("update amenity: %w", err)
	}
	return amenity, nil
}

// ListAmenities returns the amenities of a directory association.
func (s *AmenityService) ListAmenities(ctx context.Context, associationID string) ([]*domain.Amenity, error) {
	if _, err := s.GetAssociation(ctx, associationID); err != nil {
		return nil, err
	}
	amenities, err := s.directory.ListAmenitiesByAssociation(ctx, associationID)
	if err != nil {
		return nil, fmt.Errorf("list amenities: %w", err)
	}
	return amenities, nil
}

// validateHours checks the optional opening window. Either edge may be
// empty; when both are set, opening must be strictly before closing.
func validateHours(opening, closing string) error {
	var open, closeAt int
	var err error
	if opening != "" {
		if open, err = domain.ParseClock(opening); err != nil {
			return domainerrors.Validationf("opening_time %q must be HH:MM", opening)
		}
	}
	if closing != "" {
		if closeAt, err = domain.ParseClock(closing); err != nil {
			return domainerrors.Validationf("closing_time %q must be HH:MM", closing)
		}
	}
	if opening != "" && closing != "" && open >= closeAt {
		return domainerrors.Validation("opening_time must be before closing_time")
	}
	return nil
}
