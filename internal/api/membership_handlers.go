package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/service"
)

func (s *Server) registerMembershipRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "assign-unit",
		Method:      http.MethodPut,
		Path:        "/api/v1/registry/residents/{id}/units/{unitID}",
		Summary:     "Assign a resident to a unit",
		Description: "Creates or updates the unit membership and enrolls the resident in the unit's association.",
		Tags:        []string{"Memberships"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAssignUnit)

	huma.Register(s.api, huma.Operation{
		OperationID: "remove-unit",
		Method:      http.MethodDelete,
		Path:        "/api/v1/registry/residents/{id}/units/{unitID}",
		Summary:     "Remove a resident from a unit",
		Description: "Deletes the unit membership. The association membership stays.",
		Tags:        []string{"Memberships"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveUnit)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-resident-units",
		Method:      http.MethodGet,
		Path:        "/api/v1/registry/residents/{id}/units",
		Summary:     "List a resident's unit memberships",
		Tags:        []string{"Memberships"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListResidentUnits)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-resident-associations",
		Method:      http.MethodGet,
		Path:        "/api/v1/registry/residents/{id}/associations",
		Summary:     "List a resident's association memberships",
		Tags:        []string{"Memberships"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListResidentAssociations)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-unit-residents",
		Method:      http.MethodGet,
		Path:        "/api/v1/registry/units/{id}/residents",
		Summary:     "List residents of a unit",
		Tags:        []string{"Memberships"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUnitResidents)
}

// === DTOs ===

// UnitMembershipResponse contains a unit membership.
type UnitMembershipResponse struct {
	ID         int64     `json:"id" doc:"Membership ID"`
	ResidentID int64     `json:"resident_id" doc:"Resident ID"`
	UnitID     int64     `json:"unit_id" doc:"Unit ID"`
	Role       string    `json:"role" doc:"Role in the unit (owner or resident)"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// UnitMembershipOutput wraps a unit membership for Huma.
type UnitMembershipOutput struct {
	Body UnitMembershipResponse
}

// UnitMembershipListOutput wraps a unit membership list for Huma.
type UnitMembershipListOutput struct {
	Body []UnitMembershipResponse
}

// AssociationMembershipResponse contains an association membership.
type AssociationMembershipResponse struct {
	ID            int64     `json:"id" doc:"Membership ID"`
	ResidentID    int64     `json:"resident_id" doc:"Resident ID"`
	AssociationID int64     `json:"association_id" doc:"Association ID"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation timestamp"`
}

// AssociationMembershipListOutput wraps an association membership list for Huma.
type AssociationMembershipListOutput struct {
	Body []AssociationMembershipResponse
}

// AssignUnitInput wraps the assignment request for Huma.
type AssignUnitInput struct {
	ID     int64 `path:"id" doc:"Resident ID"`
	UnitID int64 `path:"unitID" doc:"Unit ID"`
	Body   struct {
		Role string `json:"role" validate:"required,oneof=owner resident" doc:"Role in the unit (owner or resident)"`
	}
}

// RemoveUnitInput identifies the membership to remove.
type RemoveUnitInput struct {
	ID     int64 `path:"id" doc:"Resident ID"`
	UnitID int64 `path:"unitID" doc:"Unit ID"`
}

// UnitIDInput identifies a unit by registry ID.
type UnitIDInput struct {
	ID int64 `path:"id" doc:"Unit ID"`
}

func mapUnitMembershipResponse(m *domain.UnitMembership) UnitMembershipResponse {
	return UnitMembershipResponse{
		ID:         m.ID,
		ResidentID: m.ResidentID,
		UnitID:     m.UnitID,
		Role:       string(m.Role),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleAssignUnit(ctx context.Context, input *AssignUnitInput) (*UnitMembershipOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	membership, err := s.services.Membership.AssignUnit(ctx, service.AssignUnitRequest{
		ResidentID: input.ID,
		UnitID:     input.UnitID,
		Role:       input.Body.Role,
	})
	if err != nil {
		return nil, err
	}
	return &UnitMembershipOutput{Body: mapUnitMembershipResponse(membership)}, nil
}

// EmptyOutput is a bodyless 204 response.
type EmptyOutput struct {
	Status int
}

func (s *Server) handleRemoveUnit(ctx context.Context, input *RemoveUnitInput) (*EmptyOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Membership.RemoveUnit(ctx, input.ID, input.UnitID); err != nil {
		return nil, err
	}
	return &EmptyOutput{Status: http.StatusNoContent}, nil
}

func (s *Server) handleListResidentUnits(ctx context.Context, input *ResidentIDInput) (*UnitMembershipListOutput, error) {
	memberships, err := s.services.Membership.ListForResident(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]UnitMembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, mapUnitMembershipResponse(m))
	}
	return &UnitMembershipListOutput{Body: out}, nil
}

func (s *Server) handleListResidentAssociations(ctx context.Context, input *ResidentIDInput) (*AssociationMembershipListOutput, error) {
	memberships, err := s.services.Membership.ListAssociations(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]AssociationMembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, AssociationMembershipResponse{
			ID:            m.ID,
			ResidentID:    m.ResidentID,
			AssociationID: m.AssociationID,
			CreatedAt:     m.CreatedAt,
		})
	}
	return &AssociationMembershipListOutput{Body: out}, nil
}

func (s *Server) handleListUnitResidents(ctx context.Context, input *UnitIDInput) (*UnitMembershipListOutput, error) {
	memberships, err := s.services.Membership.ListForUnit(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]UnitMembershipResponse, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, mapUnitMembershipResponse(m))
	}
	return &UnitMembershipListOutput{Body: out}, nil
}
